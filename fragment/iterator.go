package fragment

import (
	"errors"
	"io"
	"iter"
	"math"

	"github.com/gammazero/deque"
	"github.com/sirupsen/logrus"

	"github.com/sartorproj/goshot/denoise"
	"github.com/sartorproj/goshot/detector"
	"github.com/sartorproj/goshot/stats"
)

// ErrEmptyStream is reported by Err when Fragments consumed no samples.
var ErrEmptyStream = errors.New("fragment: empty input stream")

// Iterator turns a stream of samples into shot fragments. It keeps a sliding
// window of recent samples, denoises it, differentiates the fit and runs the
// pulse detector on the derivative after every new sample.
//
// An Iterator is not safe for concurrent use.
type Iterator struct {
	cfg      Config
	log      logrus.FieldLogger
	denoiser *denoise.Denoiser
	detector detector.Detector
	analyze  func(values []float64) analysis

	window  deque.Deque[float64]
	base    int // absolute index of window.At(0)
	total   int // samples pushed so far
	scratch []float64
	pending *pending
	err     error
}

// pending is a shot whose end is not known yet.
type pending struct {
	start   int
	samples []float64
	raw     []float64
}

func (p *pending) end() int {
	return p.start + len(p.samples)
}

// analysis is the outcome of one window.
type analysis struct {
	smoothed []float64
	box      stats.BoxStats
	flat     bool
	shot     detector.Shot
	found    bool
	trailing int
	open     bool
}

// New creates an iterator. A nil cfg means DefaultConfig.
func New(cfg *Config, opts ...Option) (*Iterator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	it := &Iterator{
		cfg:      *cfg,
		log:      discard,
		denoiser: cfg.denoiser(),
		detector: cfg.detector(),
	}
	it.analyze = it.analyzeWindow
	it.window.Grow(cfg.MaxPoints + 1)
	for _, opt := range opts {
		opt(it)
	}
	return it, nil
}

// Config returns a copy of the iterator configuration.
func (it *Iterator) Config() Config {
	return it.cfg
}

// Fragments returns the fragments found in samples, in stream order. The
// pending shot, if any, is emitted when samples is exhausted. Breaking out of
// the loop early leaves the pending shot for Flush.
func (it *Iterator) Fragments(samples iter.Seq[float64]) iter.Seq[Fragment] {
	return func(yield func(Fragment) bool) {
		it.err = nil
		for v := range samples {
			if f, ok := it.Push(v); ok {
				if !yield(f) {
					return
				}
			}
		}
		if it.total == 0 {
			it.err = ErrEmptyStream
			return
		}
		if f, ok := it.Flush(); ok {
			yield(f)
		}
	}
}

// Err returns the error that ended the last Fragments loop, if any.
func (it *Iterator) Err() error {
	return it.err
}

// Push adds one sample and returns a fragment when one is complete.
func (it *Iterator) Push(v float64) (Fragment, bool) {
	it.window.PushBack(v)
	it.total++

	if it.window.Len() < it.cfg.MinPoints {
		return Fragment{}, false
	}
	if over := it.window.Len() - it.cfg.MaxPoints; over > 0 {
		it.drop(max(over, it.cfg.Spare))
	}

	// While a shot is pending, skip the look-back so the detector finds the
	// next pulse rather than the pending one again.
	off := 0
	if it.pending != nil && it.cfg.Spare+1 < it.window.Len() {
		off = it.cfg.Spare + 1
	}
	sub := it.values(off)
	subStart := it.base + off

	a := it.analyze(sub)
	log := it.log.WithFields(logrus.Fields{
		"window_start": subStart,
		"window_len":   len(sub),
		"flat":         a.flat,
	})

	if p := it.pending; p != nil {
		for i := max(p.end(), subStart) - subStart; i < len(sub); i++ {
			p.samples = append(p.samples, a.smoothed[i])
			p.raw = append(p.raw, sub[i])
		}
	}

	if !a.found {
		if it.pending != nil {
			f := it.finalize(-1)
			log.WithField("start", f.Start).Debug("shot ended")
			it.drop(f.End - it.cfg.Spare - it.base)
			return f, true
		}
		cut := it.window.Len() / 2
		if a.open {
			cut = off + a.trailing - it.cfg.Spare
		}
		log.WithField("cut", cut).Trace("no shot")
		it.drop(cut)
		return Fragment{}, false
	}

	cut := off + a.shot.End - it.cfg.Spare
	if a.shot.Start < it.cfg.Spare {
		// The fall began in the look-back region: the pulse is either one we
		// already reported or one we joined too late to trust.
		log.WithField("end", subStart+a.shot.End).Debug("skipping shot in look-back")
		var f Fragment
		var ok bool
		if it.pending != nil {
			f, ok = it.finalize(-1), true
			cut = max(cut, f.End-it.cfg.Spare-it.base)
		}
		it.drop(cut)
		return f, ok
	}

	start := subStart + a.shot.Start
	var f Fragment
	var ok bool
	if it.pending != nil {
		f, ok = it.finalize(start), true
	}
	it.pending = &pending{
		start:   start,
		samples: append([]float64(nil), a.smoothed[a.shot.Start:]...),
		raw:     append([]float64(nil), sub[a.shot.Start:]...),
	}
	log.WithFields(logrus.Fields{
		"start": start,
		"end":   subStart + a.shot.End,
	}).Debug("shot detected")
	it.drop(cut)
	return f, ok
}

// Flush returns the pending shot, if any, and clears it.
func (it *Iterator) Flush() (Fragment, bool) {
	if it.pending == nil {
		return Fragment{}, false
	}
	return it.finalize(-1), true
}

// Reset clears the window and any pending shot. Absolute indices keep
// counting from the samples already pushed.
func (it *Iterator) Reset() {
	it.base += it.window.Len()
	it.window.Clear()
	it.pending = nil
	it.err = nil
}

// finalize turns the pending shot into a fragment ending no later than limit
// (limit < 0 means no limit) and clears it. The trailing Spare samples belong
// to the look-back of whatever follows and are trimmed.
func (it *Iterator) finalize(limit int) Fragment {
	p := it.pending
	it.pending = nil

	end := p.end()
	if limit >= 0 && limit < end {
		end = limit
	}
	end = max(end-it.cfg.Spare, p.start+1)
	n := min(end-p.start, len(p.samples))

	return Fragment{
		Start:   p.start,
		End:     p.start + n,
		Samples: p.samples[:n:n],
		Raw:     p.raw[:n:n],
	}
}

// drop removes up to n samples from the front of the window.
func (it *Iterator) drop(n int) {
	for ; n > 0 && it.window.Len() > 0; n-- {
		it.window.PopFront()
		it.base++
	}
}

// values copies the window from offset off into the scratch buffer.
func (it *Iterator) values(off int) []float64 {
	it.scratch = it.scratch[:0]
	for i := off; i < it.window.Len(); i++ {
		it.scratch = append(it.scratch, it.window.At(i))
	}
	return it.scratch
}

// analyzeWindow denoises values, differentiates the fit at every sample and
// runs the detector on the derivative. A window that cannot be fitted yields
// no shot.
func (it *Iterator) analyzeWindow(values []float64) analysis {
	a := analysis{smoothed: make([]float64, len(values))}
	copy(a.smoothed, values)

	res, err := it.denoiser.Run(denoise.FromValues(values))
	if err != nil {
		it.log.WithError(err).Debug("window fit failed")
		a.flat = true
		return a
	}

	d := make([]float64, len(values))
	for i := range values {
		x := float64(i)
		d[i] = res.Denoised.DY(x)
		if y := res.Denoised.Y(x); !math.IsNaN(y) {
			a.smoothed[i] = y
		} else if y := res.Raw.Y(x); !math.IsNaN(y) {
			a.smoothed[i] = y
		}
	}

	a.box = stats.BoxWithMultiplier(d, it.cfg.IQRMultiplier)
	a.flat = !a.box.Valid() || a.box.Width() < it.cfg.FlatnessThreshold
	if !a.flat {
		a.shot, a.found = it.detector.First(d)
	}
	a.trailing, a.open = it.detector.Trailing(d)
	return a
}
