package fragment

import (
	"slices"

	"github.com/sirupsen/logrus"
)

// Fragment is a detected shot. Start is the absolute index of its first
// sample in the input stream and End the index one past its last sample.
type Fragment struct {
	Start   int
	End     int
	Samples []float64 // denoised values, one per index in [Start, End)
	Raw     []float64 // input values over the same range
}

// Len returns the number of samples in the fragment.
func (f Fragment) Len() int {
	return f.End - f.Start
}

// Collect runs a fresh iterator over values and returns every fragment.
func Collect(cfg *Config, values []float64, opts ...Option) ([]Fragment, error) {
	it, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}

	var out []Fragment
	for f := range it.Fragments(slices.Values(values)) {
		out = append(out, f)
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Option configures an Iterator.
type Option func(*Iterator)

// WithLogger sets the logger used for window decisions. Iterators log
// nothing by default.
func WithLogger(log logrus.FieldLogger) Option {
	return func(it *Iterator) {
		if log != nil {
			it.log = log
		}
	}
}
