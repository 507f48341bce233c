// Package timeseries provides the sample series containers and loaders used
// to feed the shot detector.
package timeseries

import (
	"errors"
	"iter"
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrLengthMismatch is returned when timestamps and values differ in length.
var ErrLengthMismatch = errors.New("timeseries: timestamps and values must have the same length")

// Series is a run of equally spaced samples from one source. Timestamps are
// optional; when present there is one per value.
type Series struct {
	Timestamps []time.Time
	Values     []float64
	Name       string
	Channel    string // source channel id, empty for single-channel inputs
}

// New creates a series from values, without timestamps.
func New(values []float64) *Series {
	return &Series{Values: values}
}

// NewWithTimestamps creates a series with explicit timestamps.
func NewWithTimestamps(timestamps []time.Time, values []float64) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, ErrLengthMismatch
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}, nil
}

// Len returns the number of samples.
func (s *Series) Len() int {
	return len(s.Values)
}

// HasTimestamps reports whether every value has a timestamp.
func (s *Series) HasTimestamps() bool {
	return len(s.Values) > 0 && len(s.Timestamps) == len(s.Values)
}

// Samples returns the values in order, for fragment.Iterator.Fragments.
func (s *Series) Samples() iter.Seq[float64] {
	return slices.Values(s.Values)
}

// Time returns the timestamp of sample i, or the zero time if the series has
// no timestamps or i is out of range.
func (s *Series) Time(i int) time.Time {
	if !s.HasTimestamps() || i < 0 || i >= len(s.Timestamps) {
		return time.Time{}
	}
	return s.Timestamps[i]
}

// Mean returns the arithmetic mean of the finite values, or NaN if there are none.
func (s *Series) Mean() float64 {
	v := s.finite()
	if len(v) == 0 {
		return math.NaN()
	}
	return stat.Mean(v, nil)
}

// Std returns the sample standard deviation of the finite values.
func (s *Series) Std() float64 {
	v := s.finite()
	if len(v) < 2 {
		return 0
	}
	return stat.StdDev(v, nil)
}

// Min returns the smallest finite value, or NaN if there is none.
func (s *Series) Min() float64 {
	v := s.finite()
	if len(v) == 0 {
		return math.NaN()
	}
	return floats.Min(v)
}

// Max returns the largest finite value, or NaN if there is none.
func (s *Series) Max() float64 {
	v := s.finite()
	if len(v) == 0 {
		return math.NaN()
	}
	return floats.Max(v)
}

// Median returns the median of the finite values, or NaN if there are none.
func (s *Series) Median() float64 {
	v := s.finite()
	if len(v) == 0 {
		return math.NaN()
	}
	slices.Sort(v)
	n := len(v)
	if n%2 == 0 {
		return (v[n/2-1] + v[n/2]) / 2
	}
	return v[n/2]
}

// Range returns the spread between Max and Min.
func (s *Series) Range() float64 {
	return s.Max() - s.Min()
}

// Slice returns a copy of the samples from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	start = max(start, 0)
	end = min(end, len(s.Values))
	if start >= end {
		return &Series{Values: []float64{}, Name: s.Name, Channel: s.Channel}
	}

	out := &Series{
		Values:  slices.Clone(s.Values[start:end]),
		Name:    s.Name,
		Channel: s.Channel,
	}
	if s.HasTimestamps() {
		out.Timestamps = slices.Clone(s.Timestamps[start:end])
	}
	return out
}

// Chunks splits the series into consecutive pieces of at most size samples.
// A size of zero or less returns the series itself.
func (s *Series) Chunks(size int) []*Series {
	if size <= 0 || len(s.Values) <= size {
		return []*Series{s}
	}
	out := make([]*Series, 0, (len(s.Values)+size-1)/size)
	for start := 0; start < len(s.Values); start += size {
		out = append(out, s.Slice(start, start+size))
	}
	return out
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	return &Series{
		Timestamps: slices.Clone(s.Timestamps),
		Values:     slices.Clone(s.Values),
		Name:       s.Name,
		Channel:    s.Channel,
	}
}

// finite returns a copy of the finite values.
func (s *Series) finite() []float64 {
	out := make([]float64, 0, len(s.Values))
	for _, v := range s.Values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
