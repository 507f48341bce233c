// Package spline implements cubic smoothing splines.
package spline

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Invalid input errors returned by Update and Fit.
var (
	ErrTooFewPoints      = errors.New("spline: at least 2 points are required")
	ErrNotIncreasing     = errors.New("spline: x values must be strictly increasing")
	ErrNonFinite         = errors.New("spline: NaN or infinite value")
	ErrNegativeSmoothing = errors.New("spline: smoothing weight must be a finite non-negative number")
	ErrWeights           = errors.New("spline: weights must be positive and match the point count")
)

// Spline is a cubic smoothing spline through an ordered set of points.
// Its observable state is the fitted points and the derived fragments; both
// are rebuilt from scratch on every Update.
type Spline struct {
	points    []Point
	weights   []float64 // nil means unit weights
	fragments []Fragment
}

// New creates a spline over a copy of points. The spline is degenerate until
// Update succeeds.
func New(points []Point) *Spline {
	p := make([]Point, len(points))
	copy(p, points)
	return &Spline{points: p}
}

// NewWeighted creates a spline whose residuals are weighted per point. A
// smaller weight lets the curve pass farther from that point.
func NewWeighted(points []Point, weights []float64) *Spline {
	s := New(points)
	s.weights = make([]float64, len(weights))
	copy(s.weights, weights)
	return s
}

// Fit creates a spline over points and computes it with smoothing weight p.
func Fit(points []Point, p float64) (*Spline, error) {
	s := New(points)
	if err := s.Update(p); err != nil {
		return s, err
	}
	return s, nil
}

// Points returns the points the spline was built from.
func (s *Spline) Points() []Point {
	return s.points
}

// Fragments returns the cubic pieces ordered by Xmin.
func (s *Spline) Fragments() []Fragment {
	return s.fragments
}

// Len returns the number of points.
func (s *Spline) Len() int {
	return len(s.points)
}

// Degenerate reports whether the spline has no fragments to evaluate.
func (s *Spline) Degenerate() bool {
	return len(s.fragments) == 0
}

// Update recomputes the spline with smoothing weight p.
// On error the spline is left degenerate.
func (s *Spline) Update(p float64) error {
	s.fragments = nil

	if err := s.validate(p); err != nil {
		return err
	}

	n := len(s.points)
	m := n - 2 // interior knots

	// One arena for every scratch band of this call.
	work := make([]float64, (n-1)+4*m+n)
	h := work[:n-1]
	diag := work[n-1 : n-1+m]
	off1 := work[n-1+m : n-1+2*m]
	off2 := work[n-1+2*m : n-1+3*m]
	rhs := work[n-1+3*m : n-1+4*m]
	moments := work[n-1+4*m:]

	for i := range h {
		h[i] = s.points[i+1].X - s.points[i].X
	}

	if m > 0 {
		s.buildSystem(p, h, diag, off1, off2, rhs)
		pentaSolve(diag, off1, off2, rhs)
		copy(moments[1:n-1], rhs)
	}

	// Smoothed knot values: g = y - p·W⁻¹·Q·γ
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		qg := 0.0
		if i+1 < n {
			qg += (moments[i+1] - moments[i]) / h[i]
		}
		if i > 0 {
			qg -= (moments[i] - moments[i-1]) / h[i-1]
		}
		values[i] = s.points[i].Y - p*qg/s.weight(i)
	}

	s.fragments = make([]Fragment, n-1)
	for i := 0; i < n-1; i++ {
		hi := h[i]
		s.fragments[i] = Fragment{
			Xmin: s.points[i].X,
			Xmax: s.points[i+1].X,
			A:    (moments[i+1] - moments[i]) / (6 * hi),
			B:    moments[i] / 2,
			C:    (values[i+1]-values[i])/hi - hi*(2*moments[i]+moments[i+1])/6,
			D:    values[i],
		}
	}

	return nil
}

// buildSystem fills the bands of R + p·Qᵀ·W⁻¹·Q and the right-hand side Qᵀ·y.
// Row j of the system belongs to interior knot k = j+1.
func (s *Spline) buildSystem(p float64, h, diag, off1, off2, rhs []float64) {
	m := len(diag)
	for j := 0; j < m; j++ {
		k := j + 1
		ra := 1 / h[k-1]   // Q[k-1][j]
		rb := -ra - 1/h[k] // Q[k][j]
		rc := 1 / h[k]     // Q[k+1][j]
		wa := s.weight(k - 1)
		wb := s.weight(k)
		wc := s.weight(k + 1)

		diag[j] = (h[k-1]+h[k])/3 + p*(ra*ra/wa+rb*rb/wb+rc*rc/wc)

		if j+1 < m {
			next := -1/h[k] - 1/h[k+1] // Q[k+1][j+1]
			off1[j] = h[k]/6 + p*(rb*rc/wb+rc*next/wc)
		}
		if j+2 < m {
			off2[j] = p * rc / (h[k+1] * wc)
		}

		rhs[j] = (s.points[k+1].Y-s.points[k].Y)/h[k] - (s.points[k].Y-s.points[k-1].Y)/h[k-1]
	}
}

func (s *Spline) weight(i int) float64 {
	if s.weights == nil {
		return 1
	}
	return s.weights[i]
}

func (s *Spline) validate(p float64) error {
	if !isFinite(p) || p < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeSmoothing, p)
	}
	if len(s.points) < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewPoints, len(s.points))
	}
	if s.weights != nil && len(s.weights) != len(s.points) {
		return fmt.Errorf("%w: %d weights for %d points", ErrWeights, len(s.weights), len(s.points))
	}
	for i, pt := range s.points {
		if !isFinite(pt.X) || !isFinite(pt.Y) {
			return fmt.Errorf("%w at point %d", ErrNonFinite, i)
		}
		if i > 0 && pt.X <= s.points[i-1].X {
			return fmt.Errorf("%w at point %d (%v after %v)", ErrNotIncreasing, i, pt.X, s.points[i-1].X)
		}
		if s.weights != nil && (!isFinite(s.weights[i]) || s.weights[i] <= 0) {
			return fmt.Errorf("%w: weight %d is %v", ErrWeights, i, s.weights[i])
		}
	}
	return nil
}

// find locates the fragment containing x by bisection.
// Fragments are ordered by Xmin by construction.
func (s *Spline) find(x float64) (Fragment, bool) {
	n := len(s.fragments)
	if n == 0 || math.IsNaN(x) {
		return Fragment{}, false
	}
	if x < s.fragments[0].Xmin || x > s.fragments[n-1].Xmax {
		return Fragment{}, false
	}
	i := sort.Search(n, func(i int) bool { return s.fragments[i].Xmin > x }) - 1
	if i < 0 {
		i = 0
	}
	return s.fragments[i], true
}

// Y returns the spline value at x. It is defined from the first knot up to and
// including the last one, and is NaN elsewhere.
func (s *Spline) Y(x float64) float64 {
	f, ok := s.find(x)
	if !ok {
		return math.NaN()
	}
	return f.Y(x)
}

// DY returns the first derivative at x. It is defined from the first knot up to and
// including the last one, and is NaN elsewhere.
func (s *Spline) DY(x float64) float64 {
	f, ok := s.find(x)
	if !ok {
		return math.NaN()
	}
	return f.DY(x)
}

// D2Y returns the second derivative at x. It is defined from the first knot up to and
// including the last one, and is NaN elsewhere.
func (s *Spline) D2Y(x float64) float64 {
	f, ok := s.find(x)
	if !ok {
		return math.NaN()
	}
	return f.D2Y(x)
}
