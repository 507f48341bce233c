// Package denoise implements outlier-resistant spline smoothing.
package denoise

import (
	"fmt"
	"math"
	"strings"

	"github.com/sartorproj/goshot/spline"
	"github.com/sartorproj/goshot/stats"
)

// DefaultOutlierWeight is the residual weight given to outliers in Downweight mode.
const DefaultOutlierWeight = 0.01

// Mode selects what happens to points outside the residual box.
type Mode int

const (
	// Drop removes outliers before the refit.
	Drop Mode = iota
	// Downweight keeps outliers but lets the refit pass far from them.
	Downweight
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Drop:
		return "drop"
	case Downweight:
		return "downweight"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "drop" or "downweight".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "drop":
		return Drop, nil
	case "downweight":
		return Downweight, nil
	default:
		return Drop, fmt.Errorf("denoise: unknown mode %q", s)
	}
}

// UnmarshalYAML reads a mode from its name.
func (m *Mode) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalYAML writes the mode name.
func (m Mode) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

// Denoiser fits a smoothing spline, rejects points whose residual falls
// outside the box-plot fences and refits on what is left.
type Denoiser struct {
	Smoothing     float64 // spline smoothing weight
	Multiplier    float64 // fence length in IQR units (default: 1.5)
	Mode          Mode    // Drop (default) or Downweight
	OutlierWeight float64 // weight of outliers in Downweight mode (default: 0.01)
	Iterations    int     // reject/refit passes (default: 1)
}

// New creates a denoiser with default settings and the given smoothing weight.
func New(smoothing float64) *Denoiser {
	return &Denoiser{
		Smoothing:     smoothing,
		Multiplier:    stats.DefaultMultiplier,
		Mode:          Drop,
		OutlierWeight: DefaultOutlierWeight,
		Iterations:    1,
	}
}

// Result holds both fits and the rejection details.
type Result struct {
	Denoised  *spline.Spline // fit without (or with down-weighted) outliers
	Raw       *spline.Spline // fit on every point
	Residuals []float64      // |Raw.Y(x_i) - y_i|
	Bounds    stats.BoxStats // residual box of the first pass
	Outliers  []int          // indices into the input points, ascending
}

// Denoise fits points with the given smoothing weight and refits on the
// points whose residual lies strictly inside the box-plot fences.
//
// If every point is an inlier, denoised and raw are the same spline. If fewer
// than two inliers remain, denoised is degenerate and evaluates to NaN. The
// only error is invalid input for the raw fit.
func Denoise(points []spline.Point, smoothing float64) (denoised, raw *spline.Spline, err error) {
	res, err := New(smoothing).Run(points)
	if err != nil {
		return nil, nil, err
	}
	return res.Denoised, res.Raw, nil
}

// FromValues converts equally spaced values to points with X = index.
func FromValues(values []float64) []spline.Point {
	points := make([]spline.Point, len(values))
	for i, v := range values {
		points[i] = spline.Point{X: float64(i), Y: v}
	}
	return points
}

// Run performs the fit, rejection and refit passes.
func (d *Denoiser) Run(points []spline.Point) (*Result, error) {
	raw, err := spline.Fit(points, d.Smoothing)
	if err != nil {
		return nil, err
	}

	res := &Result{Raw: raw}
	res.Residuals = residuals(raw, points)
	res.Bounds = stats.BoxWithMultiplier(res.Residuals, d.multiplier())

	outlier := make([]bool, len(points))
	nOut := 0
	for i, r := range res.Residuals {
		if !res.Bounds.Contains(r) {
			outlier[i] = true
			nOut++
		}
	}
	if nOut == 0 {
		res.Denoised = raw
		return res, nil
	}

	res.Denoised, err = d.refit(points, outlier)
	if err != nil {
		return nil, err
	}

	for pass := 1; pass < d.iterations() && !res.Denoised.Degenerate(); pass++ {
		added := d.reject(res.Denoised, points, outlier)
		if added == 0 {
			break
		}
		nOut += added
		res.Denoised, err = d.refit(points, outlier)
		if err != nil {
			return nil, err
		}
	}

	res.Outliers = make([]int, 0, nOut)
	for i, out := range outlier {
		if out {
			res.Outliers = append(res.Outliers, i)
		}
	}
	return res, nil
}

// reject marks the points still considered inliers whose residual against
// fit falls outside the fences and returns how many were added.
func (d *Denoiser) reject(fit *spline.Spline, points []spline.Point, outlier []bool) int {
	var idx []int
	var r []float64
	for i, p := range points {
		if outlier[i] {
			continue
		}
		idx = append(idx, i)
		r = append(r, residual(fit, p))
	}

	box := stats.BoxWithMultiplier(r, d.multiplier())
	added := 0
	for j, i := range idx {
		if !box.Contains(r[j]) {
			outlier[i] = true
			added++
		}
	}
	return added
}

// refit builds the denoised spline for the current outlier mask. With fewer
// than two inliers in Drop mode the spline is returned degenerate.
func (d *Denoiser) refit(points []spline.Point, outlier []bool) (*spline.Spline, error) {
	if d.Mode == Downweight {
		weights := make([]float64, len(points))
		for i := range points {
			weights[i] = 1
			if outlier[i] {
				weights[i] = d.outlierWeight()
			}
		}
		s := spline.NewWeighted(points, weights)
		if err := s.Update(d.Smoothing); err != nil {
			return nil, err
		}
		return s, nil
	}

	kept := make([]spline.Point, 0, len(points))
	for i, p := range points {
		if !outlier[i] {
			kept = append(kept, p)
		}
	}
	s := spline.New(kept)
	if len(kept) < 2 {
		return s, nil
	}
	if err := s.Update(d.Smoothing); err != nil {
		return nil, err
	}
	return s, nil
}

func (d *Denoiser) multiplier() float64 {
	if d.Multiplier <= 0 {
		return stats.DefaultMultiplier
	}
	return d.Multiplier
}

func (d *Denoiser) outlierWeight() float64 {
	if d.OutlierWeight <= 0 {
		return DefaultOutlierWeight
	}
	return d.OutlierWeight
}

func (d *Denoiser) iterations() int {
	if d.Iterations < 1 {
		return 1
	}
	return d.Iterations
}

func residuals(s *spline.Spline, points []spline.Point) []float64 {
	r := make([]float64, len(points))
	for i, p := range points {
		r[i] = residual(s, p)
	}
	return r
}

// residual is |s.Y(x) - y|, or 0 where the spline is undefined.
func residual(s *spline.Spline, p spline.Point) float64 {
	y := s.Y(p.X)
	if math.IsNaN(y) {
		return 0
	}
	return math.Abs(y - p.Y)
}
