package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultMultiplier is the standard box-plot whisker length in IQR units.
const DefaultMultiplier = 1.5

// BoxStats holds box-plot statistics of a one-dimensional sample.
type BoxStats struct {
	Median     float64
	Q1         float64 // 25th percentile
	Q3         float64 // 75th percentile
	IQR        float64 // Q3 - Q1
	LowerBound float64 // Q1 - Multiplier*IQR
	UpperBound float64 // Q3 + Multiplier*IQR
	Multiplier float64
}

// Box computes box-plot statistics with the standard 1.5·IQR whiskers.
// NaN values are ignored. If no finite value remains every field is NaN.
func Box(values []float64) BoxStats {
	return BoxWithMultiplier(values, DefaultMultiplier)
}

// BoxWithMultiplier computes box-plot statistics with whiskers of k·IQR.
func BoxWithMultiplier(values []float64, k float64) BoxStats {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		nan := math.NaN()
		return BoxStats{
			Median:     nan,
			Q1:         nan,
			Q3:         nan,
			IQR:        nan,
			LowerBound: nan,
			UpperBound: nan,
			Multiplier: k,
		}
	}
	sort.Float64s(sorted)

	q1 := stat.Quantile(0.25, stat.Empirical, sorted, nil)
	q3 := stat.Quantile(0.75, stat.Empirical, sorted, nil)
	iqr := q3 - q1

	return BoxStats{
		Median:     stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q1:         q1,
		Q3:         q3,
		IQR:        iqr,
		LowerBound: q1 - k*iqr,
		UpperBound: q3 + k*iqr,
		Multiplier: k,
	}
}

// Width returns the distance between the lower and upper bounds.
func (b BoxStats) Width() float64 {
	return math.Abs(b.UpperBound - b.LowerBound)
}

// Valid reports whether the statistics were computed from at least one value.
func (b BoxStats) Valid() bool {
	return !math.IsNaN(b.Q1) && !math.IsNaN(b.Q3)
}

// Contains reports whether v lies strictly between the bounds.
// Values exactly on a bound are outliers.
func (b BoxStats) Contains(v float64) bool {
	return v > b.LowerBound && v < b.UpperBound
}

// Bound returns the whisker at m IQRs past the nearer quartile:
// Q1 + m·IQR for negative m, Q3 + m·IQR otherwise.
func (b BoxStats) Bound(m float64) float64 {
	if m < 0 {
		return b.Q1 + m*b.IQR
	}
	return b.Q3 + m*b.IQR
}
