package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ResidualDiagnostics summarises the residuals of a fit.
// Structure left in the residuals (strong autocorrelation) means the curve
// is smoothing away part of the signal.
type ResidualDiagnostics struct {
	N            int
	RMS          float64
	MaxAbs       float64
	Lag1         float64 // lag-1 autocorrelation
	DurbinWatson float64 // ≈2 none, <2 positive, >2 negative autocorrelation
	LjungBox     *LjungBoxResult
}

// LjungBoxResult represents the result of a Ljung-Box test.
type LjungBoxResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	DOF       int // Degrees of freedom
}

// Autocorrelated reports whether the test rejects white noise at level alpha.
func (r *LjungBoxResult) Autocorrelated(alpha float64) bool {
	return r != nil && r.PValue < alpha
}

// Diagnose computes residual diagnostics. NaN residuals are ignored.
// lags bounds the Ljung-Box test; it is skipped for fewer than 10 residuals.
func Diagnose(residuals []float64, lags int) ResidualDiagnostics {
	r := finite(residuals)
	d := ResidualDiagnostics{N: len(r)}
	if len(r) == 0 {
		d.RMS = math.NaN()
		d.MaxAbs = math.NaN()
		d.Lag1 = math.NaN()
		d.DurbinWatson = math.NaN()
		return d
	}

	d.RMS = math.Sqrt(floats.Dot(r, r) / float64(len(r)))
	d.MaxAbs = math.Max(math.Abs(floats.Min(r)), math.Abs(floats.Max(r)))
	d.DurbinWatson = DurbinWatson(r)

	acf := Autocorrelation(r, 1)
	if len(acf) > 1 {
		d.Lag1 = acf[1]
	} else {
		d.Lag1 = math.NaN()
	}

	d.LjungBox = LjungBox(r, lags, 0)
	return d
}

// Autocorrelation returns the sample autocorrelation for lags 0 to maxLag.
// Returns nil for a constant or empty sample.
func Autocorrelation(values []float64, maxLag int) []float64 {
	n := len(values)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := stat.Mean(values, nil)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	if variance == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (values[i] - mean) * (values[i-k] - mean)
		}
		acf[k] = sum / variance
	}
	return acf
}

// LjungBox performs the Ljung-Box test for autocorrelation up to lag h.
// fitdf is the number of parameters estimated by the model.
// Returns nil when there are fewer than 10 values or the sample is constant.
func LjungBox(values []float64, lags, fitdf int) *LjungBoxResult {
	n := len(values)
	if n < 10 || lags < 1 {
		return nil
	}
	if lags >= n {
		lags = n - 1
	}

	acf := Autocorrelation(values, lags)
	if acf == nil {
		return nil
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += (acf[k] * acf[k]) / float64(n-k)
	}
	q *= float64(n * (n + 2))

	dof := lags - fitdf
	if dof < 1 {
		dof = 1
	}

	chi := distuv.ChiSquared{K: float64(dof)}
	return &LjungBoxResult{
		Statistic: q,
		PValue:    chi.Survival(q),
		Lags:      lags,
		DOF:       dof,
	}
}

// DurbinWatson calculates the Durbin-Watson statistic for first-order
// autocorrelation. Returns NaN for fewer than 2 values or all-zero residuals.
func DurbinWatson(residuals []float64) float64 {
	n := len(residuals)
	if n < 2 {
		return math.NaN()
	}

	numerator := 0.0
	for i := 1; i < n; i++ {
		diff := residuals[i] - residuals[i-1]
		numerator += diff * diff
	}
	denominator := floats.Dot(residuals, residuals)
	if denominator == 0 {
		return math.NaN()
	}
	return numerator / denominator
}

func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
