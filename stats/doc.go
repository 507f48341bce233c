// Package stats provides the robust statistics used by the shot detection
// pipeline.
//
// # Box-plot Statistics
//
// Box computes the median, quartiles and the classic Tukey fences
// Q1 − 1.5·IQR and Q3 + 1.5·IQR:
//
//	box := stats.Box(residuals)
//	if !box.Contains(r) {
//	    // r is an outlier (values on a fence are outliers too)
//	}
//
// A different whisker length is available through BoxWithMultiplier:
//
//	box := stats.BoxWithMultiplier(values, 3.0)
//
// Width reports the distance between the fences; a narrow derivative box
// means the window holds no significant slope change:
//
//	if stats.Box(derivative).Width() < 0.1 {
//	    // flat window
//	}
//
// NaN values are ignored. If nothing finite is left, every field is NaN and
// Valid returns false.
//
// # Residual Diagnostics
//
// Diagnose checks whether a fit leaves structure in its residuals:
//
//	diag := stats.Diagnose(residuals, 10)
//	fmt.Printf("rms=%.4f lag1=%.3f dw=%.3f\n", diag.RMS, diag.Lag1, diag.DurbinWatson)
//	if diag.LjungBox.Autocorrelated(0.05) {
//	    // the smoothing weight is too large for this signal
//	}
//
// Autocorrelation, LjungBox and DurbinWatson are also exported for direct use.
package stats
