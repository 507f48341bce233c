// Package goshot detects short transient pulses ("shots") in noisy sensor
// readings.
//
// A shot is a brief fall-then-rise excursion riding on a slower drift. The
// detector fits a robust cubic smoothing spline to a sliding window of
// samples, differentiates it and runs a small state machine over the
// derivative to find the pulses.
//
// # Features
//
//   - Cubic smoothing splines on irregularly spaced points (Reinsch algorithm)
//   - Box-plot outlier rejection with drop or down-weight refits
//   - Fall/rise state machine with configurable jitter tolerance
//   - Bounded-memory streaming iterator with window stitching
//   - CSV and JSON-lines channel log loaders
//   - Residual diagnostics (Ljung-Box, Durbin-Watson)
//
// # Quick Start
//
// Detect shots in a loaded series:
//
//	series, _ := timeseries.LoadChannelLogFile("measure.log", nil)
//	it, _ := fragment.New(fragment.DefaultConfig())
//	for f := range it.Fragments(series[0].Samples()) {
//	    fmt.Println(f.Start, f.Len())
//	}
//
// Smooth a window by hand:
//
//	points := denoise.FromValues(values)
//	denoised, raw, _ := denoise.Denoise(points, 1.0)
//	slope := denoised.DY(10)
//
// # Packages
//
// The library is organized into the following packages:
//
//   - spline: Cubic smoothing splines
//   - stats: Box-plot statistics and residual diagnostics
//   - denoise: Outlier-resistant spline fitting
//   - detector: Pulse state machine over derivative sequences
//   - fragment: Streaming shot extraction
//   - timeseries: Series container and loaders
//
// The shotfind command under cmd/shotfind wraps the pipeline for log files.
//
// # References
//
//   - Reinsch, C. H. (1967). Smoothing by spline functions. Numerische Mathematik 10, 177-183
//   - Green, P. J., & Silverman, B. W. (1994). Nonparametric Regression and Generalized Linear Models
//   - Tukey, J. W. (1977). Exploratory Data Analysis
package goshot
