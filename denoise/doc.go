// Package denoise smooths noisy samples with a spline that resists outliers.
//
// A first spline is fitted through every point. Points whose absolute
// residual falls outside the box-plot fences of all residuals are rejected and
// a second spline is fitted through the rest with the same smoothing weight:
//
//	denoised, raw, err := denoise.Denoise(points, 1.0)
//
// The Denoiser type exposes the knobs and the rejection details:
//
//	d := denoise.New(1.0)
//	d.Mode = denoise.Downweight // keep outliers with a tiny weight
//	d.Iterations = 3            // repeat rejection on the survivors
//	res, err := d.Run(denoise.FromValues(samples))
//	fmt.Println(res.Outliers, res.Bounds.UpperBound)
//
// When fewer than two points survive, the denoised spline is degenerate and
// evaluates to NaN; callers treat that as "nothing to see here".
package denoise
