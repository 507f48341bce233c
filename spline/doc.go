// Package spline provides cubic smoothing splines on irregularly spaced points.
//
// A Spline trades interpolation accuracy for curvature smoothness through a
// single non-negative smoothing weight p. With p = 0 the curve is the natural
// interpolating cubic spline through every point; as p grows the curve
// approaches the least-squares straight line.
//
// # Fitting
//
// Build a spline from points with strictly increasing X and recompute it:
//
//	points := []spline.Point{{X: 0, Y: 1}, {X: 1.5, Y: 2}, {X: 2, Y: 1.7}, {X: 4, Y: 0.3}}
//	s := spline.New(points)
//	if err := s.Update(0.5); err != nil {
//	    // invalid input: too few points, non-increasing X, NaN/Inf values
//	}
//
// Or in one call:
//
//	s, err := spline.Fit(points, 0.5)
//
// Per-point weights make some observations count less in the fit:
//
//	s := spline.NewWeighted(points, []float64{1, 1, 0.1, 1})
//
// # Evaluation
//
// Values and derivatives are evaluated on the piecewise cubic fragments:
//
//	y := s.Y(1.2)    // value
//	dy := s.DY(1.2)  // first derivative
//	d2 := s.D2Y(1.2) // second derivative
//
// Queries outside [first knot, last knot] return NaN. A spline with fewer
// than two points is degenerate and evaluates to NaN everywhere.
//
// # Algorithm
//
// Update solves the Reinsch normal equations with natural end conditions:
//
//	(R + p·Qᵀ·W⁻¹·Q)·γ = Qᵀ·y,   g = y − p·W⁻¹·Q·γ
//
// where γ are the second derivatives at the interior knots and g the smoothed
// knot values. The system is symmetric positive definite and pentadiagonal, so
// it is factorised as LDLᵀ in O(N) without assuming uniform spacing.
//
// # References
//
//   - Reinsch, C. H. (1967). Smoothing by spline functions. Numerische Mathematik 10.
//   - Green, P. J., & Silverman, B. W. (1994). Nonparametric Regression and Generalized Linear Models.
package spline
