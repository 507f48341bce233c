package spline

import "math"

// Point is a single (X, Y) observation.
type Point struct {
	X float64
	Y float64
}

// Fragment is one cubic piece of a spline, valid on [Xmin, Xmax].
// Y(x) = A·dx³ + B·dx² + C·dx + D where dx = x - Xmin.
type Fragment struct {
	Xmin float64
	Xmax float64
	A    float64
	B    float64
	C    float64
	D    float64
}

// Y evaluates the cubic at x.
func (f Fragment) Y(x float64) float64 {
	dx := x - f.Xmin
	return ((f.A*dx+f.B)*dx+f.C)*dx + f.D
}

// DY evaluates the first derivative at x.
func (f Fragment) DY(x float64) float64 {
	dx := x - f.Xmin
	return (3*f.A*dx+2*f.B)*dx + f.C
}

// D2Y evaluates the second derivative at x.
func (f Fragment) D2Y(x float64) float64 {
	dx := x - f.Xmin
	return 6*f.A*dx + 2*f.B
}

// Contains reports whether x lies in [Xmin, Xmax].
func (f Fragment) Contains(x float64) bool {
	return x >= f.Xmin && x <= f.Xmax
}

// isFinite reports whether v is neither NaN nor infinite.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
