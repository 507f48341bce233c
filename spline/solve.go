package spline

// pentaSolve solves the symmetric positive definite pentadiagonal system
// A·x = rhs in place using an LDLᵀ factorisation.
//
// diag holds A[i][i], off1 holds A[i][i+1] and off2 holds A[i][i+2]. On
// return diag holds D, off1 and off2 hold the sub-diagonals of L, and rhs
// holds the solution.
func pentaSolve(diag, off1, off2, rhs []float64) {
	n := len(diag)

	// Factorisation
	for i := 0; i < n; i++ {
		d := diag[i]
		if i >= 1 {
			d -= off1[i-1] * off1[i-1] * diag[i-1]
		}
		if i >= 2 {
			d -= off2[i-2] * off2[i-2] * diag[i-2]
		}
		diag[i] = d

		if i+1 < n {
			e := off1[i]
			if i >= 1 {
				e -= off1[i-1] * off2[i-1] * diag[i-1]
			}
			off1[i] = e / d
		}
		if i+2 < n {
			off2[i] = off2[i] / d
		}
	}

	// Forward substitution: L·z = rhs
	for i := 0; i < n; i++ {
		if i >= 1 {
			rhs[i] -= off1[i-1] * rhs[i-1]
		}
		if i >= 2 {
			rhs[i] -= off2[i-2] * rhs[i-2]
		}
	}

	// Diagonal: D·w = z
	for i := 0; i < n; i++ {
		rhs[i] /= diag[i]
	}

	// Back substitution: Lᵀ·x = w
	for i := n - 1; i >= 0; i-- {
		if i+1 < n {
			rhs[i] -= off1[i] * rhs[i+1]
		}
		if i+2 < n {
			rhs[i] -= off2[i] * rhs[i+2]
		}
	}
}
