package stats

import (
	"math"
	"testing"
)

func TestBox(t *testing.T) {
	b := Box([]float64{9, 1, 8, 2, 7, 3, 6, 4, 5})

	if b.Median != 5 {
		t.Errorf("Expected median 5, got %f", b.Median)
	}
	if b.Q1 != 3 || b.Q3 != 7 {
		t.Errorf("Expected quartiles 3 and 7, got %f and %f", b.Q1, b.Q3)
	}
	if b.IQR != 4 {
		t.Errorf("Expected IQR 4, got %f", b.IQR)
	}
	if b.LowerBound != -3 || b.UpperBound != 13 {
		t.Errorf("Expected fences -3 and 13, got %f and %f", b.LowerBound, b.UpperBound)
	}
	if b.Width() != 16 {
		t.Errorf("Expected width 16, got %f", b.Width())
	}
	if !b.Valid() {
		t.Error("Expected valid statistics")
	}
}

func TestBoxWithMultiplier(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	b := BoxWithMultiplier(values, 3)

	if b.LowerBound != -9 || b.UpperBound != 19 {
		t.Errorf("Expected fences -9 and 19, got %f and %f", b.LowerBound, b.UpperBound)
	}
	if b.Multiplier != 3 {
		t.Errorf("Expected multiplier 3, got %f", b.Multiplier)
	}
	if b.Bound(-1) != -1 || b.Bound(2) != 15 {
		t.Errorf("Unexpected whiskers %f, %f", b.Bound(-1), b.Bound(2))
	}
}

func TestBoxContains(t *testing.T) {
	b := Box([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9})

	tests := []struct {
		v    float64
		want bool
	}{
		{5, true},
		{-2.999, true},
		{12.999, true},
		{-3, false}, // on the fence
		{13, false},
		{100, false},
		{math.NaN(), false},
	}
	for _, tt := range tests {
		if got := b.Contains(tt.v); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestBoxIgnoresNaN(t *testing.T) {
	b := Box([]float64{math.NaN(), 1, 2, 3, math.NaN(), 4})
	want := Box([]float64{1, 2, 3, 4})

	if b != want {
		t.Errorf("Expected %+v, got %+v", want, b)
	}
}

func TestBoxEmpty(t *testing.T) {
	for _, values := range [][]float64{nil, {math.NaN(), math.NaN()}} {
		b := Box(values)
		if b.Valid() {
			t.Errorf("Expected invalid statistics for %v", values)
		}
		if !math.IsNaN(b.Median) || !math.IsNaN(b.Width()) {
			t.Errorf("Expected NaN fields, got %+v", b)
		}
		if b.Contains(0) {
			t.Error("Empty box must not contain anything")
		}
	}
}

func TestBoxConstant(t *testing.T) {
	b := Box([]float64{2, 2, 2, 2})

	if b.IQR != 0 || b.Width() != 0 {
		t.Errorf("Expected zero spread, got IQR %f width %f", b.IQR, b.Width())
	}
	// Strict bounds: with zero spread nothing is inside.
	if b.Contains(2) {
		t.Error("Expected the constant value to sit on the fences")
	}
}

func TestBoxDoesNotModifyInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Box(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("Input was modified: %v", values)
	}
}
