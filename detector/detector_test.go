package detector

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dip is flat, falls for seven samples, then rises through zero.
var dip = []float64{0, 0, 0, 0, -1, -2, -3, -4, -5, -6, -7, -5, -3, -1, 1, 3, 3, 3}

func TestDetectShape(t *testing.T) {
	starts := slices.Collect(Detect(dip))
	assert.Equal(t, []int{4}, starts)

	shot, ok := Detector{}.First(dip)
	require.True(t, ok)
	assert.Equal(t, Shot{Start: 4, End: 16}, shot)
	assert.Equal(t, 12, shot.Width())
}

func TestDetectRestartable(t *testing.T) {
	seq := Detect(dip)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second, "every iteration starts from WAIT")
}

func TestDetectShortSequence(t *testing.T) {
	assert.Empty(t, slices.Collect(Detect([]float64{-1, -2, 1, 2})))
	assert.Empty(t, slices.Collect(Detect(nil)))

	_, ok := Detector{}.Trailing([]float64{-1, -2})
	assert.False(t, ok)
}

func TestDetectNarrowPulse(t *testing.T) {
	// Two samples falling and two rising: one short of a shot.
	d := []float64{0, 0, -1, -2, -1, 0.5, 0.2, 0}
	assert.Empty(t, slices.Collect(Detect(d)))

	wide := Detector{MinCount: 3}
	assert.Equal(t, []int{2}, slices.Collect(wide.Starts(d)))
}

func TestDetectStallBelowZero(t *testing.T) {
	// The rise stalls before the derivative turns positive.
	d := []float64{0, -1, -2, -3, -2, -1, -0.5, -0.8, -0.9, 0, 0}
	assert.Empty(t, slices.Collect(Detect(d)))
}

func TestDetectFalseStart(t *testing.T) {
	// Jumping from a fall straight to a positive value abandons the pulse.
	d := []float64{0, -1, -2, 0.5, 0, 0, -1, -2, -3, -1, 1, 2, 3, 1, 0}
	shots := slices.Collect(Detector{}.Shots(d))
	require.Len(t, shots, 1)
	assert.Equal(t, 6, shots[0].Start)
}

func TestDetectMultiple(t *testing.T) {
	d := slices.Concat(dip, dip)
	assert.Equal(t, []int{4, len(dip) + 4}, slices.Collect(Detect(d)))

	// Stopping early yields only the first.
	var got []int
	for s := range Detect(d) {
		got = append(got, s)
		break
	}
	assert.Equal(t, []int{4}, got)
}

func TestDetectTolerance(t *testing.T) {
	// Ringing at the trough: the rise pauses for one sample at nearly the
	// same level before continuing.
	d := []float64{0, 0, -1, -2, -3, -2, -2.05, -1, 0.5, 2, 2, 1.5, 0.5}

	assert.Empty(t, slices.Collect(Detect(d)), "strict comparisons stop at the pause")

	tolerant := Detector{Tolerance: 0.1}
	shot, ok := tolerant.First(d)
	require.True(t, ok)
	assert.Equal(t, 2, shot.Start)
}

func TestDetectToleranceZeroIsStrict(t *testing.T) {
	assert.Equal(t,
		slices.Collect(Detect(dip)),
		slices.Collect(Detector{Tolerance: 0, MinCount: DefaultMinCount}.Starts(dip)))
}

func TestDetectNaNGaps(t *testing.T) {
	d := slices.Clone(dip)
	d[0] = math.NaN()
	d[8] = math.NaN()
	d = append(d, math.NaN())

	shot, ok := Detector{}.First(d)
	require.True(t, ok)
	assert.Equal(t, Shot{Start: 4, End: 16}, shot, "NaN values keep their index")
}

func TestTrailing(t *testing.T) {
	open := []float64{0, 0, 0, -1, -2, -3, -2}
	start, ok := Detector{}.Trailing(open)
	require.True(t, ok)
	assert.Equal(t, 3, start)

	_, ok = Detector{}.Trailing(dip)
	assert.False(t, ok, "a finished pulse is not trailing")

	_, ok = Detector{}.Trailing([]float64{0, 0, 0, 0, 0, 0})
	assert.False(t, ok)
}

func TestMachine(t *testing.T) {
	m := Detector{}.Machine()
	assert.Equal(t, Wait, m.State())

	var shots []Shot
	var states []State
	for _, v := range dip {
		if s, ok := m.Feed(v); ok {
			shots = append(shots, s)
		}
		states = append(states, m.State())
	}

	assert.Equal(t, []Shot{{Start: 4, End: 16}}, shots)
	assert.Equal(t, Falling, states[4])
	assert.Equal(t, Rising, states[11])
	assert.Equal(t, Wait, states[16])

	m.Feed(-1)
	assert.Equal(t, Falling, m.State())
	assert.Equal(t, len(dip), m.Start())

	m.Reset()
	assert.Equal(t, Wait, m.State())
	m.Feed(-1)
	assert.Equal(t, 0, m.Start(), "Reset restarts index counting")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "WAIT", Wait.String())
	assert.Equal(t, "FALLING", Falling.String())
	assert.Equal(t, "RISING", Rising.String())
	assert.Equal(t, "State(7)", State(7).String())
}
