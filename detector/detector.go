// Package detector classifies fall-then-rise pulses in a derivative sequence.
package detector

import (
	"fmt"
	"iter"
	"math"
)

const (
	// MinSequenceLen is the shortest derivative sequence worth scanning.
	MinSequenceLen = 5
	// DefaultMinCount is the minimum pulse width, in samples, for a shot.
	DefaultMinCount = 5
)

// State is the phase of the pulse state machine.
type State int

const (
	// Wait looks for the derivative to go negative.
	Wait State = iota
	// Falling follows the derivative down to its trough.
	Falling
	// Rising follows the derivative up until the rise stalls.
	Rising
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Wait:
		return "WAIT"
	case Falling:
		return "FALLING"
	case Rising:
		return "RISING"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Shot is a confirmed pulse. Start is the index where the fall began and End
// the index where the rise stalled.
type Shot struct {
	Start int
	End   int
}

// Width returns the number of samples from Start to End.
func (s Shot) Width() int {
	return s.End - s.Start
}

// Detector scans derivative sequences for shots. The zero value uses strict
// comparisons; MinCount 0 means DefaultMinCount.
type Detector struct {
	// Tolerance is the derivative jitter ignored by every comparison.
	// Zero reproduces the strict state machine.
	Tolerance float64
	// MinCount is the minimum number of samples from the start of the fall
	// to the stall of the rise.
	MinCount int
}

// Detect returns the start indices of the shots in d using strict
// comparisons and the default pulse width.
func Detect(d []float64) iter.Seq[int] {
	return Detector{}.Starts(d)
}

// Shots returns the shots found in d, in order. Every iteration starts a
// fresh state machine. Sequences shorter than MinSequenceLen yield nothing.
func (det Detector) Shots(d []float64) iter.Seq[Shot] {
	return func(yield func(Shot) bool) {
		if len(d) < MinSequenceLen {
			return
		}
		m := det.Machine()
		for _, v := range d {
			if shot, ok := m.Feed(v); ok {
				if !yield(shot) {
					return
				}
			}
		}
	}
}

// Starts returns the start index of each shot found in d.
func (det Detector) Starts(d []float64) iter.Seq[int] {
	return func(yield func(int) bool) {
		for shot := range det.Shots(d) {
			if !yield(shot.Start) {
				return
			}
		}
	}
}

// First returns the first shot in d.
func (det Detector) First(d []float64) (Shot, bool) {
	for shot := range det.Shots(d) {
		return shot, true
	}
	return Shot{}, false
}

// Trailing returns the start of a pulse still in progress after the last
// value of d, if any.
func (det Detector) Trailing(d []float64) (int, bool) {
	if len(d) < MinSequenceLen {
		return 0, false
	}
	m := det.Machine()
	for _, v := range d {
		m.Feed(v)
	}
	if m.State() == Wait {
		return 0, false
	}
	return m.Start(), true
}

// Machine returns an incremental state machine with the detector settings.
func (det Detector) Machine() *Machine {
	minCount := det.MinCount
	if minCount <= 0 {
		minCount = DefaultMinCount
	}
	return &Machine{tolerance: math.Abs(det.Tolerance), minCount: minCount}
}

// Machine is the pulse state machine fed one derivative value at a time.
// Indices are counted from the first Feed call.
type Machine struct {
	tolerance float64
	minCount  int

	state   State
	index   int     // index of the next value
	start   int     // index where the current fall began
	count   int     // samples since start
	extreme float64 // trough while Falling, peak while Rising
}

// State returns the current phase.
func (m *Machine) State() State {
	return m.state
}

// Start returns the index where the current pulse began.
// Only meaningful outside Wait.
func (m *Machine) Start() int {
	return m.start
}

// Reset returns the machine to Wait and restarts index counting.
func (m *Machine) Reset() {
	m.state = Wait
	m.index = 0
	m.start = 0
	m.count = 0
	m.extreme = 0
}

// Feed advances the machine by one derivative value and reports a shot when
// a qualifying rise stalls. NaN values are gaps: they consume an index but do
// not change the state.
func (m *Machine) Feed(v float64) (Shot, bool) {
	i := m.index
	m.index++

	if math.IsNaN(v) {
		return Shot{}, false
	}

	switch m.state {
	case Wait:
		if v < -m.tolerance {
			m.state = Falling
			m.start = i
			m.count = 1
			m.extreme = v
		}

	case Falling:
		switch {
		case v > m.tolerance:
			// False start: the fall never reached a clear trough.
			m.state = Wait
		case v < m.extreme:
			m.extreme = v
			m.count++
		case v < m.extreme+m.tolerance:
			m.count++
		default:
			m.count++
			m.state = Rising
			m.extreme = v
		}

	case Rising:
		switch {
		case v > m.extreme:
			m.extreme = v
			m.count++
		case v > m.extreme-m.tolerance:
			m.count++
		default:
			m.state = Wait
			if v > 0 && m.count >= m.minCount {
				return Shot{Start: m.start, End: i}, true
			}
		}
	}

	return Shot{}, false
}
