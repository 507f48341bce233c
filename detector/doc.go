// Package detector finds shots (short fall-then-rise pulses) by running a
// three-state machine over the derivative of a smoothed signal.
//
// # States
//
//	WAIT     derivative goes negative        -> FALLING (pulse starts here)
//	FALLING  keeps decreasing                -> FALLING
//	         turns positive                  -> WAIT (false start)
//	         stops decreasing                -> RISING (trough found)
//	RISING   keeps increasing                -> RISING
//	         stalls                          -> WAIT, emitting the start when the
//	                                            stall value is positive and the
//	                                            pulse spans at least MinCount samples
//
// # Usage
//
//	for start := range detector.Detect(derivative) {
//	    fmt.Println("shot at", start)
//	}
//
// A Detector with a Tolerance ignores derivative jitter smaller than the
// tolerance, which smoothing splines produce around sharp corners:
//
//	det := detector.Detector{Tolerance: 0.1}
//	if shot, ok := det.First(derivative); ok {
//	    fmt.Println(shot.Start, shot.End)
//	}
//
// Machine is the incremental form for callers that receive one derivative
// value at a time.
package detector
