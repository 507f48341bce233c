/*
Package fragment extracts shot fragments from a stream of samples.

A shot is a pulse that falls and then recovers. The iterator keeps a sliding
window over the stream and, after each new sample once the window holds
MinPoints samples, it:

 1. Fits a denoised smoothing spline to the window (x = sample index).
 2. Differentiates the fit at every sample.
 3. Skips the window as flat when the derivative box-plot fences are closer
    than FlatnessThreshold.
 4. Runs the pulse detector on the derivative.

The first detected pulse becomes the pending shot. Its samples grow with the
window until the next pulse starts or the detector loses it, at which point
the fragment is emitted.

# Usage

	it, err := fragment.New(fragment.DefaultConfig())
	if err != nil {
	    log.Fatal(err)
	}
	for f := range it.Fragments(series.Samples()) {
	    fmt.Printf("shot at %d (%d samples)\n", f.Start, f.Len())
	}
	if err := it.Err(); err != nil {
	    log.Fatal(err)
	}

Samples may also be pushed one at a time:

	for _, v := range values {
	    if f, ok := it.Push(v); ok {
	        handle(f)
	    }
	}
	if f, ok := it.Flush(); ok {
	    handle(f)
	}

# Window Management

The window never grows past MaxPoints: Spare samples are dropped from the
front when it overflows. Once a pulse is detected, everything before its
end, except Spare samples of look-back, is discarded. A window with no pulse
keeps the start of an unfinished fall if there is one and otherwise drops
its older half.

Fragments never overlap and their starts are strictly increasing.

# Configuration

Config can be loaded from YAML; missing keys keep their defaults:

	smoothing: 1.0
	min_points: 15
	max_points: 100
	spare: 2
	iqr_multiplier: 1.5
	flatness_threshold: 0.1
	tolerance: 0.1
	min_shot_width: 5
	denoise: drop
	denoise_passes: 1
*/
package fragment
