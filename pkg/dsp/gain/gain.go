// Package gain provides amplitude and gain-related DSP operations.
package gain

import (
	"math"

	"github.com/tphakala/simd/f32"
)

// MinDB is the minimum dB value (effectively -infinity)
const MinDB = -200.0

// LinearToDb converts a linear amplitude value to decibels.
// Returns MinDB for values <= 0.
func LinearToDb(linear float64) float64 {
	if linear <= 0 {
		return MinDB
	}
	return 20.0 * math.Log10(linear)
}

// DbToLinear converts a decibel value to linear amplitude.
// Values <= MinDB return 0.
func DbToLinear(db float64) float64 {
	if db <= MinDB {
		return 0
	}
	return math.Pow(10.0, db/20.0)
}

// ScaleTo writes src*gain into dst. Both slices must have the same length.
func ScaleTo(dst, src []float32, gain float32) {
	f32.Scale(dst, src, gain)
}

// HardClip applies hard clipping to limit signal amplitude.
func HardClip(input, threshold float32) float32 {
	if input > threshold {
		return threshold
	}
	if input < -threshold {
		return -threshold
	}
	return input
}

// HardClipBuffer applies hard clipping to an entire buffer.
func HardClipBuffer(buffer []float32, threshold float32) {
	for i := range buffer {
		buffer[i] = HardClip(buffer[i], threshold)
	}
}

// DecayTime returns the time in seconds for a feedback loop with the given
// period and linear feedback gain to decay by floorDb. A feedback of zero
// decays after one period.
func DecayTime(periodSeconds, feedback, floorDb float64) float64 {
	if feedback <= 0 || periodSeconds <= 0 {
		return periodSeconds
	}
	if feedback >= 1 {
		return math.Inf(1)
	}
	repeats := floorDb / LinearToDb(feedback)
	return periodSeconds * (1 + repeats)
}
