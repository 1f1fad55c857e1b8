// Package mix provides audio mixing operations.
package mix

// DryWetBufferTo performs dry/wet mixing into a destination buffer.
// amount parameter: 0.0 = 100% dry, 1.0 = 100% wet
func DryWetBufferTo(dry, wet []float32, amount float32, dst []float32) {
	dryGain := 1.0 - amount
	wetGain := amount

	length := len(dry)
	if len(wet) < length {
		length = len(wet)
	}
	if len(dst) < length {
		length = len(dst)
	}

	for i := 0; i < length; i++ {
		dst[i] = dry[i]*dryGain + wet[i]*wetGain
	}
}

// FeedbackTo writes input + feedback*delayed into dst, the signal fed back
// into a delay line.
func FeedbackTo(input, delayed []float32, feedback float32, dst []float32) {
	length := len(input)
	if len(delayed) < length {
		length = len(delayed)
	}
	if len(dst) < length {
		length = len(dst)
	}

	for i := 0; i < length; i++ {
		dst[i] = input[i] + delayed[i]*feedback
	}
}
