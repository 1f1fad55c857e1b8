// Package delay provides the circular delay buffer behind the tap delay effect.
package delay

import (
	"fmt"
	"math"

	"github.com/justyntemme/tapdelay/pkg/dsp/gain"
)

// maxArenaSamples bounds the total ring storage across all channels.
const maxArenaSamples = 1 << 31

// Engine is a fixed-capacity, per-channel ring buffer with one write cursor
// shared by every channel. All channel stores live in a single arena so the
// buffer is sized exactly once per Prepare.
type Engine struct {
	arena      []float32
	channels   [][]float32
	capacity   int
	maxBlock   int
	sampleRate float64
	writePos   int
}

// New creates an unprepared engine. Call Prepare before streaming.
func New() *Engine {
	return &Engine{}
}

// CapacityFor returns the ring size used for a given block size and sample
// rate: two seconds of headroom plus two blocks.
func CapacityFor(maxBlockLength int, sampleRate float64) int {
	return int(math.Round(2.0 * (float64(maxBlockLength) + sampleRate)))
}

// Prepare sizes and zeroes the ring. It allocates and must not be called from
// the audio thread. On error the engine keeps its previous state.
func (e *Engine) Prepare(maxBlockLength int, sampleRate float64, channelCount int) error {
	if maxBlockLength <= 0 {
		return fmt.Errorf("%w: max block length %d", ErrInvalidConfiguration, maxBlockLength)
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: sample rate %v", ErrInvalidConfiguration, sampleRate)
	}
	if channelCount <= 0 {
		return fmt.Errorf("%w: channel count %d", ErrInvalidConfiguration, channelCount)
	}

	size := 2 * (float64(maxBlockLength) + sampleRate)
	if size*float64(channelCount) > maxArenaSamples {
		return fmt.Errorf("%w: %d channels of %.0f samples exceed the ring limit", ErrInvalidConfiguration, channelCount, size)
	}

	capacity := CapacityFor(maxBlockLength, sampleRate)
	arena := make([]float32, capacity*channelCount)
	channels := make([][]float32, channelCount)
	for ch := range channels {
		channels[ch] = arena[ch*capacity : (ch+1)*capacity : (ch+1)*capacity]
	}

	e.arena = arena
	e.channels = channels
	e.capacity = capacity
	e.maxBlock = maxBlockLength
	e.sampleRate = sampleRate
	e.writePos = 0
	return nil
}

// Reset zeroes every channel and rewinds the cursor without reallocating.
func (e *Engine) Reset() {
	for i := range e.arena {
		e.arena[i] = 0
	}
	e.writePos = 0
}

// Prepared reports whether Prepare has succeeded at least once.
func (e *Engine) Prepared() bool {
	return e.capacity > 0
}

// Capacity returns the ring length in samples per channel.
func (e *Engine) Capacity() int {
	return e.capacity
}

// Channels returns the prepared channel count.
func (e *Engine) Channels() int {
	return len(e.channels)
}

// MaxBlockLength returns the block size negotiated at Prepare time.
func (e *Engine) MaxBlockLength() int {
	return e.maxBlock
}

// SampleRate returns the sample rate negotiated at Prepare time.
func (e *Engine) SampleRate() float64 {
	return e.sampleRate
}

// WritePosition returns the next index to be written, in [0, Capacity()).
func (e *Engine) WritePosition() int {
	return e.writePos
}

// Process copies one block into the ring, applying a linear gain ramp from
// startGain to endGain over the whole block. The ramp continues across the
// wrap point. The cursor advances once, after every channel has been written.
//
// Process never allocates. It returns a sentinel error and leaves the ring
// untouched when the block does not match the prepared layout.
func (e *Engine) Process(block [][]float32, startGain, endGain float32) error {
	if e.capacity == 0 {
		return ErrNotPrepared
	}
	if len(block) != len(e.channels) {
		return ErrChannelMismatch
	}
	n := len(block[0])
	if n > e.capacity {
		return ErrInvalidBlockLength
	}
	for ch := 1; ch < len(block); ch++ {
		if len(block[ch]) != n {
			return ErrInvalidBlockLength
		}
	}
	if n == 0 {
		return nil
	}

	first := e.capacity - e.writePos
	if first > n {
		first = n
	}
	step := (endGain - startGain) / float32(n)
	wrapGain := startGain + step*float32(first)

	for ch, src := range block {
		dst := e.channels[ch]
		writeRamp(dst[e.writePos:e.writePos+first], src[:first], startGain, step)
		if first < n {
			writeRamp(dst[:n-first], src[first:], wrapGain, step)
		}
	}

	e.writePos += n
	if e.writePos >= e.capacity {
		e.writePos -= e.capacity
	}
	return nil
}

// ReadDelayed fills dst with the len(dst) samples that end delaySamples
// before the write cursor. After writing a block of length L, a read with
// delaySamples == L returns the block written before it.
//
// The window must lie inside one ring cycle: delaySamples+len(dst) may not
// exceed Capacity(), otherwise ErrInvalidBlockLength is returned.
func (e *Engine) ReadDelayed(dst []float32, channel, delaySamples int) error {
	if e.capacity == 0 {
		return ErrNotPrepared
	}
	if channel < 0 || channel >= len(e.channels) {
		return ErrChannelMismatch
	}
	n := len(dst)
	if delaySamples < 0 || delaySamples+n > e.capacity {
		return ErrInvalidBlockLength
	}
	if n == 0 {
		return nil
	}

	readPos := e.writePos - delaySamples - n
	if readPos < 0 {
		readPos += e.capacity
	}

	src := e.channels[channel]
	first := copy(dst, src[readPos:])
	if first < n {
		copy(dst[first:], src[:n-first])
	}
	return nil
}

// writeRamp writes src*gain into dst with the gain advancing by step per
// sample. A flat ramp takes the SIMD path.
func writeRamp(dst, src []float32, g, step float32) {
	if step == 0 {
		gain.ScaleTo(dst, src, g)
		return
	}
	for i, s := range src {
		dst[i] = s * (g + step*float32(i))
	}
}
