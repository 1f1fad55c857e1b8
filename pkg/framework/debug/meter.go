package debug

import (
	"fmt"
	"math"
)

// Meter accumulates level statistics over a stream of blocks. Add does not
// allocate, so a host may call it right after each process call.
type Meter struct {
	Peak     float32
	Clipped  int
	NaNs     int
	Samples  int
	sumSq    float64
	clipping float32
}

// NewMeter creates a meter that counts samples at or above clipping as
// clipped.
func NewMeter(clipping float32) *Meter {
	return &Meter{clipping: clipping}
}

// Add folds every channel of block into the statistics.
func (m *Meter) Add(block [][]float32) {
	for _, ch := range block {
		for _, s := range ch {
			if s != s {
				m.NaNs++
				continue
			}
			a := s
			if a < 0 {
				a = -a
			}
			if a > m.Peak {
				m.Peak = a
			}
			if a >= m.clipping {
				m.Clipped++
			}
			m.sumSq += float64(s) * float64(s)
			m.Samples++
		}
	}
}

// RMS returns the root mean square over every sample seen.
func (m *Meter) RMS() float64 {
	if m.Samples == 0 {
		return 0
	}
	return math.Sqrt(m.sumSq / float64(m.Samples))
}

// Reset clears the statistics.
func (m *Meter) Reset() {
	*m = Meter{clipping: m.clipping}
}

// String summarises the statistics on one line.
func (m *Meter) String() string {
	return fmt.Sprintf("peak=%.4f rms=%.4f clipped=%d nan=%d samples=%d",
		m.Peak, m.RMS(), m.Clipped, m.NaNs, m.Samples)
}
