package host

import "io"

// MemorySource serves audio held in memory.
type MemorySource struct {
	data       [][]float32
	sampleRate float64
	pos        int
}

// NewMemorySource creates a source over per-channel sample slices of equal
// length.
func NewMemorySource(data [][]float32, sampleRate float64) *MemorySource {
	return &MemorySource{data: data, sampleRate: sampleRate}
}

// SampleRate returns the sample rate.
func (s *MemorySource) SampleRate() float64 { return s.sampleRate }

// Channels returns the channel count.
func (s *MemorySource) Channels() int { return len(s.data) }

// Read copies the next frames into block.
func (s *MemorySource) Read(block [][]float32) (int, error) {
	if len(s.data) == 0 || s.pos >= len(s.data[0]) {
		return 0, io.EOF
	}
	var n int
	for ch := range s.data {
		n = copy(block[ch], s.data[ch][s.pos:])
	}
	s.pos += n
	if s.pos >= len(s.data[0]) {
		return n, io.EOF
	}
	return n, nil
}

// MemorySink collects everything written to it.
type MemorySink struct {
	Data [][]float32
}

// Write appends block to Data.
func (s *MemorySink) Write(block [][]float32) error {
	if s.Data == nil {
		s.Data = make([][]float32, len(block))
	}
	for ch := range block {
		s.Data[ch] = append(s.Data[ch], block[ch]...)
	}
	return nil
}
