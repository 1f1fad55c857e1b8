package mix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDryWetBufferTo(t *testing.T) {
	dry := []float32{1, 1, 1, 1}
	wet := []float32{0, 0.5, 1, -1}
	dst := make([]float32, 4)

	DryWetBufferTo(dry, wet, 0.5, dst)
	assert.InDeltaSlice(t, []float32{0.5, 0.75, 1, 0}, dst, 1e-6)

	// Short destination limits the work.
	short := make([]float32, 2)
	DryWetBufferTo(dry, wet, 1, short)
	assert.Equal(t, []float32{0, 0.5}, short)
}

func TestFeedbackTo(t *testing.T) {
	in := []float32{1, 0, 0, 0}
	delayed := []float32{0, 1, 0.5, -1}
	dst := make([]float32, 4)

	FeedbackTo(in, delayed, 0.5, dst)
	assert.InDeltaSlice(t, []float32{1, 0.5, 0.25, -0.5}, dst, 1e-6)

	// dst may alias input.
	FeedbackTo(in, delayed, 1, in)
	assert.Equal(t, []float32{1, 1, 0.5, -1}, in)
}

func BenchmarkDryWetBufferTo(b *testing.B) {
	dry := make([]float32, 512)
	wet := make([]float32, 512)
	dst := make([]float32, 512)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		DryWetBufferTo(dry, wet, 0.5, dst)
	}
}
