package gain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDbConversion(t *testing.T) {
	tests := []struct {
		name    string
		linear  float64
		db      float64
		epsilon float64
	}{
		{"Unity gain", 1.0, 0.0, 0.001},
		{"Half amplitude", 0.5, -6.02, 0.01},
		{"Double amplitude", 2.0, 6.02, 0.01},
		{"Default input gain", 0.8, -1.94, 0.01},
		{"Zero amplitude", 0.0, MinDB, 0.001},
		{"Negative amplitude", -1.0, MinDB, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.db, LinearToDb(tt.linear), tt.epsilon)

			if tt.db != MinDB {
				assert.InDelta(t, math.Abs(tt.linear), DbToLinear(tt.db), tt.epsilon)
			}
		})
	}

	assert.Zero(t, DbToLinear(MinDB))
}

func TestScaleTo(t *testing.T) {
	src := []float32{1, -2, 0.5, 4, 0, -0.25, 8, 3}
	dst := make([]float32, len(src))

	ScaleTo(dst, src, 0.5)
	assert.InDeltaSlice(t, []float32{0.5, -1, 0.25, 2, 0, -0.125, 4, 1.5}, dst, 1e-6)
	assert.Equal(t, float32(1), src[0], "source must not be modified")
}

func TestHardClip(t *testing.T) {
	buf := []float32{-2, -1, -0.5, 0, 0.5, 1, 2}
	HardClipBuffer(buf, 1)
	assert.Equal(t, []float32{-1, -1, -0.5, 0, 0.5, 1, 1}, buf)
}

func TestDecayTime(t *testing.T) {
	// 0.5 feedback loses ~6 dB per repeat: ten repeats to reach -60 dB.
	assert.InDelta(t, 0.25*(1+60/6.0206), DecayTime(0.25, 0.5, -60), 1e-3)
	assert.Equal(t, 0.25, DecayTime(0.25, 0, -60))
	assert.True(t, math.IsInf(DecayTime(0.25, 1, -60), 1))
}

func BenchmarkScaleTo(b *testing.B) {
	src := make([]float32, 512)
	dst := make([]float32, 512)
	for i := range src {
		src[i] = float32(math.Sin(float64(i) * 0.1))
	}
	b.ReportAllocs()
	b.SetBytes(int64(len(src) * 4))
	for i := 0; i < b.N; i++ {
		ScaleTo(dst, src, 0.8)
	}
}
