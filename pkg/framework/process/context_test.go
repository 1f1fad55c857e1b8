package process

import (
	"testing"

	"github.com/justyntemme/tapdelay/pkg/framework/param"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextParams(t *testing.T) {
	reg := param.NewRegistry()
	require.NoError(t, reg.Add(param.New(0, "Mix").Range(0, 100).Default(40).Build()))

	ctx := NewContext(48000, reg)
	assert.InDelta(t, 0.4, ctx.Param(0), 1e-9)
	assert.InDelta(t, 40, ctx.ParamPlain(0), 1e-9)
	assert.Zero(t, ctx.Param(99))
	assert.Zero(t, ctx.ParamPlain(99))
}

func TestContextChannels(t *testing.T) {
	ctx := NewContext(48000, param.NewRegistry())
	assert.Zero(t, ctx.NumSamples())

	ctx.Input = [][]float32{{1, 2, 3}}
	ctx.Output = [][]float32{{9, 9, 9}, {9, 9, 9}}
	assert.Equal(t, 3, ctx.NumSamples())
	assert.Equal(t, 1, ctx.NumInputChannels())
	assert.Equal(t, 2, ctx.NumOutputChannels())

	ctx.PassThrough()
	assert.Equal(t, []float32{1, 2, 3}, ctx.Output[0])
	assert.Equal(t, []float32{0, 0, 0}, ctx.Output[1])
}
