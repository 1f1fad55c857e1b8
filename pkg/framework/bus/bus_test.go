package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStereoConfiguration(t *testing.T) {
	config := NewStereoConfiguration()

	assert.Equal(t, int32(1), config.GetBusCount(DirectionInput))
	assert.Equal(t, int32(1), config.GetBusCount(DirectionOutput))

	inBus := config.GetBusInfo(DirectionInput, 0)
	require.NotNil(t, inBus)
	assert.Equal(t, int32(2), inBus.ChannelCount)
	assert.Equal(t, "Stereo In", inBus.Name)
	assert.True(t, inBus.IsActive)

	outBus := config.GetBusInfo(DirectionOutput, 0)
	require.NotNil(t, outBus)
	assert.Equal(t, "Stereo Out", outBus.Name)

	assert.Nil(t, config.GetBusInfo(DirectionOutput, 1))
	assert.Equal(t, Layout{Inputs: 2, Outputs: 2}, config.Layout())
}

func TestNewMonoConfiguration(t *testing.T) {
	config := NewMonoConfiguration()
	assert.Equal(t, Layout{Inputs: 1, Outputs: 1}, config.Layout())
	assert.Equal(t, "Mono In", config.GetBusInfo(DirectionInput, 0).Name)
}

func TestSupportsLayout(t *testing.T) {
	tests := []struct {
		layout Layout
		want   bool
	}{
		{Layout{1, 1}, true},
		{Layout{2, 2}, true},
		{Layout{1, 2}, false},
		{Layout{2, 1}, false},
		{Layout{6, 6}, false},
		{Layout{0, 0}, false},
	}

	config := NewStereoConfiguration()
	for _, tt := range tests {
		t.Run(tt.layout.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, config.SupportsLayout(tt.layout))
		})
	}
}

func TestApply(t *testing.T) {
	config := NewStereoConfiguration()

	require.NoError(t, config.Apply(Layout{Inputs: 1, Outputs: 1}))
	assert.Equal(t, Layout{Inputs: 1, Outputs: 1}, config.Layout())

	err := config.Apply(Layout{Inputs: 2, Outputs: 1})
	assert.ErrorContains(t, err, "unsupported bus layout 2in/1out")
	assert.Equal(t, Layout{Inputs: 1, Outputs: 1}, config.Layout())
}
