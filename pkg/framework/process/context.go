// Package process provides the per-block audio processing context.
package process

import (
	"github.com/justyntemme/tapdelay/pkg/framework/param"
)

// Context provides a clean API for audio processing with zero allocations.
// Hosts fill Input and Output with equal-length per-channel slices before
// each call.
type Context struct {
	Input      [][]float32
	Output     [][]float32
	SampleRate float64

	params *param.Registry
}

// NewContext creates a process context bound to a parameter registry.
func NewContext(sampleRate float64, params *param.Registry) *Context {
	return &Context{
		SampleRate: sampleRate,
		params:     params,
	}
}

// Param returns the current value of a parameter (0-1 normalized)
func (c *Context) Param(id uint32) float64 {
	if p := c.params.Get(id); p != nil {
		return p.GetValue()
	}
	return 0
}

// ParamPlain returns the current plain value of a parameter
func (c *Context) ParamPlain(id uint32) float64 {
	if p := c.params.Get(id); p != nil {
		return p.GetPlainValue()
	}
	return 0
}

// NumSamples returns the number of samples to process
func (c *Context) NumSamples() int {
	if len(c.Input) > 0 && len(c.Input[0]) > 0 {
		return len(c.Input[0])
	}
	if len(c.Output) > 0 && len(c.Output[0]) > 0 {
		return len(c.Output[0])
	}
	return 0
}

// NumInputChannels returns the number of input channels
func (c *Context) NumInputChannels() int {
	return len(c.Input)
}

// NumOutputChannels returns the number of output channels
func (c *Context) NumOutputChannels() int {
	return len(c.Output)
}

// PassThrough copies input to output (for bypass) and silences any output
// channel without a matching input.
func (c *Context) PassThrough() {
	for ch := range c.Output {
		if ch < len(c.Input) {
			copy(c.Output[ch], c.Input[ch])
			continue
		}
		clear(c.Output[ch])
	}
}
