// Package bus provides audio bus configuration and layout negotiation.
package bus

import "fmt"

// Direction represents the bus direction
type Direction int32

const (
	// DirectionInput represents input bus
	DirectionInput Direction = 0
	// DirectionOutput represents output bus
	DirectionOutput Direction = 1
)

// Channel counts understood by the layout check.
const (
	Mono   = 1
	Stereo = 2
)

// Info contains bus configuration
type Info struct {
	Direction    Direction
	ChannelCount int32
	Name         string
	IsActive     bool
}

// Layout is a main input/output channel arrangement proposed by a host.
type Layout struct {
	Inputs  int
	Outputs int
}

// String returns e.g. "2in/2out".
func (l Layout) String() string {
	return fmt.Sprintf("%din/%dout", l.Inputs, l.Outputs)
}

// Configuration holds one main input bus and one main output bus.
type Configuration struct {
	buses []Info
	synth bool
}

// NewStereoConfiguration creates a standard stereo I/O configuration
func NewStereoConfiguration() *Configuration {
	return NewConfiguration(Stereo)
}

// NewMonoConfiguration creates a mono I/O configuration
func NewMonoConfiguration() *Configuration {
	return NewConfiguration(Mono)
}

// NewConfiguration creates a matched I/O configuration with n channels.
func NewConfiguration(n int) *Configuration {
	c := &Configuration{}
	c.setChannels(n)
	return c
}

func (c *Configuration) setChannels(n int) {
	name := fmt.Sprintf("%dch", n)
	switch n {
	case Mono:
		name = "Mono"
	case Stereo:
		name = "Stereo"
	}
	c.buses = []Info{
		{Direction: DirectionInput, ChannelCount: int32(n), Name: name + " In", IsActive: true},
		{Direction: DirectionOutput, ChannelCount: int32(n), Name: name + " Out", IsActive: true},
	}
}

// SupportsLayout reports whether a layout can be used: the output must be
// mono or stereo and, unless the plugin is a synth, the input must match it.
func (c *Configuration) SupportsLayout(l Layout) bool {
	if l.Outputs != Mono && l.Outputs != Stereo {
		return false
	}
	if !c.synth && l.Inputs != l.Outputs {
		return false
	}
	return true
}

// Apply switches the configuration to a supported layout.
func (c *Configuration) Apply(l Layout) error {
	if !c.SupportsLayout(l) {
		return fmt.Errorf("unsupported bus layout %s", l)
	}
	c.setChannels(l.Outputs)
	return nil
}

// Layout returns the current main bus arrangement.
func (c *Configuration) Layout() Layout {
	in := c.GetBusInfo(DirectionInput, 0)
	out := c.GetBusInfo(DirectionOutput, 0)
	return Layout{Inputs: int(in.ChannelCount), Outputs: int(out.ChannelCount)}
}

// GetBusCount returns the number of buses for a direction
func (c *Configuration) GetBusCount(direction Direction) int32 {
	count := int32(0)
	for _, bus := range c.buses {
		if bus.Direction == direction {
			count++
		}
	}
	return count
}

// GetBusInfo returns information about a specific bus
func (c *Configuration) GetBusInfo(direction Direction, index int32) *Info {
	busIndex := int32(0)
	for i := range c.buses {
		if c.buses[i].Direction == direction {
			if busIndex == index {
				return &c.buses[i]
			}
			busIndex++
		}
	}
	return nil
}
