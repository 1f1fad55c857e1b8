package plugin

import (
	"fmt"
	"io"

	"github.com/justyntemme/tapdelay/pkg/framework/bus"
	"github.com/justyntemme/tapdelay/pkg/framework/param"
	"github.com/justyntemme/tapdelay/pkg/framework/state"
)

// Base provides the host-facing plumbing shared by effects: metadata,
// parameters, buses, state and the single-program stubs. Effects embed it
// and add Prepare, ProcessAudio and Release.
type Base struct {
	info   Info
	params *param.Registry
	buses  *bus.Configuration
	state  *state.Manager
}

// NewBase creates a new plugin base
func NewBase(info Info, buses *bus.Configuration) *Base {
	if buses == nil {
		buses = bus.NewStereoConfiguration()
	}
	params := param.NewRegistry()
	return &Base{
		info:   info,
		params: params,
		buses:  buses,
		state:  state.NewManager(params, info.UID()),
	}
}

// Info returns the plugin metadata.
func (b *Base) Info() Info {
	return b.info
}

// Parameters returns the parameter registry for configuration
func (b *Base) Parameters() *param.Registry {
	return b.params
}

// Buses returns the bus configuration.
func (b *Base) Buses() *bus.Configuration {
	return b.buses
}

// IsLayoutSupported reports whether the main bus arrangement is usable.
func (b *Base) IsLayoutSupported(layout bus.Layout) bool {
	return b.buses.SupportsLayout(layout)
}

// SaveState writes the parameter state.
func (b *Base) SaveState(w io.Writer) error {
	if err := b.state.Save(w); err != nil {
		return fmt.Errorf("save %s state: %w", b.info.Name, err)
	}
	return nil
}

// LoadState restores the parameter state.
func (b *Base) LoadState(r io.Reader) error {
	if err := b.state.Load(r); err != nil {
		return fmt.Errorf("load %s state: %w", b.info.Name, err)
	}
	return nil
}

// LatencySamples reports no processing latency.
func (b *Base) LatencySamples() int {
	return 0
}

// TailSamples reports no tail.
func (b *Base) TailSamples() int {
	return 0
}

// AcceptsMIDI reports whether the plugin reads MIDI input.
func (b *Base) AcceptsMIDI() bool { return false }

// ProducesMIDI reports whether the plugin emits MIDI.
func (b *Base) ProducesMIDI() bool { return false }

// IsMIDIEffect reports whether the plugin only processes MIDI.
func (b *Base) IsMIDIEffect() bool { return false }

// NumPrograms returns 1; some hosts misbehave when a plugin reports none.
func (b *Base) NumPrograms() int { return 1 }

// CurrentProgram always returns 0.
func (b *Base) CurrentProgram() int { return 0 }

// SetCurrentProgram is a no-op.
func (b *Base) SetCurrentProgram(index int) {}

// ProgramName returns an empty name.
func (b *Base) ProgramName(index int) string { return "" }

// RenameProgram is a no-op.
func (b *Base) RenameProgram(index int, name string) {}

// HasEditor reports whether CreateEditor returns a view.
func (b *Base) HasEditor() bool { return false }

// CreateEditor returns nil for plugins without a view.
func (b *Base) CreateEditor() Editor { return nil }
