// Package plugin defines the boundary between an effect and the host that
// drives it.
package plugin

import (
	"context"
	"image"
	"io"

	"github.com/justyntemme/tapdelay/pkg/framework/bus"
	"github.com/justyntemme/tapdelay/pkg/framework/param"
	"github.com/justyntemme/tapdelay/pkg/framework/process"
)

// Processor is implemented by an effect and driven by a Host.
//
// Prepare runs outside the audio thread and may allocate. ProcessAudio runs
// on the audio thread and must not allocate, lock, log or block. A host must
// never call Prepare while ProcessAudio is running.
type Processor interface {
	Info() Info
	Parameters() *param.Registry
	Buses() *bus.Configuration
	IsLayoutSupported(layout bus.Layout) bool

	Prepare(sampleRate float64, maxBlockSize, channels int) error
	ProcessAudio(ctx *process.Context)
	Release()

	LatencySamples() int
	TailSamples() int

	SaveState(w io.Writer) error
	LoadState(r io.Reader) error

	HasEditor() bool
	CreateEditor() Editor
}

// Host delivers audio blocks to a Processor.
type Host interface {
	SampleRate() float64
	MaxBlockSize() int
	Channels() int
	Run(ctx context.Context, p Processor) error
}

// Editor is a plugin view. Its lifetime is owned by the host and is
// independent of audio processing.
type Editor interface {
	Size() (width, height int)
	Resize(width, height int) error
	Paint(dst *image.RGBA)
	Close()
}
