// Package host drives a plugin.Processor from a block source to a block
// sink, the way a plugin host would.
package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/justyntemme/tapdelay/pkg/framework/bus"
	"github.com/justyntemme/tapdelay/pkg/framework/debug"
	"github.com/justyntemme/tapdelay/pkg/framework/plugin"
	"github.com/justyntemme/tapdelay/pkg/framework/process"
)

// Source produces de-interleaved audio.
//
// Read fills up to len(block[0]) frames of every channel and returns how many
// it wrote. It returns io.EOF, possibly together with a final partial block,
// once the source is drained.
type Source interface {
	SampleRate() float64
	Channels() int
	Read(block [][]float32) (int, error)
}

// Sink consumes de-interleaved audio. Every channel of block has the same
// length.
type Sink interface {
	Write(block [][]float32) error
}

// ViolationCounter is implemented by processors that count blocks they had
// to pass through unprocessed.
type ViolationCounter interface {
	Violations() uint64
}

// Driver is an offline host: it streams a Source through a Processor into a
// Sink, then renders the processor's tail as silence.
type Driver struct {
	src       Source
	sink      Sink
	blockSize int
	log       *debug.Logger

	meter   *debug.Meter
	profile *debug.BlockProfiler
}

// NewDriver creates a driver that processes blocks of at most blockSize
// frames. A nil logger uses debug.Default().
func NewDriver(src Source, sink Sink, blockSize int, log *debug.Logger) *Driver {
	if log == nil {
		log = debug.Default()
	}
	return &Driver{
		src:       src,
		sink:      sink,
		blockSize: blockSize,
		log:       log,
		meter:     debug.NewMeter(1),
		profile:   debug.NewBlockProfiler(src.SampleRate()),
	}
}

// SampleRate returns the source sample rate.
func (d *Driver) SampleRate() float64 { return d.src.SampleRate() }

// MaxBlockSize returns the largest block handed to the processor.
func (d *Driver) MaxBlockSize() int { return d.blockSize }

// Channels returns the source channel count.
func (d *Driver) Channels() int { return d.src.Channels() }

// Meter returns the output level statistics of the last run.
func (d *Driver) Meter() *debug.Meter { return d.meter }

// Profile returns the processing load of the last run.
func (d *Driver) Profile() *debug.BlockProfiler { return d.profile }

// Run prepares p, streams the source and the tail through it, and releases
// it. Cancellation is checked between blocks.
func (d *Driver) Run(ctx context.Context, p plugin.Processor) error {
	info := p.Info()
	if err := info.ValidateUID(); err != nil {
		return fmt.Errorf("%s: %w", info.Name, err)
	}
	channels := d.Channels()
	layout := bus.Layout{Inputs: channels, Outputs: channels}
	if !p.IsLayoutSupported(layout) {
		return fmt.Errorf("%s does not support layout %s", p.Info().Name, layout)
	}
	if err := p.Prepare(d.SampleRate(), d.blockSize, channels); err != nil {
		return err
	}
	defer p.Release()

	d.meter.Reset()
	d.profile = debug.NewBlockProfiler(d.SampleRate())
	d.log.Info("prepared %s (%s): %s, %.0f Hz, %d-frame blocks", info.Name, info.UUID(), layout, d.SampleRate(), d.blockSize)

	in := newBlock(channels, d.blockSize)
	out := newBlock(channels, d.blockSize)
	pc := process.NewContext(d.SampleRate(), p.Parameters())
	pc.Input = make([][]float32, channels)
	pc.Output = make([][]float32, channels)

	render := func(n int) error {
		for ch := 0; ch < channels; ch++ {
			pc.Input[ch] = in[ch][:n]
			pc.Output[ch] = out[ch][:n]
		}
		start := time.Now()
		p.ProcessAudio(pc)
		d.profile.Record(n, time.Since(start))
		d.meter.Add(pc.Output)
		if err := d.sink.Write(pc.Output); err != nil {
			return fmt.Errorf("write block: %w", err)
		}
		return nil
	}

	var frames int
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := d.src.Read(in)
		if n > 0 {
			if werr := render(n); werr != nil {
				return werr
			}
			frames += n
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read block: %w", err)
		}
	}

	tail := p.TailSamples()
	d.log.Debug("input drained after %d frames, rendering %d tail frames", frames, tail)
	for ch := range in {
		clear(in[ch])
	}
	for left := tail; left > 0; {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := min(left, d.blockSize)
		if err := render(n); err != nil {
			return err
		}
		left -= n
	}

	d.log.Info("rendered %d frames: %s", frames+tail, d.meter)
	d.log.Debug("processing %s", d.profile)
	if vc, ok := p.(ViolationCounter); ok && vc.Violations() > 0 {
		d.log.Warn("%d blocks passed through unprocessed", vc.Violations())
	}
	return nil
}

func newBlock(channels, frames int) [][]float32 {
	block := make([][]float32, channels)
	for ch := range block {
		block[ch] = make([]float32, frames)
	}
	return block
}

var _ plugin.Host = (*Driver)(nil)
