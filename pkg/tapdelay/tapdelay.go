// Package tapdelay is the tap delay effect: a feedback echo built on the
// circular delay engine, wrapped in the plugin shell.
package tapdelay

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/justyntemme/tapdelay/pkg/dsp/debug"
	"github.com/justyntemme/tapdelay/pkg/dsp/delay"
	"github.com/justyntemme/tapdelay/pkg/dsp/gain"
	"github.com/justyntemme/tapdelay/pkg/dsp/mix"
	"github.com/justyntemme/tapdelay/pkg/framework/bus"
	"github.com/justyntemme/tapdelay/pkg/framework/param"
	"github.com/justyntemme/tapdelay/pkg/framework/plugin"
	"github.com/justyntemme/tapdelay/pkg/framework/process"
)

// Parameter IDs
const (
	ParamDelayTime = 0
	ParamFeedback  = 1
	ParamMix       = 2
	ParamInputGain = 3
	ParamBypass    = 4
)

const (
	// DefaultInputGainDB is roughly a linear write gain of 0.8.
	DefaultInputGainDB = -1.94

	// GainRampMs is how long an input gain change takes to settle.
	GainRampMs = 20.0

	// MaxTailSeconds caps the reported echo tail.
	MaxTailSeconds = 10.0

	tailFloorDB = -60.0
)

// PluginInfo describes the effect to hosts.
var PluginInfo = plugin.Info{
	ID:       "com.justyntemme.tapdelay",
	Name:     "TAP Delay",
	Version:  "1.0.0",
	Vendor:   "justyntemme",
	Category: "Fx|Delay",
}

// Processor is the tap delay effect.
type Processor struct {
	*plugin.Base

	engine     *delay.Engine
	inputGain  *param.Smoother
	sampleRate float64
	maxBlock   int
	channels   int
	prepared   bool

	// Pre-allocated per-channel scratch, sized by Prepare.
	wet      [][]float32
	feed     [][]float32
	feedView [][]float32

	violations atomic.Uint64
}

// New creates an unprepared stereo tap delay.
func New() *Processor {
	p := &Processor{
		Base:      plugin.NewBase(PluginInfo, bus.NewStereoConfiguration()),
		engine:    delay.New(),
		inputGain: param.NewSmoother(0),
	}

	// Registration cannot fail: IDs and keys below are unique.
	_ = p.Parameters().Add(
		param.New(ParamDelayTime, "Delay Time").
			Range(0, 1000).
			Default(250).
			Unit("ms").
			Formatter(param.TimeFormatter, param.TimeParser).
			Build(),

		param.New(ParamFeedback, "Feedback").
			Range(0, 95).
			Default(30).
			Unit("%").
			Formatter(param.PercentFormatter, param.PercentParser).
			Build(),

		param.New(ParamMix, "Mix").
			Range(0, 100).
			Default(50).
			Unit("%").
			Formatter(param.PercentFormatter, param.PercentParser).
			Build(),

		param.New(ParamInputGain, "Input Gain").
			Range(-60, 0).
			Default(DefaultInputGainDB).
			Unit("dB").
			Formatter(param.DecibelFormatter, param.DecibelParser).
			Build(),

		param.New(ParamBypass, "Bypass").
			Bypass().
			Build(),
	)

	return p
}

// Prepare sizes the delay engine and scratch buffers for a stream. It
// allocates and must not run concurrently with ProcessAudio.
func (p *Processor) Prepare(sampleRate float64, maxBlockSize, channels int) error {
	layout := bus.Layout{Inputs: channels, Outputs: channels}
	if !p.IsLayoutSupported(layout) {
		return fmt.Errorf("prepare %s: unsupported bus layout %s", PluginInfo.Name, layout)
	}
	if err := p.engine.Prepare(maxBlockSize, sampleRate, channels); err != nil {
		return fmt.Errorf("prepare %s: %w", PluginInfo.Name, err)
	}
	if err := p.Buses().Apply(layout); err != nil {
		return fmt.Errorf("prepare %s: %w", PluginInfo.Name, err)
	}

	p.sampleRate = sampleRate
	p.maxBlock = maxBlockSize
	p.channels = channels

	p.wet = make([][]float32, channels)
	p.feed = make([][]float32, channels)
	p.feedView = make([][]float32, channels)
	for ch := 0; ch < channels; ch++ {
		p.wet[ch] = make([]float32, maxBlockSize)
		p.feed[ch] = make([]float32, maxBlockSize)
	}

	p.inputGain.SetRampSamples(int(GainRampMs * sampleRate / 1000))
	p.inputGain.Reset(p.targetGain())
	p.violations.Store(0)
	p.prepared = true
	return nil
}

// Release drops the stream buffers. Prepare must be called again before the
// next ProcessAudio.
func (p *Processor) Release() {
	p.engine = delay.New()
	p.wet, p.feed, p.feedView = nil, nil, nil
	p.prepared = false
}

// ProcessAudio renders one block. A block that breaks the host contract is
// passed through unmodified and counted; debug builds panic instead.
func (p *Processor) ProcessAudio(ctx *process.Context) {
	if ctx.Param(ParamBypass) >= 0.5 {
		ctx.PassThrough()
		return
	}

	n := ctx.NumSamples()
	if !p.prepared || ctx.NumInputChannels() != p.channels || ctx.NumOutputChannels() != p.channels || n > p.maxBlock {
		debug.Assert(false, "block does not match the prepared stream")
		p.violate(ctx)
		return
	}
	debug.CheckBlock(ctx.Input, p.maxBlock, "input")
	debug.CheckBlock(ctx.Output, p.maxBlock, "output")
	if n == 0 {
		return
	}

	delaySamples := p.delaySamples(ctx.ParamPlain(ParamDelayTime), n)
	feedback := float32(ctx.ParamPlain(ParamFeedback) / 100.0)
	amount := float32(ctx.ParamPlain(ParamMix) / 100.0)

	// Read before writing so the wet signal is exactly delaySamples old.
	for ch := 0; ch < p.channels; ch++ {
		wet := p.wet[ch][:n]
		if err := p.engine.ReadDelayed(wet, ch, delaySamples-n); err != nil {
			debug.AssertNoError(err, "read delayed block")
			p.violate(ctx)
			return
		}
		if len(ctx.Input[ch]) != n || len(ctx.Output[ch]) != n {
			debug.Assert(false, "ragged block")
			p.violate(ctx)
			return
		}
		p.feedView[ch] = p.feed[ch][:n]
		mix.FeedbackTo(ctx.Input[ch], wet, feedback, p.feedView[ch])
	}

	p.inputGain.SetTarget(p.targetGain())
	start, end := p.inputGain.Advance(n)
	if err := p.engine.Process(p.feedView, float32(start), float32(end)); err != nil {
		debug.AssertNoError(err, "write block")
		p.violate(ctx)
		return
	}

	for ch := 0; ch < p.channels; ch++ {
		mix.DryWetBufferTo(ctx.Input[ch], p.wet[ch][:n], amount, ctx.Output[ch])
	}
}

func (p *Processor) violate(ctx *process.Context) {
	p.violations.Add(1)
	ctx.PassThrough()
}

// delaySamples converts a delay time to samples, clamped so that a whole
// block can be read before it is overwritten.
func (p *Processor) delaySamples(ms float64, n int) int {
	d := int(math.Round(ms * p.sampleRate / 1000))
	if d < n {
		d = n
	}
	if limit := p.engine.Capacity() - n; d > limit {
		d = limit
	}
	return d
}

func (p *Processor) targetGain() float64 {
	return gain.DbToLinear(p.Parameters().Get(ParamInputGain).GetPlainValue())
}

// Violations returns how many blocks were passed through because they broke
// the processing contract since the last Prepare.
func (p *Processor) Violations() uint64 {
	return p.violations.Load()
}

// Engine exposes the underlying delay engine.
func (p *Processor) Engine() *delay.Engine {
	return p.engine
}

// TailSamples reports how long the echoes take to fall below -60 dB with the
// current settings, capped at MaxTailSeconds. Delays shorter than a block
// repeat once per block, so the period never drops below maxBlock samples.
func (p *Processor) TailSamples() int {
	if p.sampleRate <= 0 {
		return 0
	}
	params := p.Parameters()
	d := int(math.Round(params.Get(ParamDelayTime).GetPlainValue() * p.sampleRate / 1000))
	period := float64(max(d, p.maxBlock)) / p.sampleRate
	loop := params.Get(ParamFeedback).GetPlainValue() / 100 * p.targetGain()

	seconds := math.Min(gain.DecayTime(period, loop, tailFloorDB), MaxTailSeconds)
	return int(math.Ceil(seconds * p.sampleRate))
}

// HasEditor reports that the effect has a view.
func (p *Processor) HasEditor() bool {
	return true
}

// CreateEditor returns a new view bound to the parameters.
func (p *Processor) CreateEditor() plugin.Editor {
	return NewEditor(p.Parameters())
}

var _ plugin.Processor = (*Processor)(nil)
