// Package device runs a plugin.Processor live on the default duplex audio
// device through miniaudio.
package device

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gen2brain/malgo"
	"github.com/tphakala/simd/f32"

	"github.com/justyntemme/tapdelay/pkg/framework/bus"
	"github.com/justyntemme/tapdelay/pkg/framework/debug"
	"github.com/justyntemme/tapdelay/pkg/framework/plugin"
	"github.com/justyntemme/tapdelay/pkg/framework/process"
)

const bytesPerSample = 4

// Host is a live host. Capture and playback share one duplex device in
// 32-bit float format.
type Host struct {
	mu         sync.Mutex
	sampleRate float64
	blockSize  int
	channels   int
	log        *debug.Logger

	audio  *malgo.AllocatedContext
	device *malgo.Device
	proc   plugin.Processor

	// Callback state, owned by the audio thread while the device runs.
	pc         *process.Context
	in, out    [][]float32
	interleave []float32
	profile    *debug.BlockProfiler
	dropped    atomic.Uint64
}

// New creates a host for the given stream format. A nil logger uses
// debug.Default().
func New(sampleRate float64, blockSize, channels int, log *debug.Logger) *Host {
	if log == nil {
		log = debug.Default()
	}
	return &Host{
		sampleRate: sampleRate,
		blockSize:  blockSize,
		channels:   channels,
		log:        log,
	}
}

// SampleRate returns the device sample rate.
func (h *Host) SampleRate() float64 { return h.sampleRate }

// MaxBlockSize returns the largest block handed to the processor.
func (h *Host) MaxBlockSize() int { return h.blockSize }

// Channels returns the channel count used for both directions.
func (h *Host) Channels() int { return h.channels }

// Dropped returns how many callbacks carried malformed buffers and were
// answered with silence.
func (h *Host) Dropped() uint64 { return h.dropped.Load() }

// Run streams the device through p until ctx is done.
func (h *Host) Run(ctx context.Context, p plugin.Processor) error {
	audioCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize audio context: %w", err)
	}
	defer func() {
		_ = audioCtx.Uninit()
		audioCtx.Free()
	}()

	h.mu.Lock()
	h.audio = audioCtx
	h.proc = p
	err = h.start()
	h.mu.Unlock()
	if err != nil {
		return err
	}

	<-ctx.Done()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.stop()
	p.Release()
	h.log.Info("device stopped: %s", h.profile)
	if n := h.Dropped(); n > 0 {
		h.log.Warn("%d device callbacks dropped", n)
	}
	return nil
}

// Reconfigure changes the stream format of a running host. The device is
// stopped, the processor prepared again and the device restarted, so
// Prepare never overlaps processing.
func (h *Host) Reconfigure(sampleRate float64, blockSize int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.device == nil {
		return fmt.Errorf("reconfigure: host is not running")
	}
	h.stop()
	h.sampleRate = sampleRate
	h.blockSize = blockSize
	return h.start()
}

// start prepares the processor and opens the device. Callers hold mu.
func (h *Host) start() error {
	if err := h.prepare(h.proc); err != nil {
		return err
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Duplex)
	cfg.Capture.Format = malgo.FormatF32
	cfg.Capture.Channels = uint32(h.channels)
	cfg.Playback.Format = malgo.FormatF32
	cfg.Playback.Channels = uint32(h.channels)
	cfg.SampleRate = uint32(h.sampleRate)
	cfg.PeriodSizeInFrames = uint32(h.blockSize)
	cfg.Alsa.NoMMap = 1

	dev, err := malgo.InitDevice(h.audio.Context, cfg, malgo.DeviceCallbacks{
		Data: h.render,
	})
	if err != nil {
		h.proc.Release()
		return fmt.Errorf("failed to initialize duplex device: %w", err)
	}
	if err := dev.Start(); err != nil {
		dev.Uninit()
		h.proc.Release()
		return fmt.Errorf("failed to start duplex device: %w", err)
	}
	h.device = dev
	h.log.Info("device started for %s (%s): %.0f Hz, %d channels, %d-frame periods",
		h.proc.Info().Name, h.proc.Info().UUID(), h.sampleRate, h.channels, h.blockSize)
	return nil
}

// stop closes the device. Callers hold mu.
func (h *Host) stop() {
	if h.device == nil {
		return
	}
	_ = h.device.Stop()
	h.device.Uninit()
	h.device = nil
}

// prepare checks the layout, prepares p and sizes the callback buffers.
func (h *Host) prepare(p plugin.Processor) error {
	info := p.Info()
	if err := info.ValidateUID(); err != nil {
		return fmt.Errorf("%s: %w", info.Name, err)
	}
	layout := bus.Layout{Inputs: h.channels, Outputs: h.channels}
	if !p.IsLayoutSupported(layout) {
		return fmt.Errorf("%s does not support layout %s", p.Info().Name, layout)
	}
	if err := p.Prepare(h.sampleRate, h.blockSize, h.channels); err != nil {
		return err
	}

	h.proc = p
	h.pc = process.NewContext(h.sampleRate, p.Parameters())
	h.pc.Input = make([][]float32, h.channels)
	h.pc.Output = make([][]float32, h.channels)
	h.in = make([][]float32, h.channels)
	h.out = make([][]float32, h.channels)
	for ch := 0; ch < h.channels; ch++ {
		h.in[ch] = make([]float32, h.blockSize)
		h.out[ch] = make([]float32, h.blockSize)
	}
	h.interleave = make([]float32, h.blockSize*h.channels)
	h.profile = debug.NewBlockProfiler(h.sampleRate)
	return nil
}

// render is the device data callback. It splits the period into blocks of at
// most blockSize frames.
func (h *Host) render(output, input []byte, frames uint32) {
	stride := h.channels * bytesPerSample
	total := int(frames)
	if len(input) < total*stride || len(output) < total*stride {
		h.dropped.Add(1)
		clear(output)
		return
	}

	for done := 0; done < total; {
		n := min(total-done, h.blockSize)
		base := done * stride

		for i := 0; i < n; i++ {
			for ch := 0; ch < h.channels; ch++ {
				off := base + (i*h.channels+ch)*bytesPerSample
				h.in[ch][i] = math.Float32frombits(binary.LittleEndian.Uint32(input[off:]))
			}
		}
		for ch := 0; ch < h.channels; ch++ {
			h.pc.Input[ch] = h.in[ch][:n]
			h.pc.Output[ch] = h.out[ch][:n]
		}

		start := time.Now()
		h.proc.ProcessAudio(h.pc)
		h.profile.Record(n, time.Since(start))

		samples := h.interleave[:n*h.channels]
		if h.channels == 2 {
			f32.Interleave2(samples, h.pc.Output[0], h.pc.Output[1])
		} else {
			for i := 0; i < n; i++ {
				for ch := 0; ch < h.channels; ch++ {
					samples[i*h.channels+ch] = h.pc.Output[ch][i]
				}
			}
		}
		for i, s := range samples {
			binary.LittleEndian.PutUint32(output[base+i*bytesPerSample:], math.Float32bits(s))
		}
		done += n
	}
}

var _ plugin.Host = (*Host)(nil)
