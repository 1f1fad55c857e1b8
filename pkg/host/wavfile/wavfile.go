// Package wavfile reads and writes PCM WAV files as host sources and sinks.
package wavfile

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/tphakala/simd/f32"

	"github.com/justyntemme/tapdelay/pkg/dsp/gain"
)

// wavFormatPCM is the WAVE_FORMAT_PCM format tag.
const wavFormatPCM = 1

// fullScale returns the integer magnitude that maps to 1.0.
func fullScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case 8, 16, 24, 32:
		return math.Ldexp(1, bitDepth-1), nil
	}
	return 0, fmt.Errorf("unsupported bit depth %d", bitDepth)
}

// Reader streams a PCM WAV file as de-interleaved float32 blocks.
type Reader struct {
	file     *os.File
	decoder  *wav.Decoder
	format   *audio.Format
	bitDepth int
	scale    float32
	buf      *audio.IntBuffer
}

// Open opens a PCM WAV file for reading.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		_ = f.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	bitDepth := int(decoder.BitDepth)
	scale, err := fullScale(bitDepth)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &Reader{
		file:     f,
		decoder:  decoder,
		format:   decoder.Format(),
		bitDepth: bitDepth,
		scale:    float32(1 / scale),
		buf:      &audio.IntBuffer{Format: decoder.Format(), SourceBitDepth: bitDepth},
	}, nil
}

// SampleRate returns the file sample rate.
func (r *Reader) SampleRate() float64 { return float64(r.format.SampleRate) }

// Channels returns the file channel count.
func (r *Reader) Channels() int { return r.format.NumChannels }

// BitDepth returns the file bit depth.
func (r *Reader) BitDepth() int { return r.bitDepth }

// Read decodes up to len(block[0]) frames into block.
func (r *Reader) Read(block [][]float32) (int, error) {
	channels := r.Channels()
	if len(block) != channels {
		return 0, fmt.Errorf("read %d channels from a %d channel file", len(block), channels)
	}

	want := len(block[0]) * channels
	if cap(r.buf.Data) < want {
		r.buf.Data = make([]int, want)
	}
	r.buf.Data = r.buf.Data[:want]

	n, err := r.decoder.PCMBuffer(r.buf)
	if err != nil {
		return 0, fmt.Errorf("decode PCM: %w", err)
	}
	frames := n / channels
	if frames == 0 {
		return 0, io.EOF
	}

	// 8-bit WAV data is unsigned.
	offset := 0
	if r.bitDepth == 8 {
		offset = 128
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			block[ch][i] = float32(r.buf.Data[i*channels+ch]-offset) * r.scale
		}
	}
	return frames, nil
}

// Close closes the file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// Writer encodes de-interleaved float32 blocks into a PCM WAV file.
// Samples are hard clipped to [-1, 1].
type Writer struct {
	file       *os.File
	encoder    *wav.Encoder
	channels   int
	bitDepth   int
	scale      float64
	clipped    [][]float32
	interleave []float32
	buf        *audio.IntBuffer
}

// Create creates or truncates path and writes a WAV header for the format.
func Create(path string, sampleRate, bitDepth, channels int) (*Writer, error) {
	scale, err := fullScale(bitDepth)
	if err != nil {
		return nil, err
	}
	if channels <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("invalid WAV format: %d Hz, %d channels", sampleRate, channels)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &Writer{
		file:     f,
		encoder:  wav.NewEncoder(f, sampleRate, bitDepth, channels, wavFormatPCM),
		channels: channels,
		bitDepth: bitDepth,
		scale:    scale,
		clipped:  make([][]float32, channels),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// Write encodes one block.
func (w *Writer) Write(block [][]float32) error {
	if len(block) != w.channels {
		return fmt.Errorf("write %d channels to a %d channel file", len(block), w.channels)
	}
	frames := len(block[0])
	samples := frames * w.channels

	for ch := range block {
		if cap(w.clipped[ch]) < frames {
			w.clipped[ch] = make([]float32, frames)
		}
		w.clipped[ch] = w.clipped[ch][:frames]
		copy(w.clipped[ch], block[ch])
		gain.HardClipBuffer(w.clipped[ch], 1)
	}

	if cap(w.interleave) < samples {
		w.interleave = make([]float32, samples)
	}
	w.interleave = w.interleave[:samples]
	if w.channels == 2 {
		f32.Interleave2(w.interleave, w.clipped[0], w.clipped[1])
	} else {
		for i := 0; i < frames; i++ {
			for ch := 0; ch < w.channels; ch++ {
				w.interleave[i*w.channels+ch] = w.clipped[ch][i]
			}
		}
	}

	if cap(w.buf.Data) < samples {
		w.buf.Data = make([]int, samples)
	}
	w.buf.Data = w.buf.Data[:samples]
	lo, hi := -w.scale, w.scale-1
	offset := 0
	if w.bitDepth == 8 {
		offset = 128
	}
	for i, s := range w.interleave {
		v := math.Round(float64(s) * w.scale)
		v = math.Max(lo, math.Min(hi, v))
		w.buf.Data[i] = int(v) + offset
	}

	if err := w.encoder.Write(w.buf); err != nil {
		return fmt.Errorf("encode PCM: %w", err)
	}
	return nil
}

// Close finalises the WAV header and closes the file.
func (w *Writer) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("finalise WAV header: %w", err)
	}
	return w.file.Close()
}
