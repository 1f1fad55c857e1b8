package wavfile

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, r *Reader, blockSize int) [][]float32 {
	t.Helper()
	out := make([][]float32, r.Channels())
	block := make([][]float32, r.Channels())
	for ch := range block {
		block[ch] = make([]float32, blockSize)
	}
	for {
		n, err := r.Read(block)
		for ch := range block {
			out[ch] = append(out[ch], block[ch][:n]...)
		}
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		bitDepth int
		channels int
		delta    float64
	}{
		{"16-bit stereo", 16, 2, 1.0 / 32768},
		{"24-bit mono", 24, 1, 1.0 / 8388608},
		{"8-bit stereo", 8, 2, 1.0 / 128},
		{"32-bit mono", 32, 1, 1e-7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.wav")
			w, err := Create(path, 44100, tt.bitDepth, tt.channels)
			require.NoError(t, err)

			data := make([][]float32, tt.channels)
			for ch := range data {
				data[ch] = []float32{0, 0.5, -0.5, 0.25, -1, 0.125 * float32(ch+1), 0.75}
			}
			require.NoError(t, w.Write(window(data, 0, 4)))
			require.NoError(t, w.Write(window(data, 4, len(data[0]))))
			require.NoError(t, w.Close())

			r, err := Open(path)
			require.NoError(t, err)
			defer func() { _ = r.Close() }()

			assert.Equal(t, 44100.0, r.SampleRate())
			assert.Equal(t, tt.channels, r.Channels())
			assert.Equal(t, tt.bitDepth, r.BitDepth())

			got := readAll(t, r, 3)
			require.Len(t, got, tt.channels)
			for ch := range data {
				require.Len(t, got[ch], len(data[ch]))
				assert.InDeltaSlice(t, data[ch], got[ch], tt.delta, "channel %d", ch)
			}
		})
	}
}

func window(data [][]float32, from, to int) [][]float32 {
	out := make([][]float32, len(data))
	for ch := range data {
		out[ch] = data[ch][from:to]
	}
	return out
}

func TestWriteClips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	w, err := Create(path, 48000, 16, 1)
	require.NoError(t, err)

	block := [][]float32{{1.5, -3, 0.5}}
	require.NoError(t, w.Write(block))
	require.NoError(t, w.Close())
	assert.Equal(t, float32(1.5), block[0][0], "caller block is not modified")

	r, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	got := readAll(t, r, 8)
	assert.InDeltaSlice(t, []float32{32767.0 / 32768, -1, 0.5}, got[0], 1e-9)
}

func TestErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Create(filepath.Join(dir, "a.wav"), 48000, 12, 2)
	assert.ErrorContains(t, err, "unsupported bit depth 12")

	_, err = Create(filepath.Join(dir, "b.wav"), 48000, 16, 0)
	assert.ErrorContains(t, err, "invalid WAV format")

	_, err = Open(filepath.Join(dir, "missing.wav"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	junk := filepath.Join(dir, "junk.wav")
	require.NoError(t, os.WriteFile(junk, []byte("definitely not a RIFF file"), 0o644))
	_, err = Open(junk)
	assert.ErrorContains(t, err, "invalid WAV file")

	w, err := Create(filepath.Join(dir, "c.wav"), 48000, 16, 2)
	require.NoError(t, err)
	assert.ErrorContains(t, w.Write([][]float32{{0}}), "write 1 channels to a 2 channel file")
	require.NoError(t, w.Write([][]float32{{0.1}, {0.2}}))
	require.NoError(t, w.Close())

	r, err := Open(filepath.Join(dir, "c.wav"))
	require.NoError(t, err)
	defer func() { _ = r.Close() }()
	_, err = r.Read([][]float32{make([]float32, 4)})
	assert.ErrorContains(t, err, "read 1 channels from a 2 channel file")
}
