package state

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/justyntemme/tapdelay/pkg/framework/param"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) *param.Registry {
	t.Helper()
	r := param.NewRegistry()
	require.NoError(t, r.Add(
		param.New(0, "Delay Time").Range(0, 1000).Default(250).Build(),
		param.New(1, "Feedback").Range(0, 95).Default(30).Build(),
		param.New(2, "Mix").Range(0, 100).Default(50).Build(),
	))
	return r
}

var owner = uuid.MustParse("1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed")

func newManager(reg *param.Registry) *Manager {
	return NewManager(reg, owner)
}

type entry struct {
	key   string
	value float64
}

func encode(version uint32, entries ...entry) []byte {
	return encodeFor(owner, version, entries...)
}

func encodeFor(id uuid.UUID, version uint32, entries ...entry) []byte {
	var buf bytes.Buffer
	buf.WriteString(Magic)
	_ = binary.Write(&buf, binary.LittleEndian, version)
	buf.Write(id[:])
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(entries)))
	for _, e := range entries {
		_ = binary.Write(&buf, binary.LittleEndian, uint16(len(e.key)))
		buf.WriteString(e.key)
		_ = binary.Write(&buf, binary.LittleEndian, e.value)
	}
	return buf.Bytes()
}

func TestSaveLoadRoundTrip(t *testing.T) {
	src := newRegistry(t)
	src.Get(0).SetValue(0.6)
	src.Get(1).SetValue(0.1)
	src.Get(2).SetValue(1)

	var buf bytes.Buffer
	require.NoError(t, newManager(src).Save(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte(Magic)))
	assert.Equal(t, encode(Version,
		entry{"delay_time", 0.6},
		entry{"feedback", 0.1},
		entry{"mix", 1},
	), buf.Bytes())

	dst := newRegistry(t)
	require.NoError(t, newManager(dst).Load(&buf))
	for _, p := range src.All() {
		assert.Equal(t, p.GetValue(), dst.Get(p.ID).GetValue(), p.Key)
	}
}

func TestLoadIgnoresUnknownKeys(t *testing.T) {
	reg := newRegistry(t)
	data := encode(Version,
		entry{"tempo_sync", 1},
		entry{"mix", 0.25},
		entry{"ducking", 0.5},
	)

	require.NoError(t, newManager(reg).Load(bytes.NewReader(data)))
	assert.Equal(t, 0.25, reg.Lookup("mix").GetValue())
	assert.InDelta(t, 0.25, reg.Lookup("delay_time").GetValue(), 1e-9, "missing keys keep their value")
}

func TestLoadClampsValues(t *testing.T) {
	reg := newRegistry(t)
	data := encode(Version, entry{"mix", 3}, entry{"feedback", -2})

	require.NoError(t, newManager(reg).Load(bytes.NewReader(data)))
	assert.Equal(t, 1.0, reg.Lookup("mix").GetValue())
	assert.Equal(t, 0.0, reg.Lookup("feedback").GetValue())
}

func TestLoadErrors(t *testing.T) {
	good := encode(Version, entry{"mix", 0.9}, entry{"feedback", 0.9})

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, io.ErrUnexpectedEOF},
		{"bad magic", append([]byte("VST3GO"), good[6:]...), ErrInvalidFormat},
		{"zero version", encode(0), ErrInvalidFormat},
		{"newer version", encode(Version + 1), ErrUnsupportedVersion},
		{"truncated header", good[:8], io.ErrUnexpectedEOF},
		{"truncated owner", good[:14], io.ErrUnexpectedEOF},
		{"other plugin", encodeFor(uuid.Nil, Version, entry{"mix", 0.9}), ErrForeignState},
		{"truncated entry", good[:len(good)-3], io.ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := newRegistry(t)
			err := newManager(reg).Load(bytes.NewReader(tt.data))
			require.ErrorIs(t, err, tt.want)
			assert.InDelta(t, 0.5, reg.Lookup("mix").GetValue(), 1e-9, "failed load must not apply values")
		})
	}
}

type failingWriter struct{ after int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.after <= 0 {
		return 0, io.ErrShortWrite
	}
	w.after--
	return len(p), nil
}

func TestSaveWriteError(t *testing.T) {
	for after := 0; after < 5; after++ {
		err := newManager(newRegistry(t)).Save(&failingWriter{after: after})
		assert.ErrorIs(t, err, io.ErrShortWrite)
	}
}
