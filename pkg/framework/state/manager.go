// Package state saves and restores plugin parameters as a versioned flat
// record of named scalar values, stamped with the UID of the plugin that
// wrote it.
package state

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/google/uuid"
	"github.com/justyntemme/tapdelay/pkg/framework/param"
)

// Magic prefixes every saved state.
const Magic = "TAPDLY"

// Version is the record layout written by Save.
const Version uint32 = 1

const maxKeyLen = 1<<16 - 1

// ErrInvalidFormat is returned when the data is not a saved state.
var ErrInvalidFormat = errors.New("state: invalid format")

// ErrUnsupportedVersion is returned for states written by a newer release.
var ErrUnsupportedVersion = errors.New("state: unsupported version")

// ErrForeignState is returned for states saved by a different plugin.
var ErrForeignState = errors.New("state: saved by another plugin")

// Manager handles plugin state saving and loading
type Manager struct {
	version  uint32
	owner    uuid.UUID
	registry *param.Registry
}

// NewManager creates a state manager for the plugin identified by owner.
func NewManager(registry *param.Registry, owner uuid.UUID) *Manager {
	return &Manager{
		version:  Version,
		owner:    owner,
		registry: registry,
	}
}

// Save writes every registered parameter as a key/normalized-value pair.
func (m *Manager) Save(w io.Writer) error {
	if _, err := io.WriteString(w, Magic); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	params := m.registry.All()
	if err := binary.Write(w, binary.LittleEndian, m.version); err != nil {
		return fmt.Errorf("write version: %w", err)
	}
	if _, err := w.Write(m.owner[:]); err != nil {
		return fmt.Errorf("write owner: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(params))); err != nil {
		return fmt.Errorf("write count: %w", err)
	}

	for _, p := range params {
		if len(p.Key) > maxKeyLen {
			return fmt.Errorf("parameter key %q too long", p.Key)
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(len(p.Key))); err != nil {
			return fmt.Errorf("write key length for %q: %w", p.Key, err)
		}
		if _, err := io.WriteString(w, p.Key); err != nil {
			return fmt.Errorf("write key %q: %w", p.Key, err)
		}
		if err := binary.Write(w, binary.LittleEndian, p.GetValue()); err != nil {
			return fmt.Errorf("write value for %q: %w", p.Key, err)
		}
	}

	return nil
}

// Load restores parameters from a saved state. Unknown keys are skipped so
// states from newer releases with extra parameters still load; parameters
// missing from the state keep their current value.
func (m *Manager) Load(r io.Reader) error {
	header := make([]byte, len(Magic))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("read header: %w", noEOF(err))
	}
	if string(header) != Magic {
		return ErrInvalidFormat
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return fmt.Errorf("read version: %w", noEOF(err))
	}
	if version == 0 {
		return ErrInvalidFormat
	}
	if version > m.version {
		return fmt.Errorf("%w: %d is newer than %d", ErrUnsupportedVersion, version, m.version)
	}

	var owner uuid.UUID
	if _, err := io.ReadFull(r, owner[:]); err != nil {
		return fmt.Errorf("read owner: %w", noEOF(err))
	}
	if owner != m.owner {
		return fmt.Errorf("%w: %s, expected %s", ErrForeignState, owner, m.owner)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("read count: %w", noEOF(err))
	}

	// Decode everything before applying so a truncated state leaves the
	// parameters untouched.
	type entry struct {
		p     *param.Parameter
		value float64
	}
	var entries []entry
	for i := uint32(0); i < count; i++ {
		var keyLen uint16
		if err := binary.Read(r, binary.LittleEndian, &keyLen); err != nil {
			return fmt.Errorf("read key length %d: %w", i, noEOF(err))
		}
		key := make([]byte, keyLen)
		if _, err := io.ReadFull(r, key); err != nil {
			return fmt.Errorf("read key %d: %w", i, noEOF(err))
		}
		var value float64
		if err := binary.Read(r, binary.LittleEndian, &value); err != nil {
			return fmt.Errorf("read value for %q: %w", key, noEOF(err))
		}

		p := m.registry.Lookup(string(key))
		if p == nil || math.IsNaN(value) {
			continue
		}
		entries = append(entries, entry{p: p, value: value})
	}

	for _, e := range entries {
		e.p.SetValue(e.value)
	}
	return nil
}

func noEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
