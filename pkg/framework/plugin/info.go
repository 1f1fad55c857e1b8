package plugin

import (
	"errors"

	"github.com/google/uuid"
)

// uidNamespace scopes name-based plugin UIDs.
var uidNamespace = uuid.MustParse("6f2b7c1e-3d4a-5b8c-9e0f-1a2b3c4d5e6f")

// Info contains plugin metadata
type Info struct {
	ID       string // Unique plugin identifier (e.g., "com.example.myplugin")
	Name     string // Display name
	Version  string // Semantic version (e.g., "1.0.0")
	Vendor   string // Company/developer name
	Category string // Plugin category (e.g., "Fx|Delay")
}

// UID derives a stable class ID from the string ID.
func (i Info) UID() uuid.UUID {
	return uuid.NewSHA1(uidNamespace, []byte(i.ID))
}

// UUID returns UID in canonical text form.
func (i Info) UUID() string {
	return i.UID().String()
}

// ValidateUID checks that a UID can be derived.
func (i Info) ValidateUID() error {
	if i.ID == "" {
		return errors.New("plugin ID must not be empty")
	}
	return nil
}
