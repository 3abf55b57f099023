package persistence

import (
	"github.com/prosperva/gridstate/internal/shared/types"
)

// Adapter serializes the two-field session payload to a storage medium
// scoped to one session and restores it on store initialization.
//
// Load and Save are best-effort from the store's point of view: a load
// error means "start empty", a save error is logged and swallowed. The
// in-memory effect of a mutation always succeeds regardless.
type Adapter interface {
	// Load reads the previously persisted payload. Returns an error when
	// no payload exists or the content cannot be decoded.
	Load() (*types.SessionPayload, error)

	// Save writes the payload, replacing any previous one.
	Save(payload *types.SessionPayload) error

	// Remove discards the persisted payload, if any.
	Remove() error
}
