package persistence

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"

	"github.com/prosperva/gridstate/internal/shared/types"
)

// Memory keeps the payload in process memory. Used for tests and for
// deployments with persistence disabled. Payloads round-trip through the
// JSON codec so the adapter has the same value semantics as FileAdapter.
type Memory struct {
	data []byte
}

// NewMemory creates an empty in-memory adapter.
func NewMemory() *Memory {
	return &Memory{}
}

// Load decodes the last saved payload.
func (m *Memory) Load() (*types.SessionPayload, error) {
	if m.data == nil {
		return nil, fmt.Errorf("no payload stored: %w", os.ErrNotExist)
	}
	var payload types.SessionPayload
	if err := sonic.Unmarshal(m.data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode session payload: %w", err)
	}
	return &payload, nil
}

// Save encodes and retains the payload.
func (m *Memory) Save(payload *types.SessionPayload) error {
	data, err := sonic.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode session payload: %w", err)
	}
	m.data = data
	return nil
}

// Remove discards the stored payload.
func (m *Memory) Remove() error {
	m.data = nil
	return nil
}
