package persistence

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prosperva/gridstate/internal/shared/types"
)

func samplePayload(t *testing.T) *types.SessionPayload {
	t.Helper()

	state := types.DefaultGridState()
	state.Filters = map[string]interface{}{
		"status": []interface{}{"open", "pending"},
		"owner":  map[string]interface{}{"id": "u1"},
	}
	state.Page = 3
	state.SortModel = []types.SortItem{{Field: "created", Direction: "desc"}}
	state.SelectedRowIDs = []interface{}{"r1", float64(42)}
	state.HasSearched = true

	return &types.SessionPayload{
		ActiveGridState: map[string]types.GridState{"orders": state},
		NavigationStack: []types.NavigationSnapshot{
			{
				ID:         "snap-1",
				GridID:     "orders",
				State:      state.Clone(),
				ReturnPath: "/orders?page=3",
				Timestamp:  time.Now().UTC().Truncate(time.Millisecond),
			},
		},
	}
}

func TestFileAdapterRoundTrip(t *testing.T) {
	adapter := NewFileAdapter(t.TempDir(), "sess_test")
	payload := samplePayload(t)

	require.NoError(t, adapter.Save(payload))

	loaded, err := adapter.Load()
	require.NoError(t, err)
	assert.Equal(t, payload.ActiveGridState, loaded.ActiveGridState)
	require.Len(t, loaded.NavigationStack, 1)
	assert.Equal(t, payload.NavigationStack[0].GridID, loaded.NavigationStack[0].GridID)
	assert.Equal(t, payload.NavigationStack[0].ReturnPath, loaded.NavigationStack[0].ReturnPath)
	assert.True(t, payload.NavigationStack[0].Timestamp.Equal(loaded.NavigationStack[0].Timestamp))
	assert.Equal(t, payload.NavigationStack[0].State, loaded.NavigationStack[0].State)
}

func TestFileAdapterMissingFile(t *testing.T) {
	adapter := NewFileAdapter(t.TempDir(), "sess_missing")

	_, err := adapter.Load()
	assert.Error(t, err)
}

func TestFileAdapterCorruptFile(t *testing.T) {
	dir := t.TempDir()
	adapter := NewFileAdapter(dir, "sess_corrupt")

	require.NoError(t, os.WriteFile(adapter.Path(), []byte("not gzip at all"), 0o644))

	_, err := adapter.Load()
	assert.Error(t, err)
}

func TestFileAdapterOverwrite(t *testing.T) {
	adapter := NewFileAdapter(t.TempDir(), "sess_overwrite")

	first := samplePayload(t)
	require.NoError(t, adapter.Save(first))

	second := &types.SessionPayload{
		ActiveGridState: map[string]types.GridState{},
		NavigationStack: []types.NavigationSnapshot{},
	}
	require.NoError(t, adapter.Save(second))

	loaded, err := adapter.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded.ActiveGridState)
	assert.Empty(t, loaded.NavigationStack)
}

func TestFileAdapterRemove(t *testing.T) {
	adapter := NewFileAdapter(t.TempDir(), "sess_remove")

	require.NoError(t, adapter.Save(samplePayload(t)))
	require.NoError(t, adapter.Remove())

	_, err := adapter.Load()
	assert.Error(t, err)

	// Removing twice is fine.
	assert.NoError(t, adapter.Remove())
}

func TestMemoryAdapterRoundTrip(t *testing.T) {
	adapter := NewMemory()

	_, err := adapter.Load()
	assert.Error(t, err)

	payload := samplePayload(t)
	require.NoError(t, adapter.Save(payload))

	loaded, err := adapter.Load()
	require.NoError(t, err)
	assert.Equal(t, payload.ActiveGridState, loaded.ActiveGridState)

	require.NoError(t, adapter.Remove())
	_, err = adapter.Load()
	assert.Error(t, err)
}
