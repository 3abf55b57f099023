package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prosperva/gridstate/internal/shared/types"
)

func TestTableGetUnknownReturnsDefault(t *testing.T) {
	table := NewTable()

	state := table.Get("never-written")

	assert.Equal(t, types.DefaultGridState(), state)
	assert.Equal(t, 0, table.Len())
}

func TestTableApplyPreservesUntouchedFields(t *testing.T) {
	table := NewTable()

	filters := map[string]interface{}{"status": "open"}
	searched := true
	table.Apply("orders", types.GridStateUpdate{Filters: &filters, HasSearched: &searched})

	page := 2
	table.Apply("orders", types.GridStateUpdate{Page: &page})

	state := table.Get("orders")
	assert.Equal(t, 2, state.Page)
	assert.Equal(t, "open", state.Filters["status"])
	assert.True(t, state.HasSearched)
	assert.Equal(t, types.DefaultPageSize, state.PageSize)
}

func TestTableSetReplacesInFull(t *testing.T) {
	table := NewTable()

	filters := map[string]interface{}{"status": "open"}
	table.Apply("orders", types.GridStateUpdate{Filters: &filters})

	replacement := types.DefaultGridState()
	replacement.Page = 7
	table.Set("orders", replacement)

	state := table.Get("orders")
	assert.Equal(t, replacement, state)
	assert.Empty(t, state.Filters)
}

func TestTableNeverAliasesCallers(t *testing.T) {
	table := NewTable()

	state := types.DefaultGridState()
	state.Filters["q"] = "original"
	table.Set("orders", state)

	// Mutating the caller's copy must not reach the table.
	state.Filters["q"] = "mutated"
	assert.Equal(t, "original", table.Get("orders").Filters["q"])

	// Mutating a returned copy must not reach the table either.
	got := table.Get("orders")
	got.Filters["q"] = "other"
	assert.Equal(t, "original", table.Get("orders").Filters["q"])
}

func TestTableCustomDefaults(t *testing.T) {
	table := NewTableWithDefaults(func(gridID string) types.GridState {
		state := types.DefaultGridState()
		if gridID == "audit" {
			state.PageSize = 100
		}
		return state
	})

	assert.Equal(t, 100, table.Get("audit").PageSize)
	assert.Equal(t, types.DefaultPageSize, table.Get("other").PageSize)
}

func TestTableSnapshotRestoreRoundTrip(t *testing.T) {
	table := NewTable()
	page := 4
	table.Apply("orders", types.GridStateUpdate{Page: &page})

	snap := table.Snapshot()
	require.Len(t, snap, 1)

	restored := NewTable()
	restored.Restore(snap)
	assert.Equal(t, table.Get("orders"), restored.Get("orders"))

	// Snapshot is detached from the table.
	entry := snap["orders"]
	entry.Page = 99
	snap["orders"] = entry
	assert.Equal(t, 4, table.Get("orders").Page)
}
