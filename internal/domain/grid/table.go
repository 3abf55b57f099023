package grid

import (
	"github.com/prosperva/gridstate/internal/shared/types"
)

// DefaultsFunc produces the default state for a grid that has never been
// written. The preset registry plugs in here; the zero behavior is the
// canonical default for every grid.
type DefaultsFunc func(gridID string) types.GridState

// Table maps grid identifiers to their current interaction state.
//
// The table owns its entries exclusively: every state passed in is stored
// as a deep copy and every state handed out is a deep copy, so callers can
// never mutate an entry in place. Not safe for concurrent use; the owning
// store serializes access.
type Table struct {
	states   map[string]types.GridState
	defaults DefaultsFunc
}

// NewTable creates an empty table using the canonical default state.
func NewTable() *Table {
	return NewTableWithDefaults(nil)
}

// NewTableWithDefaults creates an empty table with a custom default source.
func NewTableWithDefaults(defaults DefaultsFunc) *Table {
	if defaults == nil {
		defaults = func(string) types.GridState { return types.DefaultGridState() }
	}
	return &Table{
		states:   make(map[string]types.GridState),
		defaults: defaults,
	}
}

// Get returns the stored state for gridID, or a fresh default if the grid
// has never been written. Never fails.
func (t *Table) Get(gridID string) types.GridState {
	if state, ok := t.states[gridID]; ok {
		return state.Clone()
	}
	return t.defaults(gridID).Clone()
}

// Apply merges a partial update into the grid's state: present fields win
// over the existing state, which wins over the default. Fields absent from
// the update are preserved, not reset. Returns the merged state.
func (t *Table) Apply(gridID string, update types.GridStateUpdate) types.GridState {
	merged := update.ApplyTo(t.Get(gridID))
	t.states[gridID] = merged
	return merged.Clone()
}

// Set stores state verbatim, replacing any prior entry in full. Callers
// who want partial semantics must use Apply.
func (t *Table) Set(gridID string, state types.GridState) {
	t.states[gridID] = state.Clone()
}

// Len returns the number of grids with stored state.
func (t *Table) Len() int {
	return len(t.states)
}

// Snapshot returns a deep copy of all stored entries, keyed by grid id.
// Used at the persistence boundary.
func (t *Table) Snapshot() map[string]types.GridState {
	out := make(map[string]types.GridState, len(t.states))
	for id, state := range t.states {
		out[id] = state.Clone()
	}
	return out
}

// Restore replaces the table contents with a deep copy of the given
// entries. A nil map resets the table to empty.
func (t *Table) Restore(entries map[string]types.GridState) {
	t.states = make(map[string]types.GridState, len(entries))
	for id, state := range entries {
		t.states[id] = state.Clone()
	}
}
