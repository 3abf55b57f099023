package types

import "time"

// DefaultPageSize is the page size a view starts with before the user
// picks one.
const DefaultPageSize = 25

// SortItem is one entry of a sort model. Order within the model is
// significant: the first entry is the primary sort.
type SortItem struct {
	Field     string `json:"field" yaml:"field" toml:"field"`
	Direction string `json:"direction" yaml:"direction" toml:"direction"`
}

// ScrollPosition holds the scroll offsets of a grid viewport.
type ScrollPosition struct {
	Top  float64 `json:"top" yaml:"top" toml:"top"`
	Left float64 `json:"left" yaml:"left" toml:"left"`
}

// GridState is the complete interaction state of a single grid view.
// Filter values and sort field semantics are caller-owned; the store only
// guarantees their shape survives a round trip.
type GridState struct {
	Filters          map[string]interface{} `json:"filters"`
	Page             int                    `json:"page"`
	PageSize         int                    `json:"pageSize"`
	SortModel        []SortItem             `json:"sortModel"`
	ColumnVisibility map[string]bool        `json:"columnVisibility"`
	ColumnWidths     map[string]float64     `json:"columnWidths"`
	ScrollPosition   ScrollPosition         `json:"scrollPosition"`
	SelectedRowIDs   []interface{}          `json:"selectedRowIds"`
	HasSearched      bool                   `json:"hasSearched"`
}

// DefaultGridState returns the canonical state of a view that has never
// been touched. Every field has a well-defined default so any partial
// state can be completed against it.
func DefaultGridState() GridState {
	return GridState{
		Filters:          map[string]interface{}{},
		Page:             0,
		PageSize:         DefaultPageSize,
		SortModel:        []SortItem{},
		ColumnVisibility: map[string]bool{},
		ColumnWidths:     map[string]float64{},
		ScrollPosition:   ScrollPosition{},
		SelectedRowIDs:   []interface{}{},
		HasSearched:      false,
	}
}

// Clone returns an independent deep copy. Mutating the copy (or the
// original) afterwards must not be observable through the other; pushed
// snapshots rely on this.
func (s GridState) Clone() GridState {
	out := s
	out.Filters = cloneFilterMap(s.Filters)
	out.SortModel = cloneSortModel(s.SortModel)
	out.ColumnVisibility = cloneBoolMap(s.ColumnVisibility)
	out.ColumnWidths = cloneFloatMap(s.ColumnWidths)
	out.SelectedRowIDs = cloneValueSlice(s.SelectedRowIDs)
	return out
}

// GridStateUpdate is a partial GridState. Nil fields are "absent" and
// leave the existing value untouched; non-nil fields override it
// wholesale. Top-level fields are the unit of merge - a filters update
// replaces the whole filters map, never individual keys.
type GridStateUpdate struct {
	Filters          *map[string]interface{} `json:"filters,omitempty" yaml:"filters" toml:"filters"`
	Page             *int                    `json:"page,omitempty" yaml:"page" toml:"page"`
	PageSize         *int                    `json:"pageSize,omitempty" yaml:"pageSize" toml:"pageSize"`
	SortModel        *[]SortItem             `json:"sortModel,omitempty" yaml:"sortModel" toml:"sortModel"`
	ColumnVisibility *map[string]bool        `json:"columnVisibility,omitempty" yaml:"columnVisibility" toml:"columnVisibility"`
	ColumnWidths     *map[string]float64     `json:"columnWidths,omitempty" yaml:"columnWidths" toml:"columnWidths"`
	ScrollPosition   *ScrollPosition         `json:"scrollPosition,omitempty" yaml:"scrollPosition" toml:"scrollPosition"`
	SelectedRowIDs   *[]interface{}          `json:"selectedRowIds,omitempty" yaml:"selectedRowIds" toml:"selectedRowIds"`
	HasSearched      *bool                   `json:"hasSearched,omitempty" yaml:"hasSearched" toml:"hasSearched"`
}

// ApplyTo completes base with the update's present fields and returns the
// merged state. Neither base nor the update is mutated; the result shares
// no nested structure with either.
func (u GridStateUpdate) ApplyTo(base GridState) GridState {
	merged := base.Clone()
	if u.Filters != nil {
		merged.Filters = cloneFilterMap(*u.Filters)
	}
	if u.Page != nil {
		merged.Page = *u.Page
	}
	if u.PageSize != nil {
		merged.PageSize = *u.PageSize
	}
	if u.SortModel != nil {
		merged.SortModel = cloneSortModel(*u.SortModel)
	}
	if u.ColumnVisibility != nil {
		merged.ColumnVisibility = cloneBoolMap(*u.ColumnVisibility)
	}
	if u.ColumnWidths != nil {
		merged.ColumnWidths = cloneFloatMap(*u.ColumnWidths)
	}
	if u.ScrollPosition != nil {
		merged.ScrollPosition = *u.ScrollPosition
	}
	if u.SelectedRowIDs != nil {
		merged.SelectedRowIDs = cloneValueSlice(*u.SelectedRowIDs)
	}
	if u.HasSearched != nil {
		merged.HasSearched = *u.HasSearched
	}
	return merged
}

// NavigationSnapshot is a captured GridState plus routing metadata.
// State is a value copy taken at push time, never a live reference.
type NavigationSnapshot struct {
	ID         string    `json:"id"`
	GridID     string    `json:"gridId"`
	State      GridState `json:"state"`
	ReturnPath string    `json:"returnPath"`
	Timestamp  time.Time `json:"timestamp"`
}

// Clone returns a deep copy of the snapshot.
func (n NavigationSnapshot) Clone() NavigationSnapshot {
	out := n
	out.State = n.State.Clone()
	return out
}

// SessionPayload is the only externally durable artifact: exactly the
// grid-state table and the navigation stack, nothing else.
type SessionPayload struct {
	ActiveGridState map[string]GridState `json:"activeGridState"`
	NavigationStack []NavigationSnapshot `json:"navigationStack"`
}

func cloneFilterMap(in map[string]interface{}) map[string]interface{} {
	if in == nil {
		return nil
	}
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneBoolMap(in map[string]bool) map[string]bool {
	if in == nil {
		return nil
	}
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneFloatMap(in map[string]float64) map[string]float64 {
	if in == nil {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneSortModel(in []SortItem) []SortItem {
	if in == nil {
		return nil
	}
	out := make([]SortItem, len(in))
	copy(out, in)
	return out
}

func cloneValueSlice(in []interface{}) []interface{} {
	if in == nil {
		return nil
	}
	out := make([]interface{}, len(in))
	for i, v := range in {
		out[i] = cloneValue(v)
	}
	return out
}

// cloneValue deep-copies the JSON-shaped values that appear inside
// filters and row id lists.
func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return cloneFilterMap(val)
	case []interface{}:
		return cloneValueSlice(val)
	default:
		return val
	}
}
