package preset

import (
	"fmt"
	"sort"
	"sync"

	"github.com/prosperva/gridstate/internal/shared/types"
)

// Registry holds the loaded presets, keyed by grid id. Safe for
// concurrent reads; registration happens once at startup.
type Registry struct {
	mu      sync.RWMutex
	presets map[string]Preset
}

// NewRegistry creates an empty preset registry.
func NewRegistry() *Registry {
	return &Registry{
		presets: make(map[string]Preset),
	}
}

// Register adds a preset, replacing any prior preset for the same grid.
func (r *Registry) Register(p Preset) error {
	if p.GridID == "" {
		return fmt.Errorf("preset has empty gridId")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.presets[p.GridID] = p
	return nil
}

// Get returns the preset for a grid id.
func (r *Registry) Get(gridID string) (Preset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.presets[gridID]
	return p, ok
}

// List returns all presets sorted by grid id.
func (r *Registry) List() []Preset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Preset, 0, len(r.presets))
	for _, p := range r.presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GridID < out[j].GridID })
	return out
}

// Count returns the number of registered presets.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.presets)
}

// DefaultState returns the default state for a grid: the preset-completed
// state when a preset exists, the canonical default otherwise. This is
// the stores' DefaultsFunc.
func (r *Registry) DefaultState(gridID string) types.GridState {
	if p, ok := r.Get(gridID); ok {
		return p.DefaultState()
	}
	return types.DefaultGridState()
}
