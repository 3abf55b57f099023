package preset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prosperva/gridstate/internal/infrastructure/logging"
	"github.com/prosperva/gridstate/internal/shared/types"
)

const yamlPreset = `
gridId: audit-log
name: Audit Log
state:
  pageSize: 100
  sortModel:
    - field: timestamp
      direction: desc
  columnVisibility:
    internalId: false
`

const tomlPreset = `
gridId = "products"
name = "Products"

[state]
pageSize = 50

[[state.sortModel]]
field = "sku"
direction = "asc"
`

const jsonPreset = `{
  "gridId": "customers",
  "state": {"page": 0, "hasSearched": false, "columnWidths": {"name": 220}}
}`

func TestParseYAML(t *testing.T) {
	p, err := Parse("audit.yaml", []byte(yamlPreset))
	require.NoError(t, err)

	assert.Equal(t, "audit-log", p.GridID)
	assert.Equal(t, "Audit Log", p.Name)

	state := p.DefaultState()
	assert.Equal(t, 100, state.PageSize)
	require.Len(t, state.SortModel, 1)
	assert.Equal(t, "timestamp", state.SortModel[0].Field)
	assert.Equal(t, "desc", state.SortModel[0].Direction)
	assert.Equal(t, false, state.ColumnVisibility["internalId"])
	// Unset fields come from the canonical default.
	assert.Equal(t, 0, state.Page)
	assert.Empty(t, state.Filters)
}

func TestParseTOML(t *testing.T) {
	p, err := Parse("products.toml", []byte(tomlPreset))
	require.NoError(t, err)

	state := p.DefaultState()
	assert.Equal(t, 50, state.PageSize)
	require.Len(t, state.SortModel, 1)
	assert.Equal(t, "sku", state.SortModel[0].Field)
}

func TestParseJSON(t *testing.T) {
	p, err := Parse("customers.json", []byte(jsonPreset))
	require.NoError(t, err)

	assert.Equal(t, "customers", p.GridID)
	// Name falls back to the grid id.
	assert.Equal(t, "customers", p.Name)
	assert.Equal(t, float64(220), p.DefaultState().ColumnWidths["name"])
}

func TestParseRejectsMissingGridID(t *testing.T) {
	_, err := Parse("bad.json", []byte(`{"name": "no grid"}`))
	assert.Error(t, err)
}

func TestParseRejectsUnknownExtension(t *testing.T) {
	_, err := Parse("preset.ini", []byte("whatever"))
	assert.Error(t, err)
}

func TestRegistryDefaultState(t *testing.T) {
	registry := NewRegistry()
	p, err := Parse("audit.yaml", []byte(yamlPreset))
	require.NoError(t, err)
	require.NoError(t, registry.Register(*p))

	assert.Equal(t, 100, registry.DefaultState("audit-log").PageSize)
	// Grids without a preset keep the canonical default.
	assert.Equal(t, types.DefaultGridState(), registry.DefaultState("other"))
}

func TestSeederLoadsDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "audit.yaml"), []byte(yamlPreset), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.toml"), []byte(tomlPreset), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	registry := NewRegistry()
	seeder := NewSeeder(registry, dir, logging.NewNop())
	require.NoError(t, seeder.Seed())

	assert.Equal(t, 2, registry.Count())
	_, ok := registry.Get("audit-log")
	assert.True(t, ok)
	_, ok = registry.Get("products")
	assert.True(t, ok)
}

func TestSeederMissingDirectory(t *testing.T) {
	registry := NewRegistry()
	seeder := NewSeeder(registry, filepath.Join(t.TempDir(), "absent"), logging.NewNop())

	require.NoError(t, seeder.Seed())
	assert.Equal(t, 0, registry.Count())
}
