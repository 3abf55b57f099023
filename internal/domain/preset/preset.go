package preset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/prosperva/gridstate/internal/shared/types"
)

// Preset is a shipped default layout for one grid: a partial state that
// completes the canonical default for views the product wants to start in
// a specific configuration (column sets, page sizes, initial sort).
type Preset struct {
	GridID      string                `json:"gridId" yaml:"gridId" toml:"gridId"`
	Name        string                `json:"name" yaml:"name" toml:"name"`
	Description string                `json:"description,omitempty" yaml:"description" toml:"description"`
	State       types.GridStateUpdate `json:"state" yaml:"state" toml:"state"`
}

// DefaultState completes the canonical default with the preset's fields.
func (p Preset) DefaultState() types.GridState {
	return p.State.ApplyTo(types.DefaultGridState())
}

// Parse decodes a preset file, dispatching on the file extension.
// Supported: .yaml/.yml, .toml, .json.
func Parse(name string, content []byte) (*Preset, error) {
	var p Preset

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &p); err != nil {
			return nil, fmt.Errorf("failed to parse YAML preset: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(content, &p); err != nil {
			return nil, fmt.Errorf("failed to parse TOML preset: %w", err)
		}
	case ".json":
		if err := sonic.Unmarshal(content, &p); err != nil {
			return nil, fmt.Errorf("failed to parse JSON preset: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported preset format: %s", filepath.Ext(name))
	}

	if p.GridID == "" {
		return nil, fmt.Errorf("preset %s: gridId is required", name)
	}
	if p.Name == "" {
		p.Name = p.GridID
	}
	return &p, nil
}
