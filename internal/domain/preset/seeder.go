package preset

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/prosperva/gridstate/internal/infrastructure/logging"
)

// Seeder loads preset files from a directory into a registry at startup.
type Seeder struct {
	registry *Registry
	dir      string
	logger   *logging.Logger
}

// NewSeeder creates a seeder for the given preset directory.
func NewSeeder(registry *Registry, dir string, logger *logging.Logger) *Seeder {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Seeder{
		registry: registry,
		dir:      dir,
		logger:   logger,
	}
}

// Seed walks the preset directory and registers every parseable preset
// file. A missing directory is not an error; individual bad files are
// logged and skipped so one broken preset never blocks startup.
func (s *Seeder) Seed() error {
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		s.logger.Info("No preset directory, skipping seed", zap.String("dir", s.dir))
		return nil
	}

	var loaded, failed int

	err := filepath.Walk(s.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !supportedExt(info.Name()) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("Failed to read preset file", zap.String("file", path), zap.Error(err))
			failed++
			return nil
		}

		p, err := Parse(info.Name(), content)
		if err != nil {
			s.logger.Warn("Failed to parse preset file", zap.String("file", path), zap.Error(err))
			failed++
			return nil
		}

		if err := s.registry.Register(*p); err != nil {
			s.logger.Warn("Failed to register preset", zap.String("file", path), zap.Error(err))
			failed++
			return nil
		}
		loaded++
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Preset seeding complete",
		zap.String("dir", s.dir),
		zap.Int("loaded", loaded),
		zap.Int("failed", failed),
	)
	return nil
}

func supportedExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".toml", ".json":
		return true
	}
	return false
}
