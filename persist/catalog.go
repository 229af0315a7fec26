package persist

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// PropertyDescriptor names one registered propstore column and which entity
// and word width it is addressed/stored by, so OpenDatabase knows which of
// OpenColumn32/OpenColumn64 to call and which propstore.Store.*Create*
// method to register it under before loading.
type PropertyDescriptor struct {
	Name   string `yaml:"name"`
	Entity string `yaml:"entity"` // "node" or "edge"
	Width  int    `yaml:"width"`  // 32 or 64
	Tag    string `yaml:"tag"`    // propstore.Tag.String()
}

// Catalog lists what a persisted database directory holds: the frozen
// levels present (by number, in ascending order) and the property columns
// that were persisted alongside them. ID is a uuid.New()
// value stamped once when the catalog is first created, so log lines and
// on-disk artifacts from the same database instance can be correlated
// across process restarts.
type Catalog struct {
	ID         string               `yaml:"id"`
	Levels     []uint32             `yaml:"levels"`
	Properties []PropertyDescriptor `yaml:"properties"`
}

const catalogFileName = "catalog.yaml"

func catalogPath(dir string) string { return filepath.Join(dir, catalogFileName) }

// NewCatalog returns an empty catalog stamped with a fresh instance ID.
func NewCatalog() Catalog {
	return Catalog{ID: uuid.NewString()}
}

// SaveCatalog writes cat to dir as YAML, matching this module's existing
// YAML-based configuration format (config.Loader) rather than introducing
// a second serialization convention for this one file.
func SaveCatalog(dir string, cat Catalog) error {
	data, err := yaml.Marshal(cat)
	if err != nil {
		return fmt.Errorf("persist: marshal catalog: %w", err)
	}
	if err := os.WriteFile(catalogPath(dir), data, 0o644); err != nil {
		return fmt.Errorf("persist: write catalog: %w", err)
	}
	return nil
}

// LoadCatalog reads a previously saved catalog from dir.
func LoadCatalog(dir string) (Catalog, error) {
	data, err := os.ReadFile(catalogPath(dir))
	if err != nil {
		return Catalog{}, fmt.Errorf("persist: read catalog: %w", err)
	}
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return Catalog{}, fmt.Errorf("persist: unmarshal catalog: %w", err)
	}
	return cat, nil
}
