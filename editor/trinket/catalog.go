package trinket

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
)

type catalogFile struct {
	Blueprints []Blueprint `toml:"blueprint"`
}

// LoadCatalog reads a TOML catalog of blueprints from the file at path and returns a Registry holding them. If the file
// does not exist yet, it is created holding DefaultBlueprints.
func LoadCatalog(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("catalog path must not be empty")
	}
	data := catalogFile{}
	contents, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		data.Blueprints = DefaultBlueprints()
		if err := WriteCatalog(path, data.Blueprints); err != nil {
			return nil, err
		}
		return NewRegistry(data.Blueprints...), nil
	}
	if len(contents) != 0 {
		if err := toml.Unmarshal(contents, &data); err != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
	}
	r := NewRegistry()
	for _, bp := range data.Blueprints {
		if err := r.Register(bp); err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
	}
	return r, nil
}

// WriteCatalog encodes the blueprints passed as a TOML catalog at path, creating the parent directory if needed.
func WriteCatalog(path string, blueprints []Blueprint) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0777); err != nil {
			return fmt.Errorf("create catalog directory: %w", err)
		}
	}
	encoded, err := toml.Marshal(catalogFile{Blueprints: blueprints})
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}
