package sowing

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
)

// Rule is the plain data form of a Sowing, as found in a rules file.
type Rule struct {
	// Name identifies the rule in logs and metrics. Names must be unique within a Sower.
	Name string `toml:"name"`
	// CliffDistance is the minimum distance to a cliff. 0 leaves the distance to cliffs unconstrained.
	CliffDistance float64 `toml:"cliff_distance,omitempty"`
	// MinSlope and MaxSlope bound the slope in degrees. A nil bound is open.
	MinSlope *float64 `toml:"min_slope,omitempty"`
	MaxSlope *float64 `toml:"max_slope,omitempty"`
	// Trinkets lists the trinket types the rule sows.
	Trinkets []TrinketEntry `toml:"trinket"`
	// Textures lists the texture weight ranges locations must have.
	Textures []TextureEntry `toml:"texture,omitempty"`
}

// TrinketEntry registers a trinket type with a Rule.
type TrinketEntry struct {
	Type    string  `toml:"type"`
	Weight  int     `toml:"weight"`
	Spacing float64 `toml:"spacing"`
}

// TextureEntry requires the weight of texture ID to lie in [Min, Max].
type TextureEntry struct {
	ID  string  `toml:"id"`
	Min float64 `toml:"min"`
	Max float64 `toml:"max"`
}

// Sowing creates a Sowing from the rule. An error is returned if the rule has no trinket types or holds an invalid spec
// or range.
func (r Rule) Sowing() (*Sowing, error) {
	s := New(r.Name)
	for _, e := range r.Trinkets {
		if err := s.RegisterType(e.Type, e.Weight, e.Spacing); err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, err)
		}
	}
	if r.CliffDistance > 0 {
		s.SetCliffDistance(r.CliffDistance)
	}
	if r.MinSlope != nil && r.MaxSlope != nil {
		if err := s.SetSlopeRange(*r.MinSlope, *r.MaxSlope); err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, err)
		}
	} else if r.MinSlope != nil {
		s.SetMinSlope(*r.MinSlope)
	} else if r.MaxSlope != nil {
		s.SetMaxSlope(*r.MaxSlope)
	}
	for _, tex := range r.Textures {
		if err := s.AddTextureAffinity(tex.ID, tex.Min, tex.Max); err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, err)
		}
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("rule %q: %w", r.Name, err)
	}
	return s, nil
}

type rulesFile struct {
	Sowings []Rule `toml:"sowing"`
}

// LoadRules reads the rules stored in the TOML file at path. If the file does not exist yet, it is created holding
// DefaultRules. Every rule is validated.
func LoadRules(path string) ([]Rule, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("rules path must not be empty")
	}
	data := rulesFile{}
	contents, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read rules: %w", err)
		}
		rules := DefaultRules()
		return rules, WriteRules(path, rules)
	}
	if len(contents) != 0 {
		if err := toml.Unmarshal(contents, &data); err != nil {
			return nil, fmt.Errorf("decode rules: %w", err)
		}
	}
	for _, r := range data.Sowings {
		if _, err := r.Sowing(); err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
	}
	return data.Sowings, nil
}

// WriteRules encodes rules as TOML to the file at path, creating the parent directory if needed.
func WriteRules(path string, rules []Rule) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0777); err != nil {
			return fmt.Errorf("create rules directory: %w", err)
		}
	}
	encoded, err := toml.Marshal(rulesFile{Sowings: rules})
	if err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0644); err != nil {
		return fmt.Errorf("write rules: %w", err)
	}
	return nil
}

// DefaultRules returns the rules the editor sows with when no rules file is configured: trees on highland grass, herbs
// and rocks on grass, and rocks on rocky ground, on slopes and at the foot of cliffs. None of them sow on cliff
// texture.
func DefaultRules() []Rule {
	noCliff := TextureEntry{ID: "11", Min: 0, Max: 0}
	rock := TextureEntry{ID: "3", Min: 0.6, Max: 1}
	return []Rule{
		{
			Name:          "tree-on-cliff",
			CliffDistance: 4,
			MaxSlope:      ptr(10.0),
			Trinkets: []TrinketEntry{
				{Type: "Tree", Weight: 1, Spacing: 1.5},
				{Type: "Lun Tree", Weight: 1, Spacing: 1.5},
				{Type: "Plant", Weight: 1, Spacing: 1},
			},
			Textures: []TextureEntry{{ID: "0", Min: 0.5, Max: 1}, noCliff},
		},
		{
			Name: "grass",
			Trinkets: []TrinketEntry{
				{Type: "Tree", Weight: 1, Spacing: 2},
				{Type: "LittleRock", Weight: 10, Spacing: 0.5},
				{Type: "Herb2", Weight: 20, Spacing: 0.8},
				{Type: "Herb", Weight: 20, Spacing: 0.8},
			},
			Textures: []TextureEntry{{ID: "1", Min: 0.5, Max: 1}, noCliff},
		},
		{
			Name:     "rocks",
			Trinkets: []TrinketEntry{{Type: "LittleRock", Weight: 1, Spacing: 1.5}},
			Textures: []TextureEntry{noCliff, rock},
		},
		{
			Name:     "rocks-on-slope",
			MinSlope: ptr(20.0),
			Trinkets: []TrinketEntry{{Type: "LittleRock", Weight: 1, Spacing: 0.3}},
			Textures: []TextureEntry{noCliff, rock},
		},
		{
			Name:          "rocks-at-cliff-foot",
			CliffDistance: 3,
			Trinkets:      []TrinketEntry{{Type: "LittleRock", Weight: 1, Spacing: 0.3}},
			Textures:      []TextureEntry{noCliff, rock},
		},
	}
}

func ptr[T any](v T) *T {
	return &v
}
