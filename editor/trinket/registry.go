package trinket

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

var (
	// ErrUnknownType is returned when a trinket is built from a type that has no blueprint registered.
	ErrUnknownType = errors.New("unknown trinket type")
	// ErrInvalidBlueprint is returned when registering a blueprint with an empty type or a radius that is not positive.
	ErrInvalidBlueprint = errors.New("invalid blueprint")
)

// Blueprint describes how trinkets of a single type are built.
type Blueprint struct {
	// Type is the name rules refer to the blueprint by.
	Type string `toml:"type"`
	// Radius is the base separation radius of trinkets built from the blueprint, before the spacing of a rule is
	// applied.
	Radius float64 `toml:"radius"`
	// Model is the name of the model the scene should render. If empty, the type is used.
	Model string `toml:"model"`
}

// Registry holds the blueprints trinkets may be built from. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	blueprints map[string]Blueprint
}

// NewRegistry returns a Registry with the blueprints passed registered. Invalid blueprints are ignored.
func NewRegistry(blueprints ...Blueprint) *Registry {
	r := &Registry{blueprints: make(map[string]Blueprint, len(blueprints))}
	for _, bp := range blueprints {
		_ = r.Register(bp)
	}
	return r
}

// Register adds a blueprint to the registry, replacing any blueprint with the same type.
func (r *Registry) Register(bp Blueprint) error {
	bp.Type = strings.TrimSpace(bp.Type)
	if bp.Type == "" {
		return fmt.Errorf("%w: empty type", ErrInvalidBlueprint)
	}
	if bp.Radius <= 0 {
		return fmt.Errorf("%w: %q has radius %v", ErrInvalidBlueprint, bp.Type, bp.Radius)
	}
	if bp.Model == "" {
		bp.Model = bp.Type
	}
	r.mu.Lock()
	r.blueprints[bp.Type] = bp
	r.mu.Unlock()
	return nil
}

// Has reports if a blueprint is registered for the type passed.
func (r *Registry) Has(typ string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.blueprints[typ]
	return ok
}

// Types returns the sorted list of registered types.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.blueprints))
	for typ := range r.blueprints {
		types = append(types, typ)
	}
	slices.Sort(types)
	return types
}

// Build creates a new trinket of the type passed at pos. The trinket gets a fresh ID and the base radius of its
// blueprint.
func (r *Registry) Build(typ string, pos mgl64.Vec3) (*Trinket, error) {
	r.mu.RLock()
	bp, ok := r.blueprints[typ]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("build %q: %w", typ, ErrUnknownType)
	}
	return &Trinket{
		ID:               uuid.New(),
		Type:             bp.Type,
		Model:            bp.Model,
		Pos:              pos,
		SeparationRadius: bp.Radius,
	}, nil
}

// DefaultBlueprints returns the blueprints of every trinket type the default sowing rules refer to.
func DefaultBlueprints() []Blueprint {
	return []Blueprint{
		{Type: "Tree", Radius: 1, Model: "models/trinkets/tree.mesh"},
		{Type: "Lun Tree", Radius: 1, Model: "models/trinkets/lun_tree.mesh"},
		{Type: "Plant", Radius: 0.6, Model: "models/trinkets/plant.mesh"},
		{Type: "LittleRock", Radius: 0.5, Model: "models/trinkets/little_rock.mesh"},
		{Type: "Herb", Radius: 0.3, Model: "models/trinkets/herb.mesh"},
		{Type: "Herb2", Radius: 0.3, Model: "models/trinkets/herb2.mesh"},
	}
}
