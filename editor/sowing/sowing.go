package sowing

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/df-mc/sower/editor/trinket"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrEmptySowing is returned when a Sowing has no trinket types to sow.
	ErrEmptySowing = errors.New("sowing has no trinket types")
	// ErrInvalidSpec is returned when registering a trinket type with a weight below 1 or a spacing that is not
	// positive.
	ErrInvalidSpec = errors.New("invalid trinket spec")
	// ErrInvalidRange is returned for a constraint range whose minimum exceeds its maximum.
	ErrInvalidRange = errors.New("invalid constraint range")
)

// ObjectSpec is a trinket type a Sowing may sow, together with the factor its separation radius is scaled by.
type ObjectSpec struct {
	Type    string
	Spacing float64
}

type textureAffinity struct {
	texture  string
	min, max float64
}

// Sowing is a placement rule: it holds the trinket types to sow, the constraints a location must meet to receive one,
// and the pool of trinkets sowed by the rule that may still seed growth.
//
// A Sowing is not safe for simultaneous use. Once handed to a Sower, it is owned by the Sower's worker.
type Sowing struct {
	name  string
	specs []ObjectSpec

	cliffDistance float64
	hasCliff      bool

	minSlope, maxSlope       float64
	hasMinSlope, hasMaxSlope bool

	textures []textureAffinity

	pool []*trinket.Trinket
}

// New returns an empty, unconstrained Sowing with the name passed.
func New(name string) *Sowing {
	return &Sowing{name: name}
}

// Name returns the name of the Sowing.
func (s *Sowing) Name() string {
	return s.name
}

// RegisterType adds weight copies of the trinket type to the spec sequence, so that it is picked weight times as often
// as a type registered with weight 1.
func (s *Sowing) RegisterType(typ string, weight int, spacing float64) error {
	if typ == "" {
		return fmt.Errorf("%w: empty type", ErrInvalidSpec)
	}
	if weight < 1 {
		return fmt.Errorf("%w: %q has weight %d", ErrInvalidSpec, typ, weight)
	}
	if spacing <= 0 {
		return fmt.Errorf("%w: %q has spacing %v", ErrInvalidSpec, typ, spacing)
	}
	for i := 0; i < weight; i++ {
		s.specs = append(s.specs, ObjectSpec{Type: typ, Spacing: spacing})
	}
	return nil
}

// SetCliffDistance requires locations to be at least d away from a cliff.
func (s *Sowing) SetCliffDistance(d float64) {
	s.cliffDistance, s.hasCliff = d, true
}

// SetSlopeRange requires the slope of locations to lie in [min, max] degrees.
func (s *Sowing) SetSlopeRange(min, max float64) error {
	if min > max {
		return fmt.Errorf("%w: slope [%v, %v]", ErrInvalidRange, min, max)
	}
	s.SetMinSlope(min)
	s.SetMaxSlope(max)
	return nil
}

// SetMinSlope requires the slope of locations to be at least min degrees.
func (s *Sowing) SetMinSlope(min float64) {
	s.minSlope, s.hasMinSlope = min, true
}

// SetMaxSlope requires the slope of locations to be at most max degrees.
func (s *Sowing) SetMaxSlope(max float64) {
	s.maxSlope, s.hasMaxSlope = max, true
}

// AddTextureAffinity requires the weight of a texture at locations to lie in [min, max]. Affinities for several
// textures must all hold.
func (s *Sowing) AddTextureAffinity(texture string, min, max float64) error {
	if min > max {
		return fmt.Errorf("%w: texture %q [%v, %v]", ErrInvalidRange, texture, min, max)
	}
	s.textures = append(s.textures, textureAffinity{texture: texture, min: min, max: max})
	return nil
}

// Specs returns a copy of the spec sequence.
func (s *Sowing) Specs() []ObjectSpec {
	return slices.Clone(s.specs)
}

// Validate returns ErrEmptySowing if no trinket type was registered.
func (s *Sowing) Validate() error {
	if len(s.specs) == 0 {
		return ErrEmptySowing
	}
	return nil
}

// Allowed reports if every constraint of the Sowing holds at p. A Sowing without constraints allows every location.
func (s *Sowing) Allowed(t Terrain, p mgl64.Vec2) bool {
	if s.hasCliff && t.CliffDistanceAt(p) < s.cliffDistance {
		return false
	}
	if s.hasMinSlope || s.hasMaxSlope {
		slope := t.SlopeAt(p)
		if s.hasMinSlope && slope < s.minSlope {
			return false
		}
		if s.hasMaxSlope && slope > s.maxSlope {
			return false
		}
	}
	for _, tex := range s.textures {
		w := t.TextureWeightAt(p, tex.texture)
		if w < tex.min || w > tex.max {
			return false
		}
	}
	return true
}

// PickSpec returns a spec chosen uniformly from the spec sequence.
func (s *Sowing) PickSpec(r *rand.Rand) (ObjectSpec, error) {
	if len(s.specs) == 0 {
		return ObjectSpec{}, ErrEmptySowing
	}
	return s.specs[r.IntN(len(s.specs))], nil
}

// PoolSize returns the amount of trinkets that may still seed growth.
func (s *Sowing) PoolSize() int {
	return len(s.pool)
}

// Pool returns a copy of the growth pool.
func (s *Sowing) Pool() []*trinket.Trinket {
	return slices.Clone(s.pool)
}

// sow marks t as sowed and adds it to the growth pool.
func (s *Sowing) sow(t *trinket.Trinket) {
	t.Sowed = true
	s.pool = append(s.pool, t)
}

// evict removes the trinket at index i from the growth pool. The order of the pool is not preserved.
func (s *Sowing) evict(i int) {
	last := len(s.pool) - 1
	s.pool[i] = s.pool[last]
	s.pool[last] = nil
	s.pool = s.pool[:last]
}

// discard removes t from the growth pool if present and clears its sowed flag. It is used when a sowed trinket could
// not be committed to the scene.
func (s *Sowing) discard(t *trinket.Trinket) {
	t.Sowed = false
	for i := len(s.pool) - 1; i >= 0; i-- {
		if s.pool[i] == t {
			s.evict(i)
			return
		}
	}
}
