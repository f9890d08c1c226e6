package sowing

import (
	"fmt"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// placeSearchRadius is the radius around a cold placement candidate in which neighbours are checked for overlap.
const placeSearchRadius = 10

// Place attempts to sow one new trinket at a location drawn uniformly from the map. It makes a single attempt: a
// location failing a constraint or a candidate overlapping a neighbour simply yields no trinket. The builder is only
// called for locations that pass every constraint.
func (s *Sowing) Place(t Terrain, b Builder, r *rand.Rand) Outcome {
	sizeX, sizeY := t.Size()
	p := mgl64.Vec2{r.Float64() * (sizeX - 1), r.Float64() * (sizeY - 1)}
	if !s.Allowed(t, p) {
		return Outcome{Result: Disallowed}
	}

	spec, err := s.PickSpec(r)
	if err != nil {
		return Outcome{Result: Fault, Err: fmt.Errorf("place %v: %w", s.name, err)}
	}
	candidate, err := b.Build(spec.Type, mgl64.Vec3{p[0], p[1], t.AltitudeAt(p)})
	if err != nil {
		return Outcome{Result: Fault, Err: fmt.Errorf("place %v: %w", s.name, err)}
	}
	candidate.SeparationRadius *= spec.Spacing

	for _, n := range t.TrinketsWithin(p, placeSearchRadius) {
		if n.Distance(candidate) < t.SeparationDistance(n, candidate) {
			return Outcome{Result: Overlap}
		}
	}
	s.sow(candidate)
	return Outcome{Result: Placed, Trinket: candidate}
}
