package sowing

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/df-mc/sower/editor/trinket"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// growSearchRadius is the radius around a seed in which neighbours are collected before growing from it.
	growSearchRadius = 20
	// growSpecAttempts is the amount of specs tried per growth call.
	growSpecAttempts = 10
	// growPlaceAttempts is the amount of locations tried per spec.
	growPlaceAttempts = 30
)

// Grow attempts to sow a trinket next to a seed picked from the growth pool, at a distance between one and two times
// the separation distance of the pair. If growSpecAttempts specs with growPlaceAttempts locations each all fail, the
// seed is considered surrounded and is evicted from the pool for good.
//
// Neighbours of the seed are queried once per call and reused for every attempt, so trinkets committed elsewhere during
// the call are not seen.
func (s *Sowing) Grow(t Terrain, b Builder, r *rand.Rand) Outcome {
	if len(s.pool) == 0 {
		return Outcome{Result: Idle}
	}
	i := r.IntN(len(s.pool))
	seed := s.pool[i]
	origin := seed.Coord()
	neighbours := t.TrinketsWithin(origin, growSearchRadius)

	for range growSpecAttempts {
		spec, err := s.PickSpec(r)
		if err != nil {
			return Outcome{Result: Fault, Err: fmt.Errorf("grow %v: %w", s.name, err)}
		}
		candidate, err := b.Build(spec.Type, mgl64.Vec3{})
		if err != nil {
			return Outcome{Result: Fault, Err: fmt.Errorf("grow %v: %w", s.name, err)}
		}
		candidate.SeparationRadius *= spec.Spacing

		for range growPlaceAttempts {
			d := t.SeparationDistance(seed, candidate)
			angle := r.Float64() * 2 * math.Pi
			dist := d + r.Float64()*d
			p := origin.Add(mgl64.Vec2{math.Cos(angle) * dist, math.Sin(angle) * dist})
			if !t.InBounds(p) || !s.Allowed(t, p) {
				continue
			}
			if overlaps(t, neighbours, candidate, p) {
				continue
			}
			candidate.SetCoord(p, t.AltitudeAt(p))
			s.sow(candidate)
			return Outcome{Result: Grown, Trinket: candidate}
		}
	}
	s.evict(i)
	return Outcome{Result: Evicted, Trinket: seed}
}

// overlaps reports if a candidate placed at p would lie closer to any of the neighbours than their separation distance.
func overlaps(t Terrain, neighbours []*trinket.Trinket, candidate *trinket.Trinket, p mgl64.Vec2) bool {
	for _, n := range neighbours {
		if n.DistanceTo(p) < t.SeparationDistance(n, candidate) {
			return true
		}
	}
	return false
}
