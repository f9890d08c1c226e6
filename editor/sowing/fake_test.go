package sowing

import (
	"errors"
	"math"
	"sync"

	"github.com/df-mc/sower/editor/trinket"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// fakeTerrain is a flat terrain with fixed properties everywhere.
type fakeTerrain struct {
	mu       sync.Mutex
	sizeX    float64
	sizeY    float64
	cliff    float64
	slope    float64
	textures map[string]float64
	trinkets []*trinket.Trinket
}

func newFakeTerrain(size float64) *fakeTerrain {
	return &fakeTerrain{sizeX: size, sizeY: size, cliff: math.Inf(1), textures: map[string]float64{}}
}

func (f *fakeTerrain) Size() (float64, float64)           { return f.sizeX, f.sizeY }
func (f *fakeTerrain) AltitudeAt(mgl64.Vec2) float64      { return 0 }
func (f *fakeTerrain) SlopeAt(mgl64.Vec2) float64         { return f.slope }
func (f *fakeTerrain) CliffDistanceAt(mgl64.Vec2) float64 { return f.cliff }

func (f *fakeTerrain) TextureWeightAt(_ mgl64.Vec2, texture string) float64 {
	return f.textures[texture]
}

func (f *fakeTerrain) InBounds(p mgl64.Vec2) bool {
	return p[0] >= 0 && p[1] >= 0 && p[0] < f.sizeX-1 && p[1] < f.sizeY-1
}

func (f *fakeTerrain) TrinketsWithin(p mgl64.Vec2, radius float64) []*trinket.Trinket {
	f.mu.Lock()
	defer f.mu.Unlock()
	var found []*trinket.Trinket
	for _, t := range f.trinkets {
		if t.DistanceTo(p) <= radius {
			found = append(found, t)
		}
	}
	return found
}

func (f *fakeTerrain) SeparationDistance(a, b *trinket.Trinket) float64 {
	return a.SeparationRadius + b.SeparationRadius
}

func (f *fakeTerrain) Attach(t *trinket.Trinket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trinkets = append(f.trinkets, t)
	return nil
}

func (f *fakeTerrain) add(typ string, p mgl64.Vec2, radius float64) *trinket.Trinket {
	t := &trinket.Trinket{ID: uuid.New(), Type: typ, Pos: mgl64.Vec3{p[0], p[1], 0}, SeparationRadius: radius, Sowed: true}
	f.mu.Lock()
	f.trinkets = append(f.trinkets, t)
	f.mu.Unlock()
	return t
}

// countingBuilder builds trinkets with radius 1 and counts the calls made.
type countingBuilder struct {
	mu     sync.Mutex
	builds int
	fail   error
	panics bool
}

func (b *countingBuilder) Build(typ string, pos mgl64.Vec3) (*trinket.Trinket, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.builds++
	if b.panics {
		panic("builder exploded")
	}
	if b.fail != nil {
		return nil, b.fail
	}
	return &trinket.Trinket{ID: uuid.New(), Type: typ, Model: typ, Pos: pos, SeparationRadius: 1}, nil
}

func (b *countingBuilder) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.builds
}

func (b *countingBuilder) setPanics(v bool) {
	b.mu.Lock()
	b.panics = v
	b.mu.Unlock()
}

var errBuild = errors.New("build failed")
