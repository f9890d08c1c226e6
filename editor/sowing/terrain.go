package sowing

import (
	"github.com/df-mc/sower/editor/trinket"
	"github.com/go-gl/mathgl/mgl64"
)

// Terrain answers the queries the sower makes about the map it sows on. Implementations must be safe for use by the
// sower's worker while other goroutines read from or commit to the map.
type Terrain interface {
	// Size returns the extents of the map.
	Size() (x, y float64)
	// AltitudeAt returns the height of the terrain at p.
	AltitudeAt(p mgl64.Vec2) float64
	// SlopeAt returns the steepness of the terrain at p in degrees.
	SlopeAt(p mgl64.Vec2) float64
	// TextureWeightAt returns the weight in [0, 1] of a texture at p.
	TextureWeightAt(p mgl64.Vec2, texture string) float64
	// CliffDistanceAt returns the distance from p to the closest cliff edge.
	CliffDistanceAt(p mgl64.Vec2) float64
	// InBounds reports if p lies on the map.
	InBounds(p mgl64.Vec2) bool
	// TrinketsWithin returns the trinkets on the map within radius of p.
	TrinketsWithin(p mgl64.Vec2, radius float64) []*trinket.Trinket
	// SeparationDistance returns the minimum distance allowed between the centres of a and b.
	SeparationDistance(a, b *trinket.Trinket) float64
}

// Builder builds trinkets from their type name.
type Builder interface {
	Build(typ string, pos mgl64.Vec3) (*trinket.Trinket, error)
}

// Scene is the live scene that sowed trinkets are committed into. Attach is called exactly once for every trinket the
// sower accepts, while holding the lock passed in Config.Lock.
type Scene interface {
	Attach(t *trinket.Trinket) error
}
