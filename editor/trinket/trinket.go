package trinket

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Trinket is a single decorative object placed on the map surface, such as a tree, a rock or a herb. Pos holds the
// horizontal coordinates in its X and Y components and the altitude of the terrain in its Z component.
type Trinket struct {
	// ID uniquely identifies the trinket. It is assigned by the Registry that built it and is used as the key under
	// which the trinket is journalled.
	ID uuid.UUID
	// Type is the blueprint type the trinket was built from, for example "Tree" or "LittleRock".
	Type string
	// Model is the model name of the blueprint, handed to the scene as-is.
	Model string
	// Pos is the position of the trinket.
	Pos mgl64.Vec3
	// SeparationRadius is the radius around the trinket that other trinkets should keep clear of. It starts out as the
	// blueprint radius and is scaled by the spacing of the rule that sowed the trinket.
	SeparationRadius float64
	// Sowed is true once the trinket was accepted at its final position.
	Sowed bool
}

// Coord returns the horizontal position of the trinket.
func (t *Trinket) Coord() mgl64.Vec2 {
	return mgl64.Vec2{t.Pos[0], t.Pos[1]}
}

// SetCoord moves the trinket to the horizontal position passed, at the altitude passed.
func (t *Trinket) SetCoord(p mgl64.Vec2, altitude float64) {
	t.Pos = mgl64.Vec3{p[0], p[1], altitude}
}

// Distance returns the horizontal distance between t and other.
func (t *Trinket) Distance(other *Trinket) float64 {
	return t.Coord().Sub(other.Coord()).Len()
}

// DistanceTo returns the horizontal distance between t and the point passed.
func (t *Trinket) DistanceTo(p mgl64.Vec2) float64 {
	return t.Coord().Sub(p).Len()
}
