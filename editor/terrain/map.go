package terrain

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/df-mc/sower/editor/trinket"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrOutOfBounds is returned when attaching a trinket outside the map.
var ErrOutOfBounds = errors.New("position out of map bounds")

// Config holds the options used to create a Map.
type Config struct {
	// SizeX and SizeY are the amount of height nodes along each axis. Nodes are one map unit apart. Values below 2 are
	// raised to 2.
	SizeX, SizeY int
	// CellSize is the edge length of the cells of the spatial index used for neighbour queries. If 0 or lower, 8 is
	// used.
	CellSize float64
}

// New creates a flat Map with no textures and no cliffs using the Config.
func (conf Config) New() *Map {
	if conf.SizeX < 2 {
		conf.SizeX = 2
	}
	if conf.SizeY < 2 {
		conf.SizeY = 2
	}
	if conf.CellSize <= 0 {
		conf.CellSize = 8
	}
	n := conf.SizeX * conf.SizeY
	return &Map{
		sizeX:      conf.SizeX,
		sizeY:      conf.SizeY,
		heights:    make([]float64, n),
		cliffs:     make([]bool, n),
		cliffDirty: true,
		textures:   make(map[string][]float64),
		index:      newGrid(conf.CellSize),
	}
}

// Map is an in-memory height map holding texture layers, cliff flags and the trinkets attached to it. All methods are
// safe for simultaneous use.
type Map struct {
	sizeX, sizeY int

	// scene is held by whoever commits trinkets into the map, see Locker.
	scene sync.Mutex

	mu         sync.RWMutex
	heights    []float64
	cliffs     []bool
	cliffDist  []float64
	cliffDirty bool
	textures   map[string][]float64

	index *grid
}

// Size returns the extents of the map in map units.
func (m *Map) Size() (x, y float64) {
	return float64(m.sizeX), float64(m.sizeY)
}

// Locker returns the lock guarding the scene. Commits of new trinkets are made while holding it.
func (m *Map) Locker() sync.Locker {
	return &m.scene
}

// InBounds reports if p lies inside the map. The last row and column of nodes are excluded so that every in-bounds
// point has four surrounding nodes.
func (m *Map) InBounds(p mgl64.Vec2) bool {
	return p[0] >= 0 && p[1] >= 0 && p[0] < float64(m.sizeX-1) && p[1] < float64(m.sizeY-1)
}

// AltitudeAt returns the bilinearly interpolated terrain height at p.
func (m *Map) AltitudeAt(p mgl64.Vec2) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.altitude(p)
}

// SlopeAt returns the steepness of the terrain at p in degrees.
func (m *Map) SlopeAt(p mgl64.Vec2) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.slope(p)
}

// TextureWeightAt returns the weight in [0, 1] of the texture layer passed at the node closest to p. Unknown layers
// have a weight of 0 everywhere.
func (m *Map) TextureWeightAt(p mgl64.Vec2, texture string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	layer, ok := m.textures[texture]
	if !ok {
		return 0
	}
	return layer[m.nearest(p)]
}

// CliffDistanceAt returns the distance from the node closest to p to the nearest cliff node, or +Inf if the map has no
// cliffs.
func (m *Map) CliffDistanceAt(p mgl64.Vec2) float64 {
	m.mu.RLock()
	if !m.cliffDirty {
		d := m.cliffDist[m.nearest(p)]
		m.mu.RUnlock()
		return d
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cliffDirty {
		m.cliffDist = chamfer(m.cliffs, m.sizeX, m.sizeY)
		m.cliffDirty = false
	}
	return m.cliffDist[m.nearest(p)]
}

// SetAltitude sets the height of the node at (x, y). Nodes outside the map are ignored.
func (m *Map) SetAltitude(x, y int, height float64) {
	if !m.node(x, y) {
		return
	}
	m.mu.Lock()
	m.heights[y*m.sizeX+x] = height
	m.mu.Unlock()
}

// SetCliff flags the node at (x, y) as part of a cliff or clears the flag.
func (m *Map) SetCliff(x, y int, cliff bool) {
	if !m.node(x, y) {
		return
	}
	m.mu.Lock()
	m.cliffs[y*m.sizeX+x] = cliff
	m.cliffDirty = true
	m.mu.Unlock()
}

// SetTextureWeight sets the weight of a texture layer at the node (x, y), creating the layer if needed. The weight is
// clamped to [0, 1].
func (m *Map) SetTextureWeight(texture string, x, y int, weight float64) {
	if !m.node(x, y) {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	layer, ok := m.textures[texture]
	if !ok {
		layer = make([]float64, m.sizeX*m.sizeY)
		m.textures[texture] = layer
	}
	layer[y*m.sizeX+x] = mgl64.Clamp(weight, 0, 1)
}

// TrinketsWithin returns all trinkets attached to the map whose position lies within radius of p.
func (m *Map) TrinketsWithin(p mgl64.Vec2, radius float64) []*trinket.Trinket {
	return m.index.within(p, radius)
}

// SeparationDistance returns the minimum distance allowed between the centres of a and b: the sum of their separation
// radii.
func (m *Map) SeparationDistance(a, b *trinket.Trinket) float64 {
	return a.SeparationRadius + b.SeparationRadius
}

// Attach commits a trinket into the map, making it visible to neighbour queries.
func (m *Map) Attach(t *trinket.Trinket) error {
	if t == nil {
		return errors.New("attach: nil trinket")
	}
	if !m.InBounds(t.Coord()) {
		return fmt.Errorf("attach %v at %v: %w", t.Type, t.Coord(), ErrOutOfBounds)
	}
	m.index.insert(t)
	return nil
}

// Trinkets returns every trinket attached to the map.
func (m *Map) Trinkets() []*trinket.Trinket {
	return m.index.all()
}

// Count returns the amount of trinkets attached to the map.
func (m *Map) Count() int {
	return m.index.size()
}

func (m *Map) node(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.sizeX && y < m.sizeY
}

func (m *Map) nearest(p mgl64.Vec2) int {
	x := clampInt(int(math.Round(p[0])), 0, m.sizeX-1)
	y := clampInt(int(math.Round(p[1])), 0, m.sizeY-1)
	return y*m.sizeX + x
}

func (m *Map) altitude(p mgl64.Vec2) float64 {
	x := mgl64.Clamp(p[0], 0, float64(m.sizeX-1))
	y := mgl64.Clamp(p[1], 0, float64(m.sizeY-1))
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	x1, y1 := min(x0+1, m.sizeX-1), min(y0+1, m.sizeY-1)
	fx, fy := x-float64(x0), y-float64(y0)

	h00 := m.heights[y0*m.sizeX+x0]
	h10 := m.heights[y0*m.sizeX+x1]
	h01 := m.heights[y1*m.sizeX+x0]
	h11 := m.heights[y1*m.sizeX+x1]
	return lerp(lerp(h00, h10, fx), lerp(h01, h11, fx), fy)
}

const slopeStep = 0.5

func (m *Map) slope(p mgl64.Vec2) float64 {
	gx := (m.altitude(p.Add(mgl64.Vec2{slopeStep, 0})) - m.altitude(p.Sub(mgl64.Vec2{slopeStep, 0}))) / (2 * slopeStep)
	gy := (m.altitude(p.Add(mgl64.Vec2{0, slopeStep})) - m.altitude(p.Sub(mgl64.Vec2{0, slopeStep}))) / (2 * slopeStep)
	return mgl64.RadToDeg(math.Atan(math.Hypot(gx, gy)))
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
