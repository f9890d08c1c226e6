package terrain

import (
	"math"
	"sync"

	"github.com/brentp/intintmap"
	"github.com/df-mc/sower/editor/trinket"
	"github.com/go-gl/mathgl/mgl64"
)

// grid is a uniform grid spatial index over trinkets. Cells are addressed by a packed int64 key which maps to the index
// of the cell's bucket.
type grid struct {
	mu      sync.RWMutex
	cell    float64
	slots   *intintmap.Map
	buckets [][]*trinket.Trinket
	count   int
}

func newGrid(cell float64) *grid {
	return &grid{cell: cell, slots: intintmap.New(256, 0.6)}
}

func cellKey(cx, cy int32) int64 {
	return int64(cx)<<32 | int64(uint32(cy))
}

func (g *grid) cellOf(p mgl64.Vec2) (int32, int32) {
	return int32(math.Floor(p[0] / g.cell)), int32(math.Floor(p[1] / g.cell))
}

func (g *grid) insert(t *trinket.Trinket) {
	key := cellKey(g.cellOf(t.Coord()))

	g.mu.Lock()
	defer g.mu.Unlock()
	slot, ok := g.slots.Get(key)
	if !ok {
		slot = int64(len(g.buckets))
		g.buckets = append(g.buckets, nil)
		g.slots.Put(key, slot)
	}
	g.buckets[slot] = append(g.buckets[slot], t)
	g.count++
}

func (g *grid) within(p mgl64.Vec2, radius float64) []*trinket.Trinket {
	minX, minY := g.cellOf(p.Sub(mgl64.Vec2{radius, radius}))
	maxX, maxY := g.cellOf(p.Add(mgl64.Vec2{radius, radius}))

	g.mu.RLock()
	defer g.mu.RUnlock()
	var found []*trinket.Trinket
	for cx := minX; cx <= maxX; cx++ {
		for cy := minY; cy <= maxY; cy++ {
			slot, ok := g.slots.Get(cellKey(cx, cy))
			if !ok {
				continue
			}
			for _, t := range g.buckets[slot] {
				if t.DistanceTo(p) <= radius {
					found = append(found, t)
				}
			}
		}
	}
	return found
}

func (g *grid) all() []*trinket.Trinket {
	g.mu.RLock()
	defer g.mu.RUnlock()
	all := make([]*trinket.Trinket, 0, g.count)
	for _, bucket := range g.buckets {
		all = append(all, bucket...)
	}
	return all
}

func (g *grid) size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.count
}
