package terrain

import (
	"errors"
	"math"
	"testing"

	"github.com/df-mc/sower/editor/trinket"
	"github.com/go-gl/mathgl/mgl64"
)

func TestAltitudeInterpolatesBetweenNodes(t *testing.T) {
	m := Config{SizeX: 4, SizeY: 4}.New()
	m.SetAltitude(1, 1, 10)
	m.SetAltitude(2, 1, 20)
	m.SetAltitude(1, 2, 10)
	m.SetAltitude(2, 2, 20)

	if got := m.AltitudeAt(mgl64.Vec2{1.5, 1.5}); math.Abs(got-15) > 1e-9 {
		t.Fatalf("expected altitude 15 between nodes, got %v", got)
	}
	if got := m.AltitudeAt(mgl64.Vec2{2, 1}); got != 20 {
		t.Fatalf("expected altitude 20 on node, got %v", got)
	}
}

func TestSlopeOfInclinedPlane(t *testing.T) {
	m := Config{SizeX: 8, SizeY: 8}.New()
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			m.SetAltitude(x, y, float64(x))
		}
	}
	if got := m.SlopeAt(mgl64.Vec2{3.2, 4.1}); math.Abs(got-45) > 1e-6 {
		t.Fatalf("expected a 45 degree slope, got %v", got)
	}

	flat := Config{SizeX: 8, SizeY: 8}.New()
	if got := flat.SlopeAt(mgl64.Vec2{3, 3}); got != 0 {
		t.Fatalf("expected flat map to have slope 0, got %v", got)
	}
}

func TestTextureWeightUsesNearestNode(t *testing.T) {
	m := Config{SizeX: 4, SizeY: 4}.New()
	m.SetTextureWeight("3", 2, 2, 1.7)

	if got := m.TextureWeightAt(mgl64.Vec2{2.2, 1.9}, "3"); got != 1 {
		t.Fatalf("expected clamped weight 1, got %v", got)
	}
	if got := m.TextureWeightAt(mgl64.Vec2{0, 0}, "3"); got != 0 {
		t.Fatalf("expected weight 0 away from painted node, got %v", got)
	}
	if got := m.TextureWeightAt(mgl64.Vec2{2, 2}, "unknown"); got != 0 {
		t.Fatalf("expected weight 0 for unknown layer, got %v", got)
	}
}

func TestCliffDistance(t *testing.T) {
	m := Config{SizeX: 16, SizeY: 16}.New()
	if got := m.CliffDistanceAt(mgl64.Vec2{4, 4}); !math.IsInf(got, 1) {
		t.Fatalf("expected infinite cliff distance without cliffs, got %v", got)
	}

	m.SetCliff(8, 8, true)
	if got := m.CliffDistanceAt(mgl64.Vec2{8, 8}); got != 0 {
		t.Fatalf("expected distance 0 on cliff, got %v", got)
	}
	if got := m.CliffDistanceAt(mgl64.Vec2{8, 12}); got != 4 {
		t.Fatalf("expected straight distance 4, got %v", got)
	}
	if got := m.CliffDistanceAt(mgl64.Vec2{10, 10}); math.Abs(got-2*math.Sqrt2) > 1e-9 {
		t.Fatalf("expected diagonal distance %v, got %v", 2*math.Sqrt2, got)
	}

	m.SetCliff(8, 8, false)
	if got := m.CliffDistanceAt(mgl64.Vec2{8, 8}); !math.IsInf(got, 1) {
		t.Fatalf("expected distance field to be recomputed after clearing cliff, got %v", got)
	}
}

func TestInBounds(t *testing.T) {
	m := Config{SizeX: 10, SizeY: 5}.New()
	cases := []struct {
		p  mgl64.Vec2
		in bool
	}{
		{mgl64.Vec2{0, 0}, true},
		{mgl64.Vec2{8.99, 3.99}, true},
		{mgl64.Vec2{9, 1}, false},
		{mgl64.Vec2{1, 4}, false},
		{mgl64.Vec2{-0.01, 1}, false},
	}
	for _, c := range cases {
		if got := m.InBounds(c.p); got != c.in {
			t.Fatalf("InBounds(%v) = %v, expected %v", c.p, got, c.in)
		}
	}
}

func TestTrinketsWithinAcrossCells(t *testing.T) {
	m := Config{SizeX: 64, SizeY: 64, CellSize: 4}.New()
	near := &trinket.Trinket{Type: "Tree", Pos: mgl64.Vec3{10, 10, 0}, SeparationRadius: 1}
	edge := &trinket.Trinket{Type: "Tree", Pos: mgl64.Vec3{13, 14, 0}, SeparationRadius: 1}
	far := &trinket.Trinket{Type: "Tree", Pos: mgl64.Vec3{40, 40, 0}, SeparationRadius: 1}
	for _, tr := range []*trinket.Trinket{near, edge, far} {
		if err := m.Attach(tr); err != nil {
			t.Fatalf("attach: %v", err)
		}
	}
	if got := m.Count(); got != 3 {
		t.Fatalf("expected 3 trinkets, got %d", got)
	}

	found := m.TrinketsWithin(mgl64.Vec2{10, 10}, 5)
	if len(found) != 2 {
		t.Fatalf("expected 2 trinkets within radius 5, got %d", len(found))
	}
	for _, tr := range found {
		if tr == far {
			t.Fatalf("far trinket must not be returned")
		}
	}
	if got := len(m.Trinkets()); got != 3 {
		t.Fatalf("expected Trinkets to return 3 trinkets, got %d", got)
	}
}

func TestAttachOutOfBounds(t *testing.T) {
	m := Config{SizeX: 8, SizeY: 8}.New()
	err := m.Attach(&trinket.Trinket{Pos: mgl64.Vec3{20, 1, 0}})
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	if m.Count() != 0 {
		t.Fatalf("expected no trinket to be attached")
	}
}

func TestSeparationDistanceSumsRadii(t *testing.T) {
	m := Config{SizeX: 4, SizeY: 4}.New()
	a := &trinket.Trinket{SeparationRadius: 1}
	b := &trinket.Trinket{SeparationRadius: 1.5}
	if got := m.SeparationDistance(a, b); got != 2.5 {
		t.Fatalf("expected separation 2.5, got %v", got)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate(7, 64, 64)
	b := Generate(7, 64, 64)
	for _, p := range []mgl64.Vec2{{3, 5}, {30.5, 12.25}, {62, 62}} {
		if a.AltitudeAt(p) != b.AltitudeAt(p) {
			t.Fatalf("expected identical altitude at %v for identical seeds", p)
		}
		var sum float64
		for _, tex := range []string{TextureGrass, TextureHighland, TextureRock, TextureCliff} {
			w := a.TextureWeightAt(p, tex)
			if w < 0 || w > 1 {
				t.Fatalf("texture %v weight %v out of range at %v", tex, w, p)
			}
			sum += w
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Fatalf("expected texture weights to sum to 1 at %v, got %v", p, sum)
		}
	}
}
