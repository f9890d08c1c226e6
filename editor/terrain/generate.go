package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/segmentio/fasthash/fnv1a"
)

// Texture layers painted by Generate.
const (
	TextureHighland = "0"
	TextureGrass    = "1"
	TextureRock     = "3"
	TextureCliff    = "11"
)

const (
	generateScale     = 1.0 / 48
	generateAmplitude = 48.0
	generateOctaves   = 4
	highlandHeight    = 0.55 * generateAmplitude
	cliffSlope        = 50.0
)

// Generate creates a sizeX by sizeY map with hills made from value noise. Nodes steeper than cliffSlope degrees are
// flagged as cliffs and painted with TextureCliff, steep slopes get TextureRock and flatter nodes get grass, or
// highland grass above highlandHeight. The same seed always yields the same map.
func Generate(seed int64, sizeX, sizeY int) *Map {
	m := Config{SizeX: sizeX, SizeY: sizeY}.New()
	for y := 0; y < m.sizeY; y++ {
		for x := 0; x < m.sizeX; x++ {
			n := fractalNoise(float64(x)*generateScale, float64(y)*generateScale, seed)
			// Sharpen the ridges a little so that cliffs actually appear.
			m.heights[y*m.sizeX+x] = math.Pow(n, 1.6) * generateAmplitude * 1.4
		}
	}

	grass := make([]float64, len(m.heights))
	highland := make([]float64, len(m.heights))
	rock := make([]float64, len(m.heights))
	cliff := make([]float64, len(m.heights))
	for y := 0; y < m.sizeY; y++ {
		for x := 0; x < m.sizeX; x++ {
			i := y*m.sizeX + x
			p := mgl64.Vec2{float64(x), float64(y)}
			s := m.slope(p)
			if s >= cliffSlope {
				m.cliffs[i] = true
				cliff[i] = 1
				continue
			}
			rock[i] = smoothstep(15, 35, s)
			if m.heights[i] > highlandHeight {
				highland[i] = 1 - rock[i]
			} else {
				grass[i] = 1 - rock[i]
			}
		}
	}
	m.textures[TextureGrass] = grass
	m.textures[TextureHighland] = highland
	m.textures[TextureRock] = rock
	m.textures[TextureCliff] = cliff
	m.cliffDirty = true
	return m
}

func fractalNoise(x, y float64, seed int64) float64 {
	amplitude, frequency := 1.0, 1.0
	sum, norm := 0.0, 0.0
	for i := 0; i < generateOctaves; i++ {
		sum += valueNoise(x*frequency, y*frequency, seed+int64(i)*131) * amplitude
		norm += amplitude
		amplitude *= 0.5
		frequency *= 2
	}
	return sum / norm
}

func valueNoise(x, y float64, seed int64) float64 {
	x0, y0 := math.Floor(x), math.Floor(y)
	fx, fy := fade(x-x0), fade(y-y0)

	v00 := lattice(int64(x0), int64(y0), seed)
	v10 := lattice(int64(x0)+1, int64(y0), seed)
	v01 := lattice(int64(x0), int64(y0)+1, seed)
	v11 := lattice(int64(x0)+1, int64(y0)+1, seed)
	return lerp(lerp(v00, v10, fx), lerp(v01, v11, fx), fy)
}

// lattice hashes a lattice point to [0, 1]. The FNV-1a hash of the point is passed through a SplitMix64 finaliser to
// spread its low bits.
func lattice(x, y, seed int64) float64 {
	v := fnv1a.AddUint64(fnv1a.AddUint64(fnv1a.HashUint64(uint64(seed)), uint64(x)), uint64(y))
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v ^= v >> 31
	return float64(v&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := mgl64.Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}
