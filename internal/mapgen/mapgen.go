// Package mapgen grows procedural terrain for the sandbox: a grid of box props whose heights
// follow fractal value noise.
package mapgen

import (
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"sandbox-engine/internal/gamemap"
)

// TerrainColor tints generated tiles.
const TerrainColor = "#5B7F3A"

// minHeight keeps the flattest tile visible above the ground plane.
const minHeight = 0.15

// Options controls terrain generation.
// Width/Depth are in tiles; TileSize is the world size of one tile on X/Z.
// HeightScale is the tallest a tile may grow. Seed == 0 uses a time-based seed.
// Octaves, Frequency, Lacunarity, and Gain shape the noise.
type Options struct {
	Width       int
	Depth       int
	TileSize    float32
	HeightScale float32

	Seed       int64
	Octaves    int
	Frequency  float32
	Lacunarity float32
	Gain       float32
}

// DefaultOptions returns a 32x32 field of unit tiles up to 3 units tall.
func DefaultOptions() Options {
	return Options{
		Width:       32,
		Depth:       32,
		TileSize:    1,
		HeightScale: 3,
		Octaves:     4,
		Frequency:   0.08,
		Lacunarity:  2,
		Gain:        0.5,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.TileSize <= 0 {
		o.TileSize = d.TileSize
	}
	if o.HeightScale <= minHeight {
		o.HeightScale = d.HeightScale
	}
	if o.Octaves <= 0 {
		o.Octaves = 1
	}
	if o.Frequency <= 0 {
		o.Frequency = d.Frequency
	}
	if o.Lacunarity <= 0 {
		o.Lacunarity = d.Lacunarity
	}
	if o.Gain <= 0 {
		o.Gain = d.Gain
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	return o
}

// Tiles returns one box prop per tile, resting on Y=0 and centered on the origin in XZ.
// The same non-zero seed always yields the same terrain.
func Tiles(opts Options) []gamemap.Prop {
	if opts.Width <= 0 || opts.Depth <= 0 {
		return nil
	}
	opts = opts.normalized()

	half := opts.TileSize * 0.5
	startX := -float32(opts.Width)*half + half
	startZ := -float32(opts.Depth)*half + half

	out := make([]gamemap.Prop, 0, opts.Width*opts.Depth)
	for z := 0; z < opts.Depth; z++ {
		for x := 0; x < opts.Width; x++ {
			h := fractalNoise(float32(x)*opts.Frequency, float32(z)*opts.Frequency, opts)
			height := minHeight + h*(opts.HeightScale-minHeight)
			if math32.IsNaN(height) || math32.IsInf(height, 0) || height <= 0 {
				height = minHeight
			}
			out = append(out, gamemap.Prop{
				Kind:     gamemap.PropTerrain,
				Position: mgl32.Vec3{startX + float32(x)*opts.TileSize, height * 0.5, startZ + float32(z)*opts.TileSize},
				Size:     mgl32.Vec3{opts.TileSize, height, opts.TileSize},
				Color:    TerrainColor,
			})
		}
	}
	return out
}

// Apply adds generated tiles to g and returns how many were placed.
func Apply(g *gamemap.Group, opts Options) int {
	tiles := Tiles(opts)
	for _, t := range tiles {
		g.AddProp(t)
	}
	return len(tiles)
}

// fractalNoise layers octaves of value noise. Output is in [0,1].
func fractalNoise(x, y float32, opts Options) float32 {
	var sum, maxAmp float32
	amp, freq := float32(1), float32(1)
	for i := 0; i < opts.Octaves; i++ {
		sum += valueNoise(x*freq, y*freq, int32(opts.Seed)+int32(i)) * amp
		maxAmp += amp
		amp *= opts.Gain
		freq *= opts.Lacunarity
	}
	if maxAmp == 0 {
		return 0
	}
	return sum / maxAmp
}

func valueNoise(x, y float32, seed int32) float32 {
	x0, y0 := math32.Floor(x), math32.Floor(y)
	ix, iy := int32(x0), int32(y0)
	sx, sy := smoothStep(x-x0), smoothStep(y-y0)

	top := lerp(hash2D(ix, iy, seed), hash2D(ix+1, iy, seed), sx)
	bottom := lerp(hash2D(ix, iy+1, seed), hash2D(ix+1, iy+1, seed), sx)
	return lerp(top, bottom, sy)
}

// hash2D maps a lattice point to a deterministic value in [0,1].
func hash2D(x, y, seed int32) float32 {
	n := x*374761393 + y*668265263 + seed*362437
	n = (n ^ (n >> 13)) * 1274126177
	n ^= n >> 16
	return float32(n&0x7fffffff) / 2147483647
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

func smoothStep(t float32) float32 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	}
	return t * t * (3 - 2*t)
}
