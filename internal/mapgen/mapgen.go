// Package mapgen builds the exploration terrain: a grid of box tiles whose heights come
// from fractal value noise, flattened around the spawn point so a respawn always lands on
// open ground.
package mapgen

import (
	"time"

	"github.com/chewxy/math32"

	"explore-engine/internal/geom"
	"explore-engine/internal/physics"
)

// Options controls terrain generation.
// Width/Depth are in tiles; TileSize is the world size of one tile on X/Z.
// HeightScale is the maximum tile top above Y=0. Seed == 0 uses a time-based seed.
// Octaves, Frequency, Lacunarity and Gain shape the fractal noise.
// Tiles whose center lies within ClearRadius of the origin are kept flat at Y=0.
type Options struct {
	Width       int     `yaml:"width" env:"WIDTH"`
	Depth       int     `yaml:"depth" env:"DEPTH"`
	TileSize    float32 `yaml:"tile_size" env:"TILE_SIZE"`
	HeightScale float32 `yaml:"height_scale" env:"HEIGHT_SCALE"`
	Thickness   float32 `yaml:"thickness" env:"THICKNESS"`
	ClearRadius float32 `yaml:"clear_radius" env:"CLEAR_RADIUS"`

	Seed       int64   `yaml:"seed" env:"SEED"`
	Octaves    int     `yaml:"octaves" env:"OCTAVES"`
	Frequency  float32 `yaml:"frequency" env:"FREQUENCY"`
	Lacunarity float32 `yaml:"lacunarity" env:"LACUNARITY"`
	Gain       float32 `yaml:"gain" env:"GAIN"`
}

// DefaultOptions is a 32x32 map with gentle hills.
func DefaultOptions() Options {
	return Options{
		Width:       32,
		Depth:       32,
		TileSize:    1.0,
		HeightScale: 1.5,
		Thickness:   1.0,
		ClearRadius: 3.0,
		Octaves:     4,
		Frequency:   0.08,
		Lacunarity:  2.0,
		Gain:        0.5,
	}
}

// Tile is one terrain box.
type Tile struct {
	Center geom.Vec3
	Size   geom.Vec3
}

// Top returns the Y of the tile's upper face.
func (t Tile) Top() float32 {
	return t.Center.Y + t.Size.Y*0.5
}

// Terrain is a generated map.
type Terrain struct {
	Options Options
	Tiles   []Tile
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TileSize <= 0 {
		o.TileSize = d.TileSize
	}
	if o.HeightScale < 0 {
		o.HeightScale = 0
	}
	if o.Thickness <= 0 {
		o.Thickness = d.Thickness
	}
	if o.Octaves <= 0 {
		o.Octaves = 1
	}
	if o.Frequency <= 0 {
		o.Frequency = 0.05
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

// Generate builds the terrain centered on the world origin. The returned Options hold the
// effective values, including the resolved seed.
func Generate(opts Options) Terrain {
	if opts.Width <= 0 || opts.Depth <= 0 {
		return Terrain{Options: opts}
	}
	opts = opts.withDefaults()

	halfTile := opts.TileSize * 0.5
	startX := -float32(opts.Width)*halfTile + halfTile
	startZ := -float32(opts.Depth)*halfTile + halfTile

	tiles := make([]Tile, 0, opts.Width*opts.Depth)
	for z := 0; z < opts.Depth; z++ {
		for x := 0; x < opts.Width; x++ {
			wx := startX + float32(x)*opts.TileSize
			wz := startZ + float32(z)*opts.TileSize

			top := float32(0)
			if math32.Hypot(wx, wz) > opts.ClearRadius {
				h := fractalValueNoise2D(float32(x)*opts.Frequency, float32(z)*opts.Frequency, opts.Seed, opts.Octaves, opts.Lacunarity, opts.Gain)
				if !isFinite(h) {
					h = 0
				}
				top = h * opts.HeightScale
			}
			height := top + opts.Thickness
			tiles = append(tiles, Tile{
				Center: geom.V3(wx, top-height*0.5, wz),
				Size:   geom.V3(opts.TileSize, height, opts.TileSize),
			})
		}
	}
	return Terrain{Options: opts, Tiles: tiles}
}

// Bodies returns one static physics body per tile.
func (t Terrain) Bodies() []*physics.Body {
	out := make([]*physics.Body, 0, len(t.Tiles))
	for _, tile := range t.Tiles {
		out = append(out, physics.NewBody(tile.Center, tile.Size, 1, true))
	}
	return out
}

// AddTo installs the terrain's bodies into w.
func (t Terrain) AddTo(w *physics.World) {
	for _, b := range t.Bodies() {
		w.AddBody(b)
	}
}

// HeightAt returns the tile top under (x, z), or false outside the map.
func (t Terrain) HeightAt(x, z float32) (float32, bool) {
	for _, tile := range t.Tiles {
		half := tile.Size.Scale(0.5)
		if x >= tile.Center.X-half.X && x < tile.Center.X+half.X &&
			z >= tile.Center.Z-half.Z && z < tile.Center.Z+half.Z {
			return tile.Top(), true
		}
	}
	return 0, false
}

// fractalValueNoise2D layers smooth value noise with configurable octaves, lacunarity and
// gain. Output is in [0,1].
func fractalValueNoise2D(x, y float32, seed int64, octaves int, lacunarity, gain float32) float32 {
	var sum, maxAmp float32
	amplitude := float32(1)
	freq := float32(1)

	for i := 0; i < octaves; i++ {
		sum += valueNoise2D(x*freq, y*freq, int32(seed)+int32(i)) * amplitude
		maxAmp += amplitude
		amplitude *= gain
		freq *= lacunarity
	}
	if maxAmp == 0 {
		return 0
	}
	return sum / maxAmp
}

// valueNoise2D is smooth value noise in [0,1] over a hashed integer lattice.
func valueNoise2D(x, y float32, seed int32) float32 {
	x0 := int32(math32.Floor(x))
	y0 := int32(math32.Floor(y))
	sx := smoothStep(x - float32(x0))
	sy := smoothStep(y - float32(y0))

	v00 := hash2D(x0, y0, seed)
	v10 := hash2D(x0+1, y0, seed)
	v01 := hash2D(x0, y0+1, seed)
	v11 := hash2D(x0+1, y0+1, seed)

	return lerp(lerp(v00, v10, sx), lerp(v01, v11, sx), sy)
}

// hash2D maps lattice coordinates to a deterministic pseudo-random float in [0,1].
func hash2D(x, y, seed int32) float32 {
	n := x*374761393 + y*668265263 + seed*362437
	n = (n ^ (n >> 13)) * 1274126177
	n = n ^ (n >> 16)
	const invMaxInt = 1.0 / 2147483647.0
	return float32(n&0x7fffffff) * float32(invMaxInt)
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// smoothStep is cubic easing: 3t^2 - 2t^3.
func smoothStep(t float32) float32 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

func isFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
