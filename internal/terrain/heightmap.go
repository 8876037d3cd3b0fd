package terrain

import (
	"math"
	"math/rand"

	"github.com/lawnchairsociety/worldforge/internal/noise"
)

const (
	cornerMin        = 0.2
	cornerMax        = 0.8
	initialRoughness = 0.5
	coastalFalloff   = 0.3
	noiseOctaves     = 5
)

// Heightmap is a row-major grid of elevations in [0,1].
type Heightmap struct {
	Width  int
	Height int
	Values []float64
}

// NewHeightmap allocates a zeroed heightmap.
func NewHeightmap(width, height int) *Heightmap {
	return &Heightmap{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
}

// InBounds reports whether (x, y) lies on the grid.
func (h *Heightmap) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < h.Width && y < h.Height
}

// At returns the elevation at (x, y). Callers must bounds-check.
func (h *Heightmap) At(x, y int) float64 {
	return h.Values[y*h.Width+x]
}

// Set stores the elevation at (x, y). Callers must bounds-check.
func (h *Heightmap) Set(x, y int, v float64) {
	h.Values[y*h.Width+x] = v
}

// AtPoint is At for a Point.
func (h *Heightmap) AtPoint(p Point) float64 {
	return h.At(p.X, p.Y)
}

// Clone returns an independent copy.
func (h *Heightmap) Clone() *Heightmap {
	c := NewHeightmap(h.Width, h.Height)
	copy(c.Values, h.Values)
	return c
}

// GridSize returns the smallest 2^k+1 that covers both dimensions.
func GridSize(width, height int) int {
	m := width
	if height > m {
		m = height
	}
	n := 1
	for n+1 < m {
		n *= 2
	}
	return n + 1
}

// DiamondSquare builds a fractal heightmap of the requested size.
func DiamondSquare(width, height int, seaLevel float64, rng *rand.Rand) *Heightmap {
	n := GridSize(width, height)
	last := n - 1
	grid := make([]float64, n*n)
	idx := func(x, y int) int { return y*n + x }

	corner := func() float64 { return cornerMin + rng.Float64()*(cornerMax-cornerMin) }
	grid[idx(0, 0)] = corner()
	grid[idx(last, 0)] = corner()
	grid[idx(0, last)] = corner()
	grid[idx(last, last)] = corner()

	roughness := initialRoughness
	for step := last; step > 1; step /= 2 {
		half := step / 2

		// Diamond: block centers from their four diagonal corners.
		for y := half; y < last; y += step {
			for x := half; x < last; x += step {
				avg := (grid[idx(x-half, y-half)] +
					grid[idx(x+half, y-half)] +
					grid[idx(x-half, y+half)] +
					grid[idx(x+half, y+half)]) / 4
				grid[idx(x, y)] = avg + (rng.Float64()-0.5)*roughness
			}
		}

		// Square: edge midpoints from whichever axis neighbors exist.
		for y := 0; y <= last; y += half {
			start := half
			if (y/half)%2 == 1 {
				start = 0
			}
			for x := start; x <= last; x += step {
				sum, count := 0.0, 0
				if x-half >= 0 {
					sum += grid[idx(x-half, y)]
					count++
				}
				if x+half <= last {
					sum += grid[idx(x+half, y)]
					count++
				}
				if y-half >= 0 {
					sum += grid[idx(x, y-half)]
					count++
				}
				if y+half <= last {
					sum += grid[idx(x, y+half)]
					count++
				}
				grid[idx(x, y)] = sum/float64(count) + (rng.Float64()-0.5)*roughness
			}
		}

		roughness /= 2
	}

	normalize(grid)
	smoothCoast(grid, seaLevel)
	return resample(grid, n, width, height)
}

// NoiseHeightmap builds a heightmap from multi-octave value noise.
func NoiseHeightmap(width, height int, seed int64, scale, seaLevel float64) *Heightmap {
	hm := NewHeightmap(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			hm.Set(x, y, noise.MultiOctave(float64(x)*scale, float64(y)*scale, seed, noiseOctaves))
		}
	}
	normalize(hm.Values)
	smoothCoast(hm.Values, seaLevel)
	return hm
}

func normalize(values []float64) {
	if len(values) == 0 {
		return
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span < 1e-12 {
		for i := range values {
			values[i] = 0.5
		}
		return
	}
	for i, v := range values {
		values[i] = (v - lo) / span
	}
}

func smoothCoast(values []float64, seaLevel float64) {
	if seaLevel <= 0 {
		return
	}
	for i, v := range values {
		if v >= seaLevel {
			continue
		}
		v -= ((seaLevel - v) / seaLevel) * coastalFalloff
		if v < 0 {
			v = 0
		}
		values[i] = v
	}
}

func resample(grid []float64, n, width, height int) *Heightmap {
	hm := NewHeightmap(width, height)
	last := n - 1
	for y := 0; y < height; y++ {
		sy := sourceIndex(y, height, last)
		for x := 0; x < width; x++ {
			sx := sourceIndex(x, width, last)
			hm.Set(x, y, grid[sy*n+sx])
		}
	}
	return hm
}

func sourceIndex(i, size, last int) int {
	if size <= 1 {
		return 0
	}
	return int(math.Round(float64(i) * float64(last) / float64(size-1)))
}
