// Package noise provides deterministic scalar fields used by terrain generation.
//
// Nothing in this package touches global random state: every value is a pure
// function of its coordinates and seed.
package noise

import "math"

// mix64 is the splitmix64 finalizer.
func mix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Hash2 returns a well-mixed 64-bit hash of a seed and integer coordinates.
func Hash2(seed int64, x, y int) uint64 {
	ux := uint64(uint32(int32(x)))
	uy := uint64(uint32(int32(y)))
	v := uint64(seed) ^ (ux * 0x9e3779b97f4a7c15) ^ (uy * 0xbf58476d1ce4e5b9)
	return mix64(v)
}

// lattice maps the hash of a lattice point to [0,1).
func lattice(seed int64, x, y int) float64 {
	return float64(Hash2(seed, x, y)>>11) / float64(uint64(1)<<53)
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Noise returns a deterministic value in [0,1) for the given point and seed.
// Lattice points are hashed and interpolated with a smoothstep, so samples a
// fraction of a cell apart stay correlated while whole cells are independent.
func Noise(x, y float64, seed int64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	ix, iy := int(x0), int(y0)
	sx := smoothstep(x - x0)
	sy := smoothstep(y - y0)

	v00 := lattice(seed, ix, iy)
	v10 := lattice(seed, ix+1, iy)
	v01 := lattice(seed, ix, iy+1)
	v11 := lattice(seed, ix+1, iy+1)

	top := lerp(v00, v10, sx)
	bottom := lerp(v01, v11, sx)
	return lerp(top, bottom, sy)
}

// MultiOctave sums octaves of Noise at halving amplitude and doubling
// frequency, normalized by the total amplitude. Each octave uses its own seed
// offset so octaves do not line up on the same lattice.
func MultiOctave(x, y float64, seed int64, octaves int) float64 {
	if octaves < 1 {
		octaves = 1
	}
	sum, total := 0.0, 0.0
	amp, freq := 1.0, 1.0
	for i := 0; i < octaves; i++ {
		sum += Noise(x*freq, y*freq, seed+int64(i)*7919) * amp
		total += amp
		amp *= 0.5
		freq *= 2
	}
	return sum / total
}
