package noise

import opensimplex "github.com/ojrac/opensimplex-go"

// Field is a smooth OpenSimplex field sampled at a fixed frequency.
// Climate layers use it where value noise would show its lattice.
type Field struct {
	src   opensimplex.Noise
	scale float64
}

// NewField creates a field for the given seed. A non-positive scale falls
// back to 1.
func NewField(seed int64, scale float64) *Field {
	if scale <= 0 {
		scale = 1
	}
	return &Field{
		src:   opensimplex.NewNormalized(seed),
		scale: scale,
	}
}

// At samples the field at (x, y), clamped to [0,1].
func (f *Field) At(x, y float64) float64 {
	return clamp01(f.src.Eval2(x*f.scale, y*f.scale))
}

// Octaves sums octaves of the field the same way MultiOctave does.
func (f *Field) Octaves(x, y float64, octaves int) float64 {
	if octaves < 1 {
		octaves = 1
	}
	sum, total := 0.0, 0.0
	amp, freq := 1.0, 1.0
	for i := 0; i < octaves; i++ {
		sum += f.At(x*freq, y*freq) * amp
		total += amp
		amp *= 0.5
		freq *= 2
	}
	return sum / total
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
