package terrain

// CellClass is the land/water tag of a heightmap cell.
type CellClass int

const (
	CellOcean CellClass = iota
	CellCoast
	CellLand
)

// String returns the string representation of a CellClass
func (c CellClass) String() string {
	switch c {
	case CellOcean:
		return "ocean"
	case CellCoast:
		return "coast"
	case CellLand:
		return "land"
	default:
		return "unknown"
	}
}

// IsLand reports whether an elevation is at or above sea level.
func IsLand(elevation, seaLevel float64) bool {
	return elevation >= seaLevel
}

// Classify tags every cell as ocean, coast or land. Coast cells are land
// cells with at least one 4-connected water neighbor.
func Classify(hm *Heightmap, seaLevel float64) []CellClass {
	classes := make([]CellClass, len(hm.Values))
	for y := 0; y < hm.Height; y++ {
		for x := 0; x < hm.Width; x++ {
			i := y*hm.Width + x
			if !IsLand(hm.Values[i], seaLevel) {
				classes[i] = CellOcean
				continue
			}
			classes[i] = CellLand
			for _, d := range neighbors4 {
				nx, ny := x+d.X, y+d.Y
				if hm.InBounds(nx, ny) && !IsLand(hm.At(nx, ny), seaLevel) {
					classes[i] = CellCoast
					break
				}
			}
		}
	}
	return classes
}

var neighbors4 = []Point{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}

var neighbors8 = []Point{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
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

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
