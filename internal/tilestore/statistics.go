package tilestore

import "github.com/lawnchairsociety/worldforge/internal/terrain"

// Statistics aggregates the cached tile states.
type Statistics struct {
	TotalTiles         int            `json:"total_tiles"`
	LandTiles          int            `json:"land_tiles"`
	WaterTiles         int            `json:"water_tiles"`
	BurningTiles       int            `json:"burning_tiles"`
	TypeCounts         map[string]int `json:"type_counts"`
	BiomeCounts        map[string]int `json:"biome_counts"`
	AverageElevation   float64        `json:"average_elevation"`
	AverageSoilQuality float64        `json:"average_soil_quality"`
	AverageVegetation  float64        `json:"average_vegetation"`
}

// Statistics computes aggregate counts and averages over every tile.
func (s *Store) Statistics() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Statistics{
		TypeCounts:  make(map[string]int),
		BiomeCounts: make(map[string]int),
	}
	var elev, soil, veg float64
	// Row-major order keeps the float sums reproducible.
	for y := 0; y < s.world.Height; y++ {
		for x := 0; x < s.world.Width; x++ {
			t, ok := s.cache[terrain.Point{X: x, Y: y}]
			if !ok {
				continue
			}
			st.TotalTiles++
			if t.Type.IsWater() {
				st.WaterTiles++
			} else {
				st.LandTiles++
			}
			if t.FireState == terrain.FireBurning {
				st.BurningTiles++
			}
			st.TypeCounts[t.Type.String()]++
			st.BiomeCounts[t.Biome.String()]++
			elev += t.Elevation
			soil += t.SoilQuality
			veg += t.VegetationDensity
		}
	}
	if st.TotalTiles > 0 {
		n := float64(st.TotalTiles)
		st.AverageElevation = elev / n
		st.AverageSoilQuality = soil / n
		st.AverageVegetation = veg / n
	}
	return st
}
