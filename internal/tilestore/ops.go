package tilestore

import (
	"math"

	"github.com/lawnchairsociety/worldforge/internal/terrain"
)

const (
	farmSoilGain        = 0.1
	farmVegetationLoss  = 0.2
	farmVegetationFloor = 0.1
	farmFlattening      = 0.05

	buildElevationLoss = 0.1
	buildSoilLoss      = 0.3
	buildAccessGain    = 0.5

	ageHorizonYears   = 100
	ageSoilDecay      = 0.1
	ageVegetationGain = 0.2
	ageErosionGain    = 0.05

	fireVegetationLoss = 0.3
	fireSoilLoss       = 0.1
)

// ApplyFarming turns a land tile into farmland. Flattening never sinks the
// tile below sea level.
func (s *Store) ApplyFarming(x, y int) (terrain.Tile, error) {
	return s.mutate("farming", x, y, func(t *terrain.Tile) (bool, error) {
		if t.Type.IsWater() {
			return false, ErrWaterTile
		}
		t.Type = terrain.TerrainFarm
		t.SoilQuality = math.Min(1, t.SoilQuality+farmSoilGain)
		t.VegetationDensity = math.Max(farmVegetationFloor, t.VegetationDensity-farmVegetationLoss)
		t.Elevation = math.Max(s.seaLevel, t.Elevation-farmFlattening)
		return true, nil
	})
}

// ApplyBuilding places a building and urbanizes the tile. The tile stays
// urban even if the elevation drops below sea level.
func (s *Store) ApplyBuilding(x, y int, building string) (terrain.Tile, error) {
	return s.mutate("building", x, y, func(t *terrain.Tile) (bool, error) {
		t.Type = terrain.TerrainUrban
		t.Building = building
		t.Elevation = clamp01(t.Elevation - buildElevationLoss)
		t.SoilQuality = clamp01(t.SoilQuality - buildSoilLoss)
		t.Accessibility = clamp01(t.Accessibility + buildAccessGain)
		return true, nil
	})
}

// ApplyErosion wears the tile down by intensity, clamped to [0,1].
func (s *Store) ApplyErosion(x, y int, intensity float64) (terrain.Tile, error) {
	intensity = clamp01(intensity)
	return s.mutate("erosion", x, y, func(t *terrain.Tile) (bool, error) {
		if intensity == 0 {
			return false, nil
		}
		t.Elevation = clamp01(t.Elevation - intensity)
		t.SoilQuality = clamp01(t.SoilQuality - intensity*0.5)
		t.Erosion = clamp01(t.Erosion + intensity)
		s.retag(t)
		return true, nil
	})
}

// ApplyAgeEffects ages the tile by years. The effect saturates at a
// century.
func (s *Store) ApplyAgeEffects(x, y int, years float64) (terrain.Tile, error) {
	return s.mutate("age", x, y, func(t *terrain.Tile) (bool, error) {
		if years <= 0 || math.IsNaN(years) {
			return false, nil
		}
		f := math.Min(years/ageHorizonYears, 1)
		t.SoilQuality = clamp01(t.SoilQuality * (1 - ageSoilDecay*f))
		t.VegetationDensity = clamp01(t.VegetationDensity + (1-t.VegetationDensity)*ageVegetationGain*f)
		t.Erosion = clamp01(t.Erosion + ageErosionGain*f)
		t.Age += years
		return true, nil
	})
}

// StartFire sets a land tile burning. Water tiles are left alone.
func (s *Store) StartFire(x, y int) (terrain.Tile, error) {
	return s.mutate("start_fire", x, y, func(t *terrain.Tile) (bool, error) {
		if t.Type.IsWater() {
			return false, nil
		}
		t.FireState = terrain.FireBurning
		t.VegetationDensity = clamp01(t.VegetationDensity - fireVegetationLoss)
		t.SoilQuality = clamp01(t.SoilQuality - fireSoilLoss)
		return true, nil
	})
}

// ExtinguishFire puts out a fire.
func (s *Store) ExtinguishFire(x, y int) (terrain.Tile, error) {
	return s.mutate("extinguish_fire", x, y, func(t *terrain.Tile) (bool, error) {
		if t.FireState == terrain.FireNone {
			return false, nil
		}
		t.FireState = terrain.FireNone
		return true, nil
	})
}
