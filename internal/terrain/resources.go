package terrain

import (
	"math"

	"github.com/lawnchairsociety/worldforge/internal/noise"
)

// MaxResourceAmount is the cap on a single resource stack.
const MaxResourceAmount = 100.0

// seedResources builds the resource list of a freshly derived tile.
func seedResources(profile BiomeProfile, t *Tile, cfg Config, nearWater bool) []Resource {
	kinds := profile.Resources
	if nearWater && !t.Type.IsWater() && !hasKind(kinds, ResourceWater) {
		kinds = append(append([]ResourceKind(nil), kinds...), ResourceWater)
	}

	var out []Resource
	for _, kind := range kinds {
		base := resourceBase(kind, t, cfg)
		jitter := 0.75 + 0.5*noise.Noise(float64(t.X)*0.37, float64(t.Y)*0.37, cfg.Seed+int64(kind)*101)
		amount := math.Round(math.Min(MaxResourceAmount, base*jitter*MaxResourceAmount))
		if amount <= 0 {
			continue
		}
		out = append(out, Resource{Kind: kind, Amount: amount})
	}
	return out
}

func resourceBase(kind ResourceKind, t *Tile, cfg Config) float64 {
	switch kind {
	case ResourceWood:
		return t.VegetationDensity
	case ResourceStone:
		return (0.3 + t.MineralContent*0.7) * cfg.MineralRichness
	case ResourceMetal:
		return t.MineralContent * 0.6 * cfg.MineralRichness
	case ResourceGems:
		return t.MineralContent * 0.2 * cfg.MineralRichness
	case ResourceFood:
		return t.Fertility * cfg.SoilFertility
	case ResourceClay:
		return (t.Humidity*0.5 + t.SoilQuality*0.2) * cfg.SoilFertility
	case ResourceWater:
		return 0.5 * cfg.WaterAvailability
	default:
		return 0
	}
}

func hasKind(kinds []ResourceKind, k ResourceKind) bool {
	for _, kind := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}
