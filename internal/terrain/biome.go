package terrain

import "math"

const beachBand = 0.03

// BiomeProfile holds the defaults a biome contributes to its tiles.
type BiomeProfile struct {
	Type       TerrainType
	Fertility  float64
	Vegetation float64
	Minerals   float64
	Resources  []ResourceKind
}

var biomeProfiles = map[Biome]BiomeProfile{
	BiomeOcean:           {Type: TerrainWater, Minerals: 0.05, Resources: []ResourceKind{ResourceFood}},
	BiomeLake:            {Type: TerrainWater, Minerals: 0.05, Resources: []ResourceKind{ResourceWater, ResourceFood}},
	BiomeRiver:           {Type: TerrainWater, Minerals: 0.1, Resources: []ResourceKind{ResourceWater}},
	BiomeBeach:           {Type: TerrainSand, Fertility: 0.2, Vegetation: 0.1, Minerals: 0.1, Resources: []ResourceKind{ResourceClay}},
	BiomeSnowyPeaks:      {Type: TerrainSnow, Fertility: 0, Vegetation: 0, Minerals: 0.8, Resources: []ResourceKind{ResourceStone, ResourceGems}},
	BiomeAlpine:          {Type: TerrainMountain, Fertility: 0.1, Vegetation: 0.15, Minerals: 0.7, Resources: []ResourceKind{ResourceStone, ResourceMetal}},
	BiomeMountain:        {Type: TerrainMountain, Fertility: 0.2, Vegetation: 0.25, Minerals: 0.6, Resources: []ResourceKind{ResourceStone, ResourceMetal}},
	BiomeTundra:          {Type: TerrainTundra, Fertility: 0.15, Vegetation: 0.2, Minerals: 0.3, Resources: []ResourceKind{ResourceStone}},
	BiomeTaiga:           {Type: TerrainForest, Fertility: 0.35, Vegetation: 0.6, Minerals: 0.25, Resources: []ResourceKind{ResourceWood}},
	BiomeDesert:          {Type: TerrainDesert, Fertility: 0.05, Vegetation: 0.05, Minerals: 0.4, Resources: []ResourceKind{ResourceStone, ResourceGems}},
	BiomeSavanna:         {Type: TerrainGrassland, Fertility: 0.45, Vegetation: 0.35, Minerals: 0.15, Resources: []ResourceKind{ResourceFood, ResourceWood}},
	BiomeRainforest:      {Type: TerrainForest, Fertility: 0.6, Vegetation: 0.95, Minerals: 0.1, Resources: []ResourceKind{ResourceWood, ResourceFood}},
	BiomeSwamp:           {Type: TerrainSwamp, Fertility: 0.5, Vegetation: 0.7, Minerals: 0.1, Resources: []ResourceKind{ResourceWood, ResourceClay}},
	BiomeTemperateForest: {Type: TerrainForest, Fertility: 0.65, Vegetation: 0.8, Minerals: 0.15, Resources: []ResourceKind{ResourceWood, ResourceFood}},
	BiomeGrassland:       {Type: TerrainGrassland, Fertility: 0.8, Vegetation: 0.45, Minerals: 0.1, Resources: []ResourceKind{ResourceFood}},
	BiomeShrubland:       {Type: TerrainGrassland, Fertility: 0.4, Vegetation: 0.3, Minerals: 0.2, Resources: []ResourceKind{ResourceFood, ResourceStone}},
}

// Profile returns the defaults of a biome, or ErrUnknownBiome.
func Profile(b Biome) (BiomeProfile, error) {
	p, ok := biomeProfiles[b]
	if !ok {
		return BiomeProfile{}, ErrUnknownBiome
	}
	return p, nil
}

// ClassifyBiome maps elevation, temperature and humidity to a land or
// ocean biome. Elevation dominates, then temperature, then humidity.
// Rivers and lakes are tagged by the caller.
func ClassifyBiome(elevation, temperature, humidity, seaLevel float64) Biome {
	switch {
	case elevation < seaLevel:
		return BiomeOcean
	case elevation > 0.9:
		return BiomeSnowyPeaks
	case elevation > 0.8:
		return BiomeAlpine
	case elevation > 0.65:
		return BiomeMountain
	case elevation < seaLevel+beachBand:
		return BiomeBeach
	case temperature < 0.2:
		return BiomeTundra
	case temperature < 0.35:
		if humidity > 0.4 {
			return BiomeTaiga
		}
		return BiomeTundra
	case temperature > 0.7:
		switch {
		case humidity < 0.25:
			return BiomeDesert
		case humidity < 0.5:
			return BiomeSavanna
		default:
			return BiomeRainforest
		}
	}
	switch {
	case humidity > 0.75 && elevation < seaLevel+0.1:
		return BiomeSwamp
	case humidity > 0.5:
		return BiomeTemperateForest
	case humidity > 0.3:
		return BiomeGrassland
	default:
		return BiomeShrubland
	}
}

// SoilQuality peaks at elevation 0.3, humidity 0.6 and temperature 0.5.
func SoilQuality(elevation, humidity, temperature float64) float64 {
	e := clamp01(1 - math.Abs(elevation-0.3)/0.7)
	h := clamp01(1 - math.Abs(humidity-0.6)/0.6)
	t := clamp01(1 - math.Abs(temperature-0.5)/0.5)
	return clamp01(e*0.4 + h*0.35 + t*0.25)
}
