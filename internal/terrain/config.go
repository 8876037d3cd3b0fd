package terrain

import "fmt"

// Heightmap generation modes.
const (
	ModeDiamondSquare = "diamond_square"
	ModeNoise         = "noise"
)

// MaxDimension bounds the grid size accepted by Normalize.
const MaxDimension = 4096

// Config holds the world generation parameters.
type Config struct {
	Width    int     `yaml:"width" json:"width"`
	Height   int     `yaml:"height" json:"height"`
	Seed     int64   `yaml:"seed" json:"seed"`
	SeaLevel float64 `yaml:"sea_level" json:"sea_level"`

	HeightmapMode    string  `yaml:"heightmap_mode" json:"heightmap_mode"`
	ElevationScale   float64 `yaml:"elevation_scale" json:"elevation_scale"`
	TemperatureScale float64 `yaml:"temperature_scale" json:"temperature_scale"`
	RainfallScale    float64 `yaml:"rainfall_scale" json:"rainfall_scale"`

	ContinentCount int     `yaml:"continent_count" json:"continent_count"`
	IslandDensity  float64 `yaml:"island_density" json:"island_density"`
	IslandMinArea  int     `yaml:"island_min_area" json:"island_min_area"`
	IslandMaxArea  int     `yaml:"island_max_area" json:"island_max_area"`

	MountainRanges int `yaml:"mountain_ranges" json:"mountain_ranges"`
	RiverCount     int `yaml:"river_count" json:"river_count"`
	LakeCount      int `yaml:"lake_count" json:"lake_count"`
	CaveSystems    int `yaml:"cave_systems" json:"cave_systems"`

	RiverSourceThreshold   float64 `yaml:"river_source_threshold" json:"river_source_threshold"`
	RiverSourceProbability float64 `yaml:"river_source_probability" json:"river_source_probability"`
	LakeProbability        float64 `yaml:"lake_probability" json:"lake_probability"`
	// LakeMinDepth is how far every neighbour of a basin center must rise
	// above it. Normalized diamond-square terrain rarely has pits deeper
	// than a few hundredths.
	LakeMinDepth           float64 `yaml:"lake_min_depth" json:"lake_min_depth"`
	MaxRiverSteps          int     `yaml:"max_river_steps" json:"max_river_steps"`

	// Carried for downstream settlement placement; generation ignores them.
	CivilizationCount int     `yaml:"civilization_count" json:"civilization_count"`
	SettlementDensity float64 `yaml:"settlement_density" json:"settlement_density"`
	RoadDensity       float64 `yaml:"road_density" json:"road_density"`

	MineralRichness   float64 `yaml:"mineral_richness" json:"mineral_richness"`
	SoilFertility     float64 `yaml:"soil_fertility" json:"soil_fertility"`
	WaterAvailability float64 `yaml:"water_availability" json:"water_availability"`
}

// DefaultConfig returns the default generation parameters.
func DefaultConfig() Config {
	return Config{
		Width:                  128,
		Height:                 128,
		Seed:                   1,
		SeaLevel:               0.4,
		HeightmapMode:          ModeDiamondSquare,
		ElevationScale:         0.02,
		TemperatureScale:       0.05,
		RainfallScale:          0.05,
		ContinentCount:         3,
		IslandDensity:          0.6,
		IslandMinArea:          4,
		IslandMaxArea:          200,
		MountainRanges:         4,
		RiverCount:             10,
		LakeCount:              6,
		CaveSystems:            5,
		RiverSourceThreshold:   0.7,
		RiverSourceProbability: 0.3,
		LakeProbability:        0.4,
		LakeMinDepth:           0.1,
		MaxRiverSteps:          200,
		CivilizationCount:      4,
		SettlementDensity:      0.5,
		RoadDensity:            0.5,
		MineralRichness:        1.0,
		SoilFertility:          1.0,
		WaterAvailability:      1.0,
	}
}

// Normalize clamps out-of-range parameters in place and describes each
// adjustment it made.
func (c *Config) Normalize() []string {
	var adj []string
	defaults := DefaultConfig()

	clampInt(&adj, "width", &c.Width, 1, MaxDimension)
	clampInt(&adj, "height", &c.Height, 1, MaxDimension)
	clampFloat(&adj, "sea_level", &c.SeaLevel, 0.02, 0.98)

	switch c.HeightmapMode {
	case ModeDiamondSquare, ModeNoise:
	case "":
		c.HeightmapMode = ModeDiamondSquare
	default:
		adj = append(adj, fmt.Sprintf("heightmap_mode %q unknown, using %s", c.HeightmapMode, ModeDiamondSquare))
		c.HeightmapMode = ModeDiamondSquare
	}

	positive(&adj, "elevation_scale", &c.ElevationScale, defaults.ElevationScale)
	positive(&adj, "temperature_scale", &c.TemperatureScale, defaults.TemperatureScale)
	positive(&adj, "rainfall_scale", &c.RainfallScale, defaults.RainfallScale)

	clampInt(&adj, "continent_count", &c.ContinentCount, 0, 1<<20)
	clampFloat(&adj, "island_density", &c.IslandDensity, 0, 1)
	clampInt(&adj, "island_min_area", &c.IslandMinArea, 1, 1<<30)
	if c.IslandMaxArea < c.IslandMinArea {
		adj = append(adj, fmt.Sprintf("island_max_area %d below island_min_area, using %d", c.IslandMaxArea, c.IslandMinArea))
		c.IslandMaxArea = c.IslandMinArea
	}

	clampInt(&adj, "mountain_ranges", &c.MountainRanges, 0, 1<<20)
	clampInt(&adj, "river_count", &c.RiverCount, 0, 1<<20)
	clampInt(&adj, "lake_count", &c.LakeCount, 0, 1<<20)
	clampInt(&adj, "cave_systems", &c.CaveSystems, 0, 1<<20)

	clampFloat(&adj, "river_source_threshold", &c.RiverSourceThreshold, 0, 1)
	clampFloat(&adj, "river_source_probability", &c.RiverSourceProbability, 0, 1)
	clampFloat(&adj, "lake_probability", &c.LakeProbability, 0, 1)
	clampFloat(&adj, "lake_min_depth", &c.LakeMinDepth, 0, 1)
	if c.MaxRiverSteps <= 0 {
		adj = append(adj, fmt.Sprintf("max_river_steps %d not positive, using %d", c.MaxRiverSteps, defaults.MaxRiverSteps))
		c.MaxRiverSteps = defaults.MaxRiverSteps
	}

	clampInt(&adj, "civilization_count", &c.CivilizationCount, 0, 1<<20)
	clampFloat(&adj, "settlement_density", &c.SettlementDensity, 0, 1)
	clampFloat(&adj, "road_density", &c.RoadDensity, 0, 1)

	clampFloat(&adj, "mineral_richness", &c.MineralRichness, 0, 2)
	clampFloat(&adj, "soil_fertility", &c.SoilFertility, 0, 2)
	clampFloat(&adj, "water_availability", &c.WaterAvailability, 0, 2)

	return adj
}

func clampInt(adj *[]string, name string, v *int, lo, hi int) {
	switch {
	case *v < lo:
		*adj = append(*adj, fmt.Sprintf("%s %d below %d", name, *v, lo))
		*v = lo
	case *v > hi:
		*adj = append(*adj, fmt.Sprintf("%s %d above %d", name, *v, hi))
		*v = hi
	}
}

func clampFloat(adj *[]string, name string, v *float64, lo, hi float64) {
	switch {
	case *v < lo:
		*adj = append(*adj, fmt.Sprintf("%s %g below %g", name, *v, lo))
		*v = lo
	case *v > hi:
		*adj = append(*adj, fmt.Sprintf("%s %g above %g", name, *v, hi))
		*v = hi
	}
}

func positive(adj *[]string, name string, v *float64, fallback float64) {
	if *v <= 0 {
		*adj = append(*adj, fmt.Sprintf("%s %g not positive, using %g", name, *v, fallback))
		*v = fallback
	}
}
