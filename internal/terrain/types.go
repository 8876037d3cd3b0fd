package terrain

import "math"

// NoRiver and NoLake mark tiles and lakes without a hydrology link.
const (
	NoRiver = -1
	NoLake  = -1
)

// Point is an integer grid coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Dist returns the Euclidean distance between two points.
func (p Point) Dist(q Point) float64 {
	dx := float64(p.X - q.X)
	dy := float64(p.Y - q.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect is an inclusive bounding box.
type Rect struct {
	MinX int `json:"min_x"`
	MinY int `json:"min_y"`
	MaxX int `json:"max_x"`
	MaxY int `json:"max_y"`
}

// Contains reports whether p lies inside the box.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Biome is the climate and elevation derived category of a tile.
type Biome int

const (
	BiomeOcean Biome = iota
	BiomeLake
	BiomeRiver
	BiomeBeach
	BiomeSnowyPeaks
	BiomeAlpine
	BiomeMountain
	BiomeTundra
	BiomeTaiga
	BiomeDesert
	BiomeSavanna
	BiomeRainforest
	BiomeSwamp
	BiomeTemperateForest
	BiomeGrassland
	BiomeShrubland
)

var biomeNames = map[Biome]string{
	BiomeOcean:           "ocean",
	BiomeLake:            "lake",
	BiomeRiver:           "river",
	BiomeBeach:           "beach",
	BiomeSnowyPeaks:      "snowy_peaks",
	BiomeAlpine:          "alpine",
	BiomeMountain:        "mountain",
	BiomeTundra:          "tundra",
	BiomeTaiga:           "taiga",
	BiomeDesert:          "desert",
	BiomeSavanna:         "savanna",
	BiomeRainforest:      "rainforest",
	BiomeSwamp:           "swamp",
	BiomeTemperateForest: "temperate_forest",
	BiomeGrassland:       "grassland",
	BiomeShrubland:       "shrubland",
}

// String returns the string representation of a Biome
func (b Biome) String() string {
	if name, ok := biomeNames[b]; ok {
		return name
	}
	return "unknown"
}

// IsWater reports whether the biome is a water biome.
func (b Biome) IsWater() bool {
	return b == BiomeOcean || b == BiomeLake || b == BiomeRiver
}

// TerrainType is the coarse terrain classification of a tile.
type TerrainType int

const (
	TerrainWater TerrainType = iota
	TerrainSand
	TerrainSnow
	TerrainMountain
	TerrainTundra
	TerrainForest
	TerrainDesert
	TerrainGrassland
	TerrainSwamp
	TerrainFarm
	TerrainUrban
)

var terrainNames = map[TerrainType]string{
	TerrainWater:     "water",
	TerrainSand:      "sand",
	TerrainSnow:      "snow",
	TerrainMountain:  "mountain",
	TerrainTundra:    "tundra",
	TerrainForest:    "forest",
	TerrainDesert:    "desert",
	TerrainGrassland: "grassland",
	TerrainSwamp:     "swamp",
	TerrainFarm:      "farm",
	TerrainUrban:     "urban",
}

// String returns the string representation of a TerrainType
func (t TerrainType) String() string {
	if name, ok := terrainNames[t]; ok {
		return name
	}
	return "unknown"
}

// IsWater reports whether the terrain is open water.
func (t TerrainType) IsWater() bool {
	return t == TerrainWater
}

// FireState tracks wildfire on a tile.
type FireState int

const (
	FireNone FireState = iota
	FireBurning
)

var fireNames = map[FireState]string{
	FireNone:    "none",
	FireBurning: "burning",
}

// String returns the string representation of a FireState
func (f FireState) String() string {
	if name, ok := fireNames[f]; ok {
		return name
	}
	return "unknown"
}

// ResourceKind is a harvestable resource category.
type ResourceKind int

const (
	ResourceWood ResourceKind = iota
	ResourceStone
	ResourceMetal
	ResourceFood
	ResourceClay
	ResourceGems
	ResourceWater
)

var resourceNames = map[ResourceKind]string{
	ResourceWood:  "wood",
	ResourceStone: "stone",
	ResourceMetal: "metal",
	ResourceFood:  "food",
	ResourceClay:  "clay",
	ResourceGems:  "gems",
	ResourceWater: "water",
}

// String returns the string representation of a ResourceKind
func (r ResourceKind) String() string {
	if name, ok := resourceNames[r]; ok {
		return name
	}
	return "unknown"
}

// Resource is an amount of one resource kind available on a tile.
type Resource struct {
	Kind   ResourceKind `json:"kind"`
	Amount float64      `json:"amount"`
}

// RegionKind identifies which landmass array a RegionRef indexes.
type RegionKind int

const (
	RegionNone RegionKind = iota
	RegionContinent
	RegionIsland
)

var regionNames = map[RegionKind]string{
	RegionNone:      "none",
	RegionContinent: "continent",
	RegionIsland:    "island",
}

// String returns the string representation of a RegionKind
func (k RegionKind) String() string {
	if name, ok := regionNames[k]; ok {
		return name
	}
	return "unknown"
}

// RegionRef points into WorldData.Continents or WorldData.Islands.
// The zero value means the tile is unowned.
type RegionRef struct {
	Kind  RegionKind `json:"kind"`
	Index int        `json:"index"`
}

// IsSet reports whether the reference points at a region.
func (r RegionRef) IsSet() bool {
	return r.Kind != RegionNone
}

// Tile is the per-cell world state.
type Tile struct {
	X                 int         `json:"x"`
	Y                 int         `json:"y"`
	Elevation         float64     `json:"elevation"`
	Temperature       float64     `json:"temperature"`
	Humidity          float64     `json:"humidity"`
	Fertility         float64     `json:"fertility"`
	SoilQuality       float64     `json:"soil_quality"`
	VegetationDensity float64     `json:"vegetation_density"`
	MineralContent    float64     `json:"mineral_content"`
	Erosion           float64     `json:"erosion"`
	Accessibility     float64     `json:"accessibility"`
	Age               float64     `json:"age"`
	Biome             Biome       `json:"biome"`
	Type              TerrainType `json:"type"`
	FireState         FireState   `json:"fire_state"`
	Ownership         RegionRef   `json:"ownership"`
	RiverID           int         `json:"river_id"`
	LakeID            int         `json:"lake_id"`
	Building          string      `json:"building,omitempty"`
	Resources         []Resource  `json:"resources,omitempty"`
}

// Clone returns a deep copy of the tile.
func (t Tile) Clone() Tile {
	if t.Resources != nil {
		res := make([]Resource, len(t.Resources))
		copy(res, t.Resources)
		t.Resources = res
	}
	return t
}

// River is a traced watercourse from source to mouth.
type River struct {
	ID          int       `json:"id"`
	ParentID    int       `json:"parent_id"`
	Path        []Point   `json:"path"`
	Profile     []float64 `json:"profile"`
	Source      Point     `json:"source"`
	Mouth       Point     `json:"mouth"`
	Length      float64   `json:"length"`
	Width       float64   `json:"width"`
	Depth       float64   `json:"depth"`
	FlowRate    float64   `json:"flow_rate"`
	Navigable   bool      `json:"navigable"`
	Tributaries []int     `json:"tributaries,omitempty"`
	Crossings   []Point   `json:"crossings,omitempty"`
	Basin       Rect      `json:"basin"`
}

// WaterType classifies lake water.
type WaterType int

const (
	WaterFresh WaterType = iota
	WaterSalt
	WaterMagical
)

var waterNames = map[WaterType]string{
	WaterFresh:   "fresh",
	WaterSalt:    "salt",
	WaterMagical: "magical",
}

// String returns the string representation of a WaterType
func (w WaterType) String() string {
	if name, ok := waterNames[w]; ok {
		return name
	}
	return "unknown"
}

// Lake is a filled basin.
type Lake struct {
	ID           int       `json:"id"`
	Center       Point     `json:"center"`
	Radius       int       `json:"radius"`
	Depth        float64   `json:"depth"`
	WaterType    WaterType `json:"water_type"`
	Inflow       []int     `json:"inflow,omitempty"`
	OutflowID    int       `json:"outflow_id"`
	Volume       float64   `json:"volume"`
	DepthProfile []float64 `json:"depth_profile"`
}

// HasOutflow reports whether a river drains the lake.
func (l Lake) HasOutflow() bool {
	return l.OutflowID != NoRiver
}

// ElevationStats aggregates elevation over a region.
type ElevationStats struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

// ClimateStats aggregates climate over a region.
type ClimateStats struct {
	Temperature float64 `json:"temperature"`
	Rainfall    float64 `json:"rainfall"`
}

// Continent is one of the largest connected land components.
type Continent struct {
	ID        int            `json:"id"`
	Bounds    Rect           `json:"bounds"`
	Area      int            `json:"area"`
	Elevation ElevationStats `json:"elevation"`
	Climate   ClimateStats   `json:"climate"`
	Biomes    []Biome        `json:"biomes"`
	Rivers    []int          `json:"rivers,omitempty"`
	Lakes     []int          `json:"lakes,omitempty"`
}

// IslandType is derived from an island's average elevation.
type IslandType int

const (
	IslandContinental IslandType = iota
	IslandMountainous
	IslandVolcanic
	IslandCoral
)

var islandNames = map[IslandType]string{
	IslandContinental: "continental",
	IslandMountainous: "mountainous",
	IslandVolcanic:    "volcanic",
	IslandCoral:       "coral",
}

// String returns the string representation of an IslandType
func (t IslandType) String() string {
	if name, ok := islandNames[t]; ok {
		return name
	}
	return "unknown"
}

// Island is a small land component kept by island density.
type Island struct {
	ID        int            `json:"id"`
	Type      IslandType     `json:"type"`
	Center    Point          `json:"center"`
	Radius    float64        `json:"radius"`
	Bounds    Rect           `json:"bounds"`
	Area      int            `json:"area"`
	Elevation ElevationStats `json:"elevation"`
	Climate   ClimateStats   `json:"climate"`
	Biomes    []Biome        `json:"biomes"`
	Rivers    []int          `json:"rivers,omitempty"`
	Lakes     []int          `json:"lakes,omitempty"`
}

// MountainRange is a ridge line traced from a peak.
type MountainRange struct {
	ID            int     `json:"id"`
	Peak          Point   `json:"peak"`
	PeakElevation float64 `json:"peak_elevation"`
	Path          []Point `json:"path"`
}

// Cave is an attached cave system entrance.
type Cave struct {
	ID       int   `json:"id"`
	Entrance Point `json:"entrance"`
	Depth    int   `json:"depth"`
	Length   int   `json:"length"`
}

// WorldData is the aggregate result of one generation run.
type WorldData struct {
	Width          int             `json:"width"`
	Height         int             `json:"height"`
	Seed           int64           `json:"seed"`
	SeaLevel       float64         `json:"sea_level"`
	Heightmap      *Heightmap      `json:"-"`
	Tiles          [][]Tile        `json:"-"`
	Rivers         []River         `json:"rivers"`
	Lakes          []Lake          `json:"lakes"`
	Continents     []Continent     `json:"continents"`
	Islands        []Island        `json:"islands"`
	MountainRanges []MountainRange `json:"mountain_ranges"`
	Caves          []Cave          `json:"caves"`
}

// InBounds reports whether (x, y) lies on the grid.
func (w *WorldData) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < w.Width && y < w.Height
}

// Tile returns the live tile at (x, y), or nil outside the grid.
func (w *WorldData) Tile(x, y int) *Tile {
	if !w.InBounds(x, y) {
		return nil
	}
	return &w.Tiles[y][x]
}
