package terrain

import (
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/lawnchairsociety/worldforge/internal/logger"
)

const (
	coastAccessBonus   = 0.2
	highlandAccessCost = 0.3
)

// Generator runs the generation pipeline once and caches the result.
type Generator struct {
	mu          sync.Mutex
	config      Config
	adjustments []string
	world       *WorldData
	runs        int
}

// NewGenerator creates a generator. Out-of-range parameters are clamped.
func NewGenerator(cfg Config) *Generator {
	adj := cfg.Normalize()
	for _, a := range adj {
		logger.Warning("World config adjusted", "detail", a)
	}
	return &Generator{config: cfg, adjustments: adj}
}

// Config returns the normalized configuration.
func (g *Generator) Config() Config {
	return g.config
}

// Adjustments lists the clamps Normalize applied.
func (g *Generator) Adjustments() []string {
	return g.adjustments
}

// Runs reports how many times the pipeline has executed.
func (g *Generator) Runs() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.runs
}

// Generate returns the world, building it on the first call.
func (g *Generator) Generate() *WorldData {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.world != nil {
		return g.world
	}
	g.runs++
	g.world = g.build()
	return g.world
}

func (g *Generator) build() *WorldData {
	start := time.Now()
	cfg := g.config
	rng := rand.New(rand.NewSource(cfg.Seed))

	hm, climate, lm := g.landStages(rng)

	hydro := NewHydrology(hm, climate, cfg, rng)
	hydro.Run()

	w := &WorldData{
		Width:     cfg.Width,
		Height:    cfg.Height,
		Seed:      cfg.Seed,
		SeaLevel:  cfg.SeaLevel,
		Heightmap: hm,
		Rivers:    hydro.Rivers,
		Lakes:     hydro.Lakes,
	}
	w.Tiles = buildTiles(hm, climate, hydro, cfg)
	finalizeRegions(w, lm)
	w.MountainRanges = TraceMountainRanges(hm, cfg.MountainRanges)
	w.Caves = PlaceCaves(w, cfg.CaveSystems, rng)
	markCrossings(w)

	logger.Info("World generated",
		"seed", cfg.Seed,
		"width", cfg.Width,
		"height", cfg.Height,
		"continents", len(w.Continents),
		"islands", len(w.Islands),
		"rivers", len(w.Rivers),
		"lakes", len(w.Lakes),
		"mountain_ranges", len(w.MountainRanges),
		"caves", len(w.Caves),
		"duration", time.Since(start))
	return w
}

// landStages runs the heightmap, climate and landmass stages in order,
// drawing from rng in the sequence build relies on.
func (g *Generator) landStages(rng *rand.Rand) (*Heightmap, *Climate, *Landmasses) {
	cfg := g.config

	var hm *Heightmap
	if cfg.HeightmapMode == ModeNoise {
		hm = NoiseHeightmap(cfg.Width, cfg.Height, cfg.Seed, cfg.ElevationScale, cfg.SeaLevel)
	} else {
		hm = DiamondSquare(cfg.Width, cfg.Height, cfg.SeaLevel, rng)
	}
	logger.Debug("Heightmap generated",
		"mode", cfg.HeightmapMode,
		"grid_size", GridSize(cfg.Width, cfg.Height),
		"land_cells", countLand(hm, cfg.SeaLevel))

	climate := NewClimateModel(cfg.Seed, cfg.TemperatureScale, cfg.RainfallScale).Apply(hm)

	lm := NewLandmassIdentifier(cfg).Identify(hm, climate, rng)
	if len(lm.Continents) == 0 {
		logger.Info("No continents found", "seed", cfg.Seed)
	}
	return hm, climate, lm
}

func countLand(hm *Heightmap, seaLevel float64) int {
	n := 0
	for _, v := range hm.Values {
		if IsLand(v, seaLevel) {
			n++
		}
	}
	return n
}

// buildTiles derives every tile from the final heightmap.
func buildTiles(hm *Heightmap, climate *Climate, hydro *Hydrology, cfg Config) [][]Tile {
	classes := Classify(hm, cfg.SeaLevel)
	tiles := make([][]Tile, hm.Height)
	for y := 0; y < hm.Height; y++ {
		tiles[y] = make([]Tile, hm.Width)
		for x := 0; x < hm.Width; x++ {
			i := y*hm.Width + x
			e := clamp01(hm.Values[i])
			temp := climate.Temperature[i]
			hum := climate.Humidity[i]

			biome := ClassifyBiome(e, temp, hum, cfg.SeaLevel)
			if biome == BiomeOcean {
				switch {
				case hydro.LakeAt[i] != NoLake:
					biome = BiomeLake
				case hydro.RiverAt[i] != NoRiver:
					biome = BiomeRiver
				}
			}
			profile := biomeProfiles[biome]
			slope := maxSlope(hm, x, y)

			t := Tile{
				X:              x,
				Y:              y,
				Elevation:      e,
				Temperature:    temp,
				Humidity:       hum,
				Biome:          biome,
				Type:           profile.Type,
				FireState:      FireNone,
				RiverID:        hydro.RiverAt[i],
				LakeID:         hydro.LakeAt[i],
				MineralContent: clamp01(profile.Minerals * (0.6 + 0.4*e)),
				Erosion:        clamp01(slope*2 + hydro.Erosion[i]),
			}
			if !t.Type.IsWater() {
				t.SoilQuality = SoilQuality(e, hum, temp)
				t.Fertility = clamp01(profile.Fertility*0.7 + t.SoilQuality*0.3)
				t.VegetationDensity = clamp01(profile.Vegetation * (0.6 + 0.4*hum))
				access := 0.8 - slope*4
				if classes[i] == CellCoast {
					access += coastAccessBonus
				}
				if e > 0.8 {
					access -= highlandAccessCost
				}
				t.Accessibility = clamp01(access)
			}
			t.Resources = seedResources(profile, &t, cfg, nearWater(hm, x, y, cfg.SeaLevel))
			tiles[y][x] = t
		}
	}
	return tiles
}

func maxSlope(hm *Heightmap, x, y int) float64 {
	e := hm.At(x, y)
	slope := 0.0
	for _, d := range neighbors4 {
		nx, ny := x+d.X, y+d.Y
		if hm.InBounds(nx, ny) {
			slope = math.Max(slope, math.Abs(e-hm.At(nx, ny)))
		}
	}
	return slope
}

func nearWater(hm *Heightmap, x, y int, seaLevel float64) bool {
	for _, d := range neighbors8 {
		nx, ny := x+d.X, y+d.Y
		if hm.InBounds(nx, ny) && !IsLand(hm.At(nx, ny), seaLevel) {
			return true
		}
	}
	return false
}

type regionSets struct {
	biomes map[Biome]bool
	rivers map[int]bool
	lakes  map[int]bool
	area   int
}

func newRegionSets() *regionSets {
	return &regionSets{
		biomes: make(map[Biome]bool),
		rivers: make(map[int]bool),
		lakes:  make(map[int]bool),
	}
}

// finalizeRegions writes ownership onto land tiles and attaches biomes,
// rivers and lakes to their regions. Cells flooded by hydrology lose
// their owner; river and lake geometry is matched against the flood fill.
func finalizeRegions(w *WorldData, lm *Landmasses) {
	continents := make([]*regionSets, len(lm.Continents))
	for i := range continents {
		continents[i] = newRegionSets()
	}
	islands := make([]*regionSets, len(lm.Islands))
	for i := range islands {
		islands[i] = newRegionSets()
	}
	setsFor := func(ref RegionRef) *regionSets {
		switch ref.Kind {
		case RegionContinent:
			return continents[ref.Index]
		case RegionIsland:
			return islands[ref.Index]
		}
		return nil
	}

	for i, ref := range lm.Owner {
		if !ref.IsSet() {
			continue
		}
		t := &w.Tiles[i/w.Width][i%w.Width]
		s := setsFor(ref)
		if t.LakeID != NoLake {
			s.lakes[t.LakeID] = true
		}
		if t.Type.IsWater() {
			continue
		}
		t.Ownership = ref
		s.area++
		s.biomes[t.Biome] = true
	}
	for _, r := range w.Rivers {
		for _, p := range r.Path {
			if s := setsFor(lm.Owner[p.Y*w.Width+p.X]); s != nil {
				s.rivers[r.ID] = true
			}
		}
	}

	w.Continents = lm.Continents
	for i := range w.Continents {
		s := continents[i]
		w.Continents[i].Area = s.area
		w.Continents[i].Biomes = sortedBiomes(s.biomes)
		w.Continents[i].Rivers = sortedIDs(s.rivers)
		w.Continents[i].Lakes = sortedIDs(s.lakes)
	}
	w.Islands = lm.Islands
	for i := range w.Islands {
		s := islands[i]
		w.Islands[i].Area = s.area
		w.Islands[i].Biomes = sortedBiomes(s.biomes)
		w.Islands[i].Rivers = sortedIDs(s.rivers)
		w.Islands[i].Lakes = sortedIDs(s.lakes)
	}
}

func sortedBiomes(set map[Biome]bool) []Biome {
	out := make([]Biome, 0, len(set))
	for b := range set {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedIDs(set map[int]bool) []int {
	if len(set) == 0 {
		return nil
	}
	out := make([]int, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
