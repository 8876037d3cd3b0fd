package terrain

import (
	"math"
	"math/rand"
	"sort"
)

// component is one 4-connected land region found by flood fill.
type component struct {
	cells   []int
	bounds  Rect
	minElev float64
	maxElev float64
	sumElev float64
	sumTemp float64
	sumHum  float64
}

func (c *component) area() int { return len(c.cells) }

// Landmasses is the output of landmass identification.
type Landmasses struct {
	Continents []Continent
	Islands    []Island
	// Owner is the region of every cell, RegionNone for unowned.
	Owner []RegionRef
	// members lists the cells of each continent and island.
	continentCells [][]int
	islandCells    [][]int
}

// LandmassIdentifier partitions land into continents and islands.
type LandmassIdentifier struct {
	seaLevel       float64
	continentCount int
	islandDensity  float64
	islandMinArea  int
	islandMaxArea  int
}

// NewLandmassIdentifier creates an identifier from a normalized config.
func NewLandmassIdentifier(cfg Config) *LandmassIdentifier {
	return &LandmassIdentifier{
		seaLevel:       cfg.SeaLevel,
		continentCount: cfg.ContinentCount,
		islandDensity:  cfg.IslandDensity,
		islandMinArea:  cfg.IslandMinArea,
		islandMaxArea:  cfg.IslandMaxArea,
	}
}

// Identify flood-fills land cells and assigns regions.
func (l *LandmassIdentifier) Identify(hm *Heightmap, climate *Climate, rng *rand.Rand) *Landmasses {
	comps := l.components(hm, climate)

	// Discovery order is row-major, so a stable sort breaks area ties by
	// first cell.
	sort.SliceStable(comps, func(i, j int) bool {
		return comps[i].area() > comps[j].area()
	})

	lm := &Landmasses{Owner: make([]RegionRef, len(hm.Values))}
	for i := range comps {
		c := &comps[i]
		if len(lm.Continents) < l.continentCount {
			id := len(lm.Continents)
			lm.Continents = append(lm.Continents, Continent{
				ID:        id,
				Bounds:    c.bounds,
				Area:      c.area(),
				Elevation: c.elevationStats(),
				Climate:   c.climateStats(),
			})
			lm.continentCells = append(lm.continentCells, c.cells)
			for _, cell := range c.cells {
				lm.Owner[cell] = RegionRef{Kind: RegionContinent, Index: id}
			}
			continue
		}
		if c.area() < l.islandMinArea || c.area() > l.islandMaxArea {
			continue
		}
		if rng.Float64() >= l.islandDensity {
			continue
		}
		id := len(lm.Islands)
		center, radius := c.centerRadius(hm.Width)
		stats := c.elevationStats()
		lm.Islands = append(lm.Islands, Island{
			ID:        id,
			Type:      islandTypeFor(stats.Average),
			Center:    center,
			Radius:    radius,
			Bounds:    c.bounds,
			Area:      c.area(),
			Elevation: stats,
			Climate:   c.climateStats(),
		})
		lm.islandCells = append(lm.islandCells, c.cells)
		for _, cell := range c.cells {
			lm.Owner[cell] = RegionRef{Kind: RegionIsland, Index: id}
		}
	}
	return lm
}

func (l *LandmassIdentifier) components(hm *Heightmap, climate *Climate) []component {
	w := hm.Width
	visited := make([]bool, len(hm.Values))
	var comps []component
	queue := make([]int, 0, 64)

	for start, elev := range hm.Values {
		if visited[start] || !IsLand(elev, l.seaLevel) {
			continue
		}
		sx, sy := start%w, start/w
		c := component{
			bounds:  Rect{MinX: sx, MinY: sy, MaxX: sx, MaxY: sy},
			minElev: math.Inf(1),
			maxElev: math.Inf(-1),
		}
		visited[start] = true
		queue = append(queue[:0], start)
		for len(queue) > 0 {
			cell := queue[0]
			queue = queue[1:]
			x, y := cell%w, cell/w
			e := hm.Values[cell]

			c.cells = append(c.cells, cell)
			c.sumElev += e
			c.minElev = math.Min(c.minElev, e)
			c.maxElev = math.Max(c.maxElev, e)
			c.sumTemp += climate.Temperature[cell]
			c.sumHum += climate.Humidity[cell]
			c.bounds.MinX = min(c.bounds.MinX, x)
			c.bounds.MinY = min(c.bounds.MinY, y)
			c.bounds.MaxX = max(c.bounds.MaxX, x)
			c.bounds.MaxY = max(c.bounds.MaxY, y)

			for _, d := range neighbors4 {
				nx, ny := x+d.X, y+d.Y
				if !hm.InBounds(nx, ny) {
					continue
				}
				n := ny*w + nx
				if visited[n] || !IsLand(hm.Values[n], l.seaLevel) {
					continue
				}
				visited[n] = true
				queue = append(queue, n)
			}
		}
		comps = append(comps, c)
	}
	return comps
}

func (c *component) elevationStats() ElevationStats {
	return ElevationStats{
		Min:     c.minElev,
		Max:     c.maxElev,
		Average: c.sumElev / float64(c.area()),
	}
}

func (c *component) climateStats() ClimateStats {
	n := float64(c.area())
	return ClimateStats{
		Temperature: c.sumTemp / n,
		Rainfall:    c.sumHum / n,
	}
}

func (c *component) centerRadius(width int) (Point, float64) {
	var sx, sy float64
	for _, cell := range c.cells {
		sx += float64(cell % width)
		sy += float64(cell / width)
	}
	n := float64(c.area())
	cx, cy := sx/n, sy/n
	radius := 0.0
	for _, cell := range c.cells {
		dx := float64(cell%width) - cx
		dy := float64(cell/width) - cy
		radius = math.Max(radius, math.Sqrt(dx*dx+dy*dy))
	}
	return Point{X: int(math.Round(cx)), Y: int(math.Round(cy))}, radius
}

func islandTypeFor(avgElevation float64) IslandType {
	switch {
	case avgElevation > 0.7:
		return IslandMountainous
	case avgElevation > 0.5:
		return IslandVolcanic
	case avgElevation < 0.3:
		return IslandCoral
	default:
		return IslandContinental
	}
}
