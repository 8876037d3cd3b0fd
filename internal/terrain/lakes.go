package terrain

import (
	"math"
	"sort"
)

const (
	lakeNearSea            = 0.05
	lakeMaxRadius          = 10
	lakeCenterMargin       = 0.05
	lakeInflowReach        = 2
	lakeOutflowProbability = 0.7
	lakeOutflowMinPoints   = 3
	lakeRimStepDegrees     = 10
	saltTemperature        = 0.7
	saltHumidity           = 0.3
	magicalChance          = 0.05
)

// Basin is a lake candidate: a strict local minimum and the largest ring
// radius whose cells are all higher than the center.
type Basin struct {
	Center Point
	Radius int
	Depth  float64
}

// FindLakeBasins returns retained basin candidates, deepest first.
func (h *Hydrology) FindLakeBasins() []Basin {
	var basins []Basin
	for y := 1; y < h.hm.Height-1; y++ {
		for x := 1; x < h.hm.Width-1; x++ {
			e := h.hm.At(x, y)
			if e < h.seaLevel-lakeNearSea {
				continue
			}
			i := y*h.hm.Width + x
			if h.RiverAt[i] != NoRiver || h.LakeAt[i] != NoLake {
				continue
			}
			lowest := math.Inf(1)
			strict := true
			for _, d := range neighbors8 {
				ne := h.hm.At(x+d.X, y+d.Y)
				if ne <= e {
					strict = false
					break
				}
				lowest = math.Min(lowest, ne)
			}
			if !strict || lowest-e <= h.lakeMinDepth {
				continue
			}
			center := Point{X: x, Y: y}
			radius := h.basinRadius(center)
			if h.rng.Float64() >= h.lakeProbability {
				continue
			}
			basins = append(basins, Basin{Center: center, Radius: radius, Depth: lowest - e})
		}
	}
	sort.SliceStable(basins, func(i, j int) bool {
		return basins[i].Depth > basins[j].Depth
	})
	return basins
}

// basinRadius expands rings around center until one has an out-of-bounds
// cell or a cell not higher than the center.
func (h *Hydrology) basinRadius(center Point) int {
	e := h.hm.AtPoint(center)
	radius := 0
	for ring := 1; ring <= lakeMaxRadius; ring++ {
		for dy := -ring; dy <= ring; dy++ {
			for dx := -ring; dx <= ring; dx++ {
				d := math.Sqrt(float64(dx*dx + dy*dy))
				if d <= float64(ring-1) || d > float64(ring) {
					continue
				}
				x, y := center.X+dx, center.Y+dy
				if !h.hm.InBounds(x, y) || h.hm.At(x, y) <= e {
					return radius
				}
			}
		}
		radius = ring
	}
	return radius
}

// selectBasins keeps the deepest non-overlapping basins up to the lake count.
func (h *Hydrology) selectBasins(basins []Basin) []Basin {
	var picked []Basin
	for _, b := range basins {
		if len(picked) >= h.lakeCount {
			break
		}
		overlaps := false
		for _, p := range picked {
			if b.Center.Dist(p.Center) <= float64(b.Radius+p.Radius+1) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			picked = append(picked, b)
		}
	}
	return picked
}

// placeLake connects and fills one basin. Earlier carving may have
// reshaped it, so the ring test is repeated first.
func (h *Hydrology) placeLake(b Basin) {
	b.Radius = min(b.Radius, h.basinRadius(b.Center))
	if b.Radius < 1 {
		return
	}

	id := len(h.Lakes)
	lake := Lake{
		ID:        id,
		Center:    b.Center,
		Radius:    b.Radius,
		Depth:     b.Depth,
		OutflowID: NoRiver,
	}

	disk := h.disk(b.Center, b.Radius)
	for _, p := range disk {
		cellDepth := b.Depth * (1 - p.Dist(b.Center)/float64(b.Radius+1))
		lake.DepthProfile = append(lake.DepthProfile, cellDepth)
		lake.Volume += cellDepth
	}

	t := h.climate.TemperatureAt(b.Center.X, b.Center.Y)
	hum := h.climate.HumidityAt(b.Center.X, b.Center.Y)
	switch {
	case t > saltTemperature && hum < saltHumidity:
		lake.WaterType = WaterSalt
	case h.rng.Float64() < magicalChance:
		lake.WaterType = WaterMagical
	default:
		lake.WaterType = WaterFresh
	}

	reach := float64(b.Radius + lakeInflowReach)
	for _, r := range h.Rivers {
		if r.Mouth.Dist(b.Center) <= reach {
			lake.Inflow = append(lake.Inflow, r.ID)
		}
	}

	if len(lake.Inflow) > 0 && h.rng.Float64() < lakeOutflowProbability {
		lake.OutflowID = h.traceOutflow(b, disk)
	}

	h.fill(id, b, disk)
	h.Lakes = append(h.Lakes, lake)
}

// traceOutflow starts a river at the lowest sampled rim point. The rim
// must be land for water to leave the basin.
func (h *Hydrology) traceOutflow(b Basin, disk []Point) int {
	rim, ok := h.lowestRimPoint(b)
	if !ok || !IsLand(h.hm.AtPoint(rim), h.seaLevel) {
		return NoRiver
	}
	inDisk := make(map[Point]bool, len(disk))
	for _, p := range disk {
		inDisk[p] = true
	}
	path, profile := h.traceDownhill(rim, func(p Point) bool {
		return inDisk[p] || h.LakeAt[p.Y*h.hm.Width+p.X] != NoLake
	})
	if len(path) < lakeOutflowMinPoints {
		return NoRiver
	}
	id := len(h.Rivers)
	h.Rivers = append(h.Rivers, h.newRiver(id, NoRiver, path, profile))
	h.carve(id)
	return id
}

func (h *Hydrology) lowestRimPoint(b Basin) (Point, bool) {
	ring := float64(b.Radius + 1)
	var best Point
	found := false
	lowest := math.Inf(1)
	for deg := 0; deg < 360; deg += lakeRimStepDegrees {
		rad := float64(deg) * math.Pi / 180
		p := Point{
			X: b.Center.X + int(math.Round(ring*math.Cos(rad))),
			Y: b.Center.Y + int(math.Round(ring*math.Sin(rad))),
		}
		if !h.hm.InBounds(p.X, p.Y) {
			continue
		}
		if e := h.hm.AtPoint(p); e < lowest {
			lowest = e
			best = p
			found = true
		}
	}
	return best, found
}

// fill floods the disk, holding the center a fixed margin below sea level.
func (h *Hydrology) fill(id int, b Basin, disk []Point) {
	margin := math.Min(lakeCenterMargin, h.seaLevel/2)
	for _, p := range disk {
		i := p.Y*h.hm.Width + p.X
		var e float64
		if p == b.Center {
			e = h.seaLevel - margin
		} else {
			falloff := 1 - p.Dist(b.Center)/float64(b.Radius+1)
			ceiling := h.seaLevel - riverWaterMargin - (margin-riverWaterMargin)*falloff
			e = math.Min(h.hm.Values[i], ceiling)
		}
		h.hm.Values[i] = math.Max(0, e)
		h.LakeAt[i] = id
	}
}

func (h *Hydrology) disk(center Point, radius int) []Point {
	var cells []Point
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			p := Point{X: center.X + dx, Y: center.Y + dy}
			if !h.hm.InBounds(p.X, p.Y) {
				continue
			}
			if p.Dist(center) <= float64(radius) {
				cells = append(cells, p)
			}
		}
	}
	return cells
}
