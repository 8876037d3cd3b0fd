package terrain

import (
	"math/rand"
	"sort"
)

const (
	peakElevation      = 0.65
	ridgeElevation     = 0.6
	ridgeMaxSteps      = 40
	ridgeMinPoints     = 3
	peakSeparation     = 10
	caveElevation      = 0.5
	caveSeparation     = 5
	caveAttemptsFactor = 20
	crossingReach      = 2
	crossingSpacing    = 5
	settlementSoil     = 0.55
	settlementFertile  = 0.5
)

// TraceMountainRanges follows ridges from the highest separated peaks.
func TraceMountainRanges(hm *Heightmap, count int) []MountainRange {
	if count <= 0 {
		return nil
	}
	var peaks []Point
	for y := 0; y < hm.Height; y++ {
		for x := 0; x < hm.Width; x++ {
			e := hm.At(x, y)
			if e <= peakElevation {
				continue
			}
			isPeak := true
			for _, d := range neighbors8 {
				nx, ny := x+d.X, y+d.Y
				if hm.InBounds(nx, ny) && hm.At(nx, ny) > e {
					isPeak = false
					break
				}
			}
			if isPeak {
				peaks = append(peaks, Point{X: x, Y: y})
			}
		}
	}
	sort.SliceStable(peaks, func(i, j int) bool {
		return hm.AtPoint(peaks[i]) > hm.AtPoint(peaks[j])
	})

	var ranges []MountainRange
	for _, peak := range peaks {
		if len(ranges) >= count {
			break
		}
		tooClose := false
		for _, r := range ranges {
			if r.Peak.Dist(peak) < peakSeparation {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}
		path := traceRidge(hm, peak)
		if len(path) < ridgeMinPoints {
			continue
		}
		ranges = append(ranges, MountainRange{
			ID:            len(ranges),
			Peak:          peak,
			PeakElevation: hm.AtPoint(peak),
			Path:          path,
		})
	}
	return ranges
}

// traceRidge steps to the highest unvisited neighbor that stays above
// ridge elevation.
func traceRidge(hm *Heightmap, peak Point) []Point {
	path := []Point{peak}
	visited := map[Point]bool{peak: true}
	cur := peak
	for steps := 0; steps < ridgeMaxSteps; steps++ {
		var next Point
		best := ridgeElevation
		found := false
		for _, d := range neighbors8 {
			n := Point{X: cur.X + d.X, Y: cur.Y + d.Y}
			if !hm.InBounds(n.X, n.Y) || visited[n] {
				continue
			}
			// Adjacent path cells would let the ridge curl back on itself.
			if len(path) > 1 && n.Dist(path[len(path)-2]) < 1.5 {
				continue
			}
			if e := hm.AtPoint(n); e > best {
				best = e
				next = n
				found = true
			}
		}
		if !found {
			break
		}
		path = append(path, next)
		visited[next] = true
		cur = next
	}
	return path
}

// PlaceCaves scatters cave entrances over high dry land.
func PlaceCaves(w *WorldData, count int, rng *rand.Rand) []Cave {
	if count <= 0 {
		return nil
	}
	var candidates []Point
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			t := &w.Tiles[y][x]
			if t.Type.IsWater() || t.Elevation <= caveElevation {
				continue
			}
			candidates = append(candidates, Point{X: x, Y: y})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	var caves []Cave
	for attempt := 0; attempt < count*caveAttemptsFactor && len(caves) < count; attempt++ {
		p := candidates[rng.Intn(len(candidates))]
		tooClose := false
		for _, c := range caves {
			if c.Entrance.Dist(p) < caveSeparation {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}
		caves = append(caves, Cave{
			ID:       len(caves),
			Entrance: p,
			Depth:    1 + rng.Intn(5),
			Length:   3 + rng.Intn(18),
		})
	}
	return caves
}

// SettlementRelevant reports whether a tile is good ground for a town.
func SettlementRelevant(t *Tile) bool {
	if t.Type.IsWater() {
		return false
	}
	switch t.Biome {
	case BiomeSnowyPeaks, BiomeAlpine, BiomeMountain:
		return false
	}
	return t.SoilQuality >= settlementSoil && t.Fertility >= settlementFertile
}

// markCrossings records river points near settlement-relevant ground.
func markCrossings(w *WorldData) {
	for ri := range w.Rivers {
		r := &w.Rivers[ri]
		last := -crossingSpacing
		for i, p := range r.Path {
			if i-last < crossingSpacing || !nearSettlement(w, p) {
				continue
			}
			r.Crossings = append(r.Crossings, p)
			last = i
		}
	}
}

func nearSettlement(w *WorldData, p Point) bool {
	for dy := -crossingReach; dy <= crossingReach; dy++ {
		for dx := -crossingReach; dx <= crossingReach; dx++ {
			t := w.Tile(p.X+dx, p.Y+dy)
			if t == nil {
				continue
			}
			if (Point{X: dx, Y: dy}).Dist(Point{}) > crossingReach {
				continue
			}
			if SettlementRelevant(t) {
				return true
			}
		}
	}
	return false
}
