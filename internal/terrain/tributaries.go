package terrain

import "math"

const (
	tributaryMinPoints       = 3
	tributarySearchRadius    = 20
	tributaryMinDistance     = 4
	tributarySourceElevation = 0.6
	tributaryArrival         = 1.5
)

// addTributaries joins one to three secondary rivers to a main river.
func (h *Hydrology) addTributaries(parent int) {
	count := 1 + h.rng.Intn(3)
	for n := 0; n < count; n++ {
		path := h.Rivers[parent].Path
		joinIdx := int(float64(len(path)-1) * (0.3 + h.rng.Float64()*0.4))
		join := path[joinIdx]

		src, ok := h.tributarySource(join)
		if !ok {
			continue
		}
		trib, profile, reached := h.traceToward(src, join)
		if !reached || len(trib) < tributaryMinPoints {
			continue
		}

		p := h.Rivers[parent]
		id := len(h.Rivers)
		r := h.newRiver(id, parent, trib, profile)
		r.FlowRate = p.FlowRate*0.3 + float64(len(trib))*0.3
		r.Width = math.Max(1, p.Width*0.5)
		r.Depth = p.Depth * 0.6
		r.Navigable = r.Length > 20 && r.FlowRate > 15
		h.Rivers = append(h.Rivers, r)
		h.Rivers[parent].Tributaries = append(h.Rivers[parent].Tributaries, id)
		h.carve(id)
	}
}

// tributarySource picks a high cell near join that is not already a river.
func (h *Hydrology) tributarySource(join Point) (Point, bool) {
	var candidates []Point
	r := tributarySearchRadius
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			p := Point{X: join.X + dx, Y: join.Y + dy}
			if !h.hm.InBounds(p.X, p.Y) {
				continue
			}
			d := p.Dist(join)
			if d < tributaryMinDistance || d > float64(r) {
				continue
			}
			e := h.hm.AtPoint(p)
			if e <= tributarySourceElevation || !IsLand(e, h.seaLevel) {
				continue
			}
			if h.RiverAt[p.Y*h.hm.Width+p.X] != NoRiver {
				continue
			}
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return Point{}, false
	}
	return candidates[h.rng.Intn(len(candidates))], true
}

// traceToward walks from src to goal, each step minimizing
// elevation*2 + distance*0.5 over unvisited neighbors.
func (h *Hydrology) traceToward(src, goal Point) ([]Point, []float64, bool) {
	path := []Point{src}
	profile := []float64{h.hm.AtPoint(src)}
	visited := map[Point]bool{src: true}
	cur := src

	for steps := 0; steps < h.maxSteps; steps++ {
		if cur.Dist(goal) <= tributaryArrival {
			if cur != goal {
				path = append(path, goal)
				profile = append(profile, h.hm.AtPoint(goal))
			}
			return path, profile, true
		}
		best, found := cur, false
		bestScore := math.Inf(1)
		for _, d := range neighbors8 {
			n := Point{X: cur.X + d.X, Y: cur.Y + d.Y}
			if !h.hm.InBounds(n.X, n.Y) || visited[n] {
				continue
			}
			score := h.hm.AtPoint(n)*2 + n.Dist(goal)*0.5
			if score < bestScore {
				bestScore = score
				best = n
				found = true
			}
		}
		if !found {
			break
		}
		path = append(path, best)
		profile = append(profile, h.hm.AtPoint(best))
		visited[best] = true
		cur = best
	}
	return path, profile, false
}
