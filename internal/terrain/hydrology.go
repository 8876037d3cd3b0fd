package terrain

import (
	"math"
	"math/rand"
	"sort"

	"github.com/lawnchairsociety/worldforge/internal/logger"
)

const (
	riverMinPoints   = 5
	riverBasinMargin = 3
	riverWaterMargin = 0.01
	valleyFlattening = 0.5
)

// Hydrology places rivers, tributaries and lakes and carves them into the
// heightmap it was created with.
type Hydrology struct {
	hm      *Heightmap
	climate *Climate
	rng     *rand.Rand

	seaLevel          float64
	riverCount        int
	lakeCount         int
	maxSteps          int
	sourceThreshold   float64
	sourceProbability float64
	lakeProbability   float64
	lakeMinDepth      float64

	// RiverAt and LakeAt hold the river or lake id of each cell.
	RiverAt []int
	LakeAt  []int
	// Erosion accumulates valley widening around river points.
	Erosion []float64

	Rivers []River
	Lakes  []Lake
}

// NewHydrology creates an engine over hm. The heightmap is modified in place.
func NewHydrology(hm *Heightmap, climate *Climate, cfg Config, rng *rand.Rand) *Hydrology {
	h := &Hydrology{
		hm:                hm,
		climate:           climate,
		rng:               rng,
		seaLevel:          cfg.SeaLevel,
		riverCount:        cfg.RiverCount,
		lakeCount:         cfg.LakeCount,
		maxSteps:          cfg.MaxRiverSteps,
		sourceThreshold:   cfg.RiverSourceThreshold,
		sourceProbability: cfg.RiverSourceProbability,
		lakeProbability:   cfg.LakeProbability,
		lakeMinDepth:      cfg.LakeMinDepth,
		RiverAt:           make([]int, len(hm.Values)),
		LakeAt:            make([]int, len(hm.Values)),
		Erosion:           make([]float64, len(hm.Values)),
	}
	for i := range h.RiverAt {
		h.RiverAt[i] = NoRiver
		h.LakeAt[i] = NoLake
	}
	return h
}

// Run executes the full hydrology pass.
func (h *Hydrology) Run() {
	mains := h.placeRivers()
	h.placeLakes()
	h.erode()

	if len(h.Rivers) == 0 {
		logger.Info("No river sources found")
	}
	if len(h.Lakes) == 0 {
		logger.Info("No lake basins found", "min_depth", h.lakeMinDepth)
	}
	logger.Debug("Hydrology complete",
		"main_rivers", mains,
		"rivers", len(h.Rivers),
		"lakes", len(h.Lakes))
}

// placeRivers traces, carves and branches the main rivers and returns how
// many were kept.
func (h *Hydrology) placeRivers() int {
	var mains []int
	for _, src := range h.FindRiverSources() {
		path, profile := h.traceDownhill(src, nil)
		if len(path) < riverMinPoints {
			continue
		}
		id := len(h.Rivers)
		h.Rivers = append(h.Rivers, h.newRiver(id, NoRiver, path, profile))
		mains = append(mains, id)
	}
	// Carve only after every main river is traced on uncarved heights.
	for _, id := range mains {
		h.carve(id)
	}
	for _, id := range mains {
		h.addTributaries(id)
	}
	return len(mains)
}

func (h *Hydrology) placeLakes() {
	for _, b := range h.selectBasins(h.FindLakeBasins()) {
		h.placeLake(b)
	}
}

// FindRiverSources returns retained source candidates, highest first,
// capped at the configured river count.
func (h *Hydrology) FindRiverSources() []Point {
	var sources []Point
	for y := 0; y < h.hm.Height; y++ {
		for x := 0; x < h.hm.Width; x++ {
			e := h.hm.At(x, y)
			if e <= h.sourceThreshold || !IsLand(e, h.seaLevel) {
				continue
			}
			if !h.isStrictMax(x, y) {
				continue
			}
			if h.rng.Float64() >= h.sourceProbability {
				continue
			}
			sources = append(sources, Point{X: x, Y: y})
		}
	}
	sort.SliceStable(sources, func(i, j int) bool {
		return h.hm.AtPoint(sources[i]) > h.hm.AtPoint(sources[j])
	})
	if len(sources) > h.riverCount {
		sources = sources[:h.riverCount]
	}
	return sources
}

func (h *Hydrology) isStrictMax(x, y int) bool {
	e := h.hm.At(x, y)
	for _, d := range neighbors8 {
		nx, ny := x+d.X, y+d.Y
		if h.hm.InBounds(nx, ny) && h.hm.At(nx, ny) >= e {
			return false
		}
	}
	return true
}

func (h *Hydrology) onBorder(p Point) bool {
	return p.X == 0 || p.Y == 0 || p.X == h.hm.Width-1 || p.Y == h.hm.Height-1
}

// traceDownhill follows steepest descent from start. blocked cells are
// never entered. The returned profile holds the elevation of each point at
// trace time.
func (h *Hydrology) traceDownhill(start Point, blocked func(Point) bool) ([]Point, []float64) {
	path := []Point{start}
	profile := []float64{h.hm.AtPoint(start)}
	visited := map[Point]bool{start: true}
	cur := start

	for steps := 0; steps < h.maxSteps; steps++ {
		e := h.hm.AtPoint(cur)
		if e <= h.seaLevel || h.onBorder(cur) {
			break
		}
		next, found := cur, false
		lowest := e
		for _, d := range neighbors8 {
			n := Point{X: cur.X + d.X, Y: cur.Y + d.Y}
			if !h.hm.InBounds(n.X, n.Y) || visited[n] {
				continue
			}
			if blocked != nil && blocked(n) {
				continue
			}
			if ne := h.hm.AtPoint(n); ne < lowest {
				lowest = ne
				next = n
				found = true
			}
		}
		if !found {
			break
		}
		path = append(path, next)
		profile = append(profile, lowest)
		visited[next] = true
		cur = next
	}
	return path, profile
}

func (h *Hydrology) newRiver(id, parent int, path []Point, profile []float64) River {
	length := pathLength(path)
	drop := profile[0] - profile[len(profile)-1]
	flow := float64(len(path))*0.5 + drop*30
	r := River{
		ID:       id,
		ParentID: parent,
		Path:     path,
		Profile:  profile,
		Source:   path[0],
		Mouth:    path[len(path)-1],
		Length:   length,
		FlowRate: flow,
		Width:    clampRange(1+flow/10, 1, 6),
		Depth:    clampRange(0.05+flow/200, 0.05, 0.3),
		Basin:    h.basinBounds(path),
	}
	r.Navigable = r.Length > 20 && r.FlowRate > 15
	return r
}

func pathLength(path []Point) float64 {
	length := 0.0
	for i := 1; i < len(path); i++ {
		length += path[i-1].Dist(path[i])
	}
	return length
}

func (h *Hydrology) basinBounds(path []Point) Rect {
	b := Rect{MinX: path[0].X, MinY: path[0].Y, MaxX: path[0].X, MaxY: path[0].Y}
	for _, p := range path[1:] {
		b.MinX = min(b.MinX, p.X)
		b.MinY = min(b.MinY, p.Y)
		b.MaxX = max(b.MaxX, p.X)
		b.MaxY = max(b.MaxY, p.Y)
	}
	b.MinX = max(0, b.MinX-riverBasinMargin)
	b.MinY = max(0, b.MinY-riverBasinMargin)
	b.MaxX = min(h.hm.Width-1, b.MaxX+riverBasinMargin)
	b.MaxY = min(h.hm.Height-1, b.MaxY+riverBasinMargin)
	return b
}

// carve sinks the river bed below sea level and flattens the valley
// around it toward sea level.
func (h *Hydrology) carve(id int) {
	r := &h.Rivers[id]
	ceiling := h.seaLevel - riverWaterMargin
	for _, p := range r.Path {
		e := h.hm.AtPoint(p) - r.Depth
		if e > ceiling {
			e = ceiling
		}
		if e < 0 {
			e = 0
		}
		h.hm.Set(p.X, p.Y, e)
		i := p.Y*h.hm.Width + p.X
		if h.RiverAt[i] == NoRiver {
			h.RiverAt[i] = id
		}
	}

	// Each valley cell takes its strongest falloff over the whole path.
	radius := int(math.Ceil(r.Width * 2))
	falloff := make(map[int]float64)
	for _, p := range r.Path {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				x, y := p.X+dx, p.Y+dy
				if !h.hm.InBounds(x, y) {
					continue
				}
				d := math.Sqrt(float64(dx*dx + dy*dy))
				if d == 0 || d > float64(radius) {
					continue
				}
				i := y*h.hm.Width + x
				if f := 1 - d/float64(radius); f > falloff[i] {
					falloff[i] = f
				}
			}
		}
	}
	cells := make([]int, 0, len(falloff))
	for i := range falloff {
		cells = append(cells, i)
	}
	sort.Ints(cells)
	for _, i := range cells {
		e := h.hm.Values[i]
		if e <= h.seaLevel || h.RiverAt[i] != NoRiver || h.LakeAt[i] != NoLake {
			continue
		}
		h.hm.Values[i] = h.seaLevel + (e-h.seaLevel)*(1-valleyFlattening*falloff[i])
	}
}

const (
	erosionRadius   = 3
	erosionGain     = 0.05
	erosionLowering = 0.005
)

// erode widens valleys around every river point.
func (h *Hydrology) erode() {
	for ri := range h.Rivers {
		for _, p := range h.Rivers[ri].Path {
			for dy := -erosionRadius; dy <= erosionRadius; dy++ {
				for dx := -erosionRadius; dx <= erosionRadius; dx++ {
					x, y := p.X+dx, p.Y+dy
					if !h.hm.InBounds(x, y) {
						continue
					}
					d := math.Sqrt(float64(dx*dx + dy*dy))
					if d > erosionRadius {
						continue
					}
					w := 1 - d/(erosionRadius+1)
					i := y*h.hm.Width + x
					h.Erosion[i] = math.Min(1, h.Erosion[i]+erosionGain*w)

					e := h.hm.Values[i] - erosionLowering*w
					if IsLand(h.hm.Values[i], h.seaLevel) {
						e = math.Max(h.seaLevel, e)
					} else {
						e = math.Max(0, e)
					}
					h.hm.Values[i] = e
				}
			}
		}
	}
}
