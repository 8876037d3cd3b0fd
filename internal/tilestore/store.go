// Package tilestore holds the mutable per-tile state of a generated world.
package tilestore

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/lawnchairsociety/worldforge/internal/logger"
	"github.com/lawnchairsociety/worldforge/internal/terrain"
)

var (
	ErrOutOfBounds = errors.New("tile out of bounds")
	ErrWaterTile   = errors.New("operation not allowed on water")
)

// Recorder receives every applied mutation.
type Recorder interface {
	Record(m Mutation) error
}

// Mutation describes one applied tile change.
type Mutation struct {
	Op     string       `json:"op"`
	X      int          `json:"x"`
	Y      int          `json:"y"`
	Before terrain.Tile `json:"before"`
	After  terrain.Tile `json:"after"`
	At     time.Time    `json:"at"`
}

// Store keeps the live world grid and a coordinate-keyed cache in step.
// All methods are safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	world    *terrain.WorldData
	cache    map[terrain.Point]terrain.Tile
	seaLevel float64

	recorder Recorder
	now      func() time.Time
}

// New snapshots every tile of world into the cache. The store takes
// ownership of world.Tiles.
func New(world *terrain.WorldData) *Store {
	s := &Store{
		world:    world,
		cache:    make(map[terrain.Point]terrain.Tile, world.Width*world.Height),
		seaLevel: world.SeaLevel,
		now:      time.Now,
	}
	for y := range world.Tiles {
		for x := range world.Tiles[y] {
			s.cache[terrain.Point{X: x, Y: y}] = world.Tiles[y][x].Clone()
		}
	}
	return s
}

// SetRecorder attaches a mutation recorder. Pass nil to detach.
func (s *Store) SetRecorder(r Recorder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder = r
}

// Width returns the grid width.
func (s *Store) Width() int { return s.world.Width }

// Height returns the grid height.
func (s *Store) Height() int { return s.world.Height }

// SeaLevel returns the land/water threshold of the world.
func (s *Store) SeaLevel() float64 { return s.seaLevel }

// TileState returns a copy of the tile at (x, y). ok is false outside the grid.
func (s *Store) TileState(x, y int) (terrain.Tile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.cache[terrain.Point{X: x, Y: y}]
	if !ok {
		return terrain.Tile{}, false
	}
	return t.Clone(), true
}

// Tiles returns a deep copy of the whole grid, indexed [y][x].
func (s *Store) Tiles() [][]terrain.Tile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([][]terrain.Tile, len(s.world.Tiles))
	for y, row := range s.world.Tiles {
		out[y] = make([]terrain.Tile, len(row))
		for x := range row {
			out[y][x] = row[x].Clone()
		}
	}
	return out
}

// mutate applies fn to the tile at (x, y) under the write lock and writes
// the result to both views. fn reports whether it changed anything.
func (s *Store) mutate(op string, x, y int, fn func(t *terrain.Tile) (bool, error)) (terrain.Tile, error) {
	p := terrain.Point{X: x, Y: y}

	s.mu.Lock()
	before, ok := s.cache[p]
	if !ok {
		s.mu.Unlock()
		return terrain.Tile{}, ErrOutOfBounds
	}
	after := before.Clone()
	changed, err := fn(&after)
	if err != nil || !changed {
		s.mu.Unlock()
		return before.Clone(), err
	}
	s.cache[p] = after
	s.world.Tiles[y][x] = after.Clone()
	recorder := s.recorder
	at := s.now()
	s.mu.Unlock()

	if recorder != nil {
		m := Mutation{Op: op, X: x, Y: y, Before: before, After: after.Clone(), At: at}
		if err := recorder.Record(m); err != nil {
			logger.Warning("Failed to record tile mutation", "op", op, "x", x, "y", y, "error", err)
		}
	}
	return after.Clone(), nil
}

// retag restores land/water tagging after an elevation change.
func (s *Store) retag(t *terrain.Tile) {
	land := terrain.IsLand(t.Elevation, s.seaLevel)
	if land != t.Type.IsWater() {
		return
	}
	biome := terrain.BiomeLake
	if land {
		biome = terrain.ClassifyBiome(t.Elevation, t.Temperature, t.Humidity, s.seaLevel)
	}
	profile, err := terrain.Profile(biome)
	if err != nil {
		return
	}
	t.Biome = biome
	t.Type = profile.Type
	if !land {
		t.FireState = terrain.FireNone
	}
}

// clamp01 pins v to [0,1]. NaN becomes 0.
func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
