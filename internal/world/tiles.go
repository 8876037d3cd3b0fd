package world

import (
	"github.com/lawnchairsociety/worldforge/internal/terrain"
	"github.com/lawnchairsociety/worldforge/internal/tilestore"
)

// Tiles returns a copy of the live grid indexed [y][x].
func (m *Manager) Tiles() ([][]terrain.Tile, error) {
	s, err := m.liveStore()
	if err != nil {
		return nil, err
	}
	return s.Tiles(), nil
}

// TileState returns a copy of one tile.
func (m *Manager) TileState(x, y int) (terrain.Tile, error) {
	s, err := m.liveStore()
	if err != nil {
		return terrain.Tile{}, err
	}
	t, ok := s.TileState(x, y)
	if !ok {
		return terrain.Tile{}, tilestore.ErrOutOfBounds
	}
	return t, nil
}

// Statistics aggregates the live grid.
func (m *Manager) Statistics() (tilestore.Statistics, error) {
	s, err := m.liveStore()
	if err != nil {
		return tilestore.Statistics{}, err
	}
	return s.Statistics(), nil
}

// UpdateTileState applies a partial update to one tile.
func (m *Manager) UpdateTileState(x, y int, p tilestore.Patch) (terrain.Tile, error) {
	s, err := m.writableStore()
	if err != nil {
		return terrain.Tile{}, err
	}
	return s.UpdateTileState(x, y, p)
}

// UpdateTileStates applies each update independently and reports how many
// succeeded alongside the joined errors of the rest.
func (m *Manager) UpdateTileStates(updates []tilestore.Update) (int, error) {
	s, err := m.writableStore()
	if err != nil {
		return 0, err
	}
	return s.UpdateTileStates(updates)
}

// ApplyFarming turns a land tile into farmland.
func (m *Manager) ApplyFarming(x, y int) (terrain.Tile, error) {
	s, err := m.writableStore()
	if err != nil {
		return terrain.Tile{}, err
	}
	return s.ApplyFarming(x, y)
}

// ApplyBuilding places a named building on a tile.
func (m *Manager) ApplyBuilding(x, y int, building string) (terrain.Tile, error) {
	s, err := m.writableStore()
	if err != nil {
		return terrain.Tile{}, err
	}
	return s.ApplyBuilding(x, y, building)
}

// ApplyErosion wears a tile down by intensity, clamped to [0,1].
func (m *Manager) ApplyErosion(x, y int, intensity float64) (terrain.Tile, error) {
	s, err := m.writableStore()
	if err != nil {
		return terrain.Tile{}, err
	}
	return s.ApplyErosion(x, y, intensity)
}

// ApplyAgeEffects ages a tile by the given number of years.
func (m *Manager) ApplyAgeEffects(x, y int, years float64) (terrain.Tile, error) {
	s, err := m.writableStore()
	if err != nil {
		return terrain.Tile{}, err
	}
	return s.ApplyAgeEffects(x, y, years)
}

// StartFire sets a land tile burning.
func (m *Manager) StartFire(x, y int) (terrain.Tile, error) {
	s, err := m.writableStore()
	if err != nil {
		return terrain.Tile{}, err
	}
	return s.StartFire(x, y)
}

// ExtinguishFire puts out a burning tile.
func (m *Manager) ExtinguishFire(x, y int) (terrain.Tile, error) {
	s, err := m.writableStore()
	if err != nil {
		return terrain.Tile{}, err
	}
	return s.ExtinguishFire(x, y)
}
