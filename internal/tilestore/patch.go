package tilestore

import (
	"errors"
	"fmt"

	"github.com/lawnchairsociety/worldforge/internal/terrain"
)

// Patch is a partial tile record. Nil fields are left unchanged and
// numeric fields are clamped to [0,1].
type Patch struct {
	Elevation         *float64             `json:"elevation,omitempty"`
	Temperature       *float64             `json:"temperature,omitempty"`
	Humidity          *float64             `json:"humidity,omitempty"`
	Fertility         *float64             `json:"fertility,omitempty"`
	SoilQuality       *float64             `json:"soil_quality,omitempty"`
	VegetationDensity *float64             `json:"vegetation_density,omitempty"`
	MineralContent    *float64             `json:"mineral_content,omitempty"`
	Erosion           *float64             `json:"erosion,omitempty"`
	Accessibility     *float64             `json:"accessibility,omitempty"`
	Age               *float64             `json:"age,omitempty"`
	Biome             *terrain.Biome       `json:"biome,omitempty"`
	Type              *terrain.TerrainType `json:"type,omitempty"`
	FireState         *terrain.FireState   `json:"fire_state,omitempty"`
	Building          *string              `json:"building,omitempty"`
	Resources         []terrain.Resource   `json:"resources,omitempty"`
}

// Float returns a pointer to v, for building patches.
func Float(v float64) *float64 { return &v }

// PatchFrom returns a patch that sets every mutable field to t's value.
func PatchFrom(t terrain.Tile) Patch {
	f := func(v float64) *float64 { return &v }
	biome, typ, fire, building := t.Biome, t.Type, t.FireState, t.Building
	resources := append([]terrain.Resource{}, t.Resources...)
	return Patch{
		Elevation:         f(t.Elevation),
		Temperature:       f(t.Temperature),
		Humidity:          f(t.Humidity),
		Fertility:         f(t.Fertility),
		SoilQuality:       f(t.SoilQuality),
		VegetationDensity: f(t.VegetationDensity),
		MineralContent:    f(t.MineralContent),
		Erosion:           f(t.Erosion),
		Accessibility:     f(t.Accessibility),
		Age:               f(t.Age),
		Biome:             &biome,
		Type:              &typ,
		FireState:         &fire,
		Building:          &building,
		Resources:         resources,
	}
}

// IsEmpty reports whether the patch sets no field.
func (p Patch) IsEmpty() bool {
	return p.Elevation == nil && p.Temperature == nil && p.Humidity == nil &&
		p.Fertility == nil && p.SoilQuality == nil && p.VegetationDensity == nil &&
		p.MineralContent == nil && p.Erosion == nil && p.Accessibility == nil &&
		p.Age == nil && p.Biome == nil && p.Type == nil && p.FireState == nil &&
		p.Building == nil && p.Resources == nil
}

// apply merges the patch into t. It reports whether the elevation changed
// without an explicit type.
func (p Patch) apply(t *terrain.Tile) (retag bool) {
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = clamp01(*v)
		}
	}
	set(&t.Elevation, p.Elevation)
	set(&t.Temperature, p.Temperature)
	set(&t.Humidity, p.Humidity)
	set(&t.Fertility, p.Fertility)
	set(&t.SoilQuality, p.SoilQuality)
	set(&t.VegetationDensity, p.VegetationDensity)
	set(&t.MineralContent, p.MineralContent)
	set(&t.Erosion, p.Erosion)
	set(&t.Accessibility, p.Accessibility)
	if p.Age != nil && *p.Age >= 0 {
		t.Age = *p.Age
	}
	if p.Biome != nil {
		t.Biome = *p.Biome
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.FireState != nil {
		t.FireState = *p.FireState
	}
	if p.Building != nil {
		t.Building = *p.Building
	}
	if p.Resources != nil {
		t.Resources = append([]terrain.Resource(nil), p.Resources...)
	}
	return p.Elevation != nil && p.Type == nil
}

// Update addresses a patch to one tile.
type Update struct {
	X     int   `json:"x"`
	Y     int   `json:"y"`
	Patch Patch `json:"patch"`
}

// UpdateTileState merges a patch into the tile at (x, y).
func (s *Store) UpdateTileState(x, y int, p Patch) (terrain.Tile, error) {
	return s.mutate("update", x, y, func(t *terrain.Tile) (bool, error) {
		if p.IsEmpty() {
			return false, nil
		}
		if p.apply(t) {
			s.retag(t)
		}
		return true, nil
	})
}

// UpdateTileStates applies each update independently. Failed updates do
// not roll back earlier ones; their errors are joined.
func (s *Store) UpdateTileStates(updates []Update) (int, error) {
	applied := 0
	var errs []error
	for _, u := range updates {
		if _, err := s.UpdateTileState(u.X, u.Y, u.Patch); err != nil {
			errs = append(errs, fmt.Errorf("tile (%d,%d): %w", u.X, u.Y, err))
			continue
		}
		applied++
	}
	return applied, errors.Join(errs...)
}
