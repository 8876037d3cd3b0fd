package world

import (
	"github.com/lawnchairsociety/worldforge/internal/database"
	"github.com/lawnchairsociety/worldforge/internal/terrain"
)

// ToArchive converts a generated world into archive rows.
func ToArchive(w *terrain.WorldData, fingerprint, mode string) database.WorldArchive {
	a := database.WorldArchive{
		World: database.WorldRecord{
			Seed:          w.Seed,
			Width:         w.Width,
			Height:        w.Height,
			SeaLevel:      w.SeaLevel,
			HeightmapMode: mode,
			Fingerprint:   fingerprint,
		},
	}

	for _, r := range w.Rivers {
		a.Rivers = append(a.Rivers, database.RiverRecord{
			RiverID:     r.ID,
			ParentID:    r.ParentID,
			SourceX:     r.Source.X,
			SourceY:     r.Source.Y,
			MouthX:      r.Mouth.X,
			MouthY:      r.Mouth.Y,
			Length:      r.Length,
			Width:       r.Width,
			Depth:       r.Depth,
			FlowRate:    r.FlowRate,
			Navigable:   r.Navigable,
			Tributaries: len(r.Tributaries),
			Crossings:   len(r.Crossings),
		})
	}

	for _, l := range w.Lakes {
		a.Lakes = append(a.Lakes, database.LakeRecord{
			LakeID:    l.ID,
			CenterX:   l.Center.X,
			CenterY:   l.Center.Y,
			Radius:    l.Radius,
			Depth:     l.Depth,
			Volume:    l.Volume,
			WaterType: l.WaterType.String(),
			OutflowID: l.OutflowID,
			Inflow:    len(l.Inflow),
		})
	}

	for _, c := range w.Continents {
		a.Landmasses = append(a.Landmasses, landmassRecord(database.KindContinent, c.ID, "", c.Area, c.Bounds, c.Elevation, c.Climate))
	}
	for _, is := range w.Islands {
		a.Landmasses = append(a.Landmasses, landmassRecord(database.KindIsland, is.ID, is.Type.String(), is.Area, is.Bounds, is.Elevation, is.Climate))
	}
	return a
}

func landmassRecord(kind string, id int, islandType string, area int, b terrain.Rect, e terrain.ElevationStats, c terrain.ClimateStats) database.LandmassRecord {
	return database.LandmassRecord{
		Kind:         kind,
		LandmassID:   id,
		IslandType:   islandType,
		Area:         area,
		MinX:         b.MinX,
		MinY:         b.MinY,
		MaxX:         b.MaxX,
		MaxY:         b.MaxY,
		AvgElevation: e.Average,
		MaxElevation: e.Max,
		Temperature:  c.Temperature,
		Rainfall:     c.Rainfall,
	}
}
