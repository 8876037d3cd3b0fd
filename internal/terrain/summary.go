package terrain

// Summary counts the features of a generated world.
type Summary struct {
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	Seed            int64   `json:"seed"`
	SeaLevel        float64 `json:"sea_level"`
	Fingerprint     string  `json:"fingerprint"`
	LandTiles       int     `json:"land_tiles"`
	WaterTiles      int     `json:"water_tiles"`
	Rivers          int     `json:"rivers"`
	Tributaries     int     `json:"tributaries"`
	NavigableRivers int     `json:"navigable_rivers"`
	Lakes           int     `json:"lakes"`
	Continents      int     `json:"continents"`
	Islands         int     `json:"islands"`
	MountainRanges  int     `json:"mountain_ranges"`
	Caves           int     `json:"caves"`
}

// Summarize counts w's features. Tributaries are rivers with a parent.
func Summarize(w *WorldData) Summary {
	s := Summary{
		Width:          w.Width,
		Height:         w.Height,
		Seed:           w.Seed,
		SeaLevel:       w.SeaLevel,
		Fingerprint:    Fingerprint(w),
		Rivers:         len(w.Rivers),
		Lakes:          len(w.Lakes),
		Continents:     len(w.Continents),
		Islands:        len(w.Islands),
		MountainRanges: len(w.MountainRanges),
		Caves:          len(w.Caves),
	}
	for _, r := range w.Rivers {
		if r.ParentID != NoRiver {
			s.Tributaries++
		}
		if r.Navigable {
			s.NavigableRivers++
		}
	}
	for y := range w.Tiles {
		for x := range w.Tiles[y] {
			if w.Tiles[y][x].Type.IsWater() {
				s.WaterTiles++
			} else {
				s.LandTiles++
			}
		}
	}
	return s
}
