package world

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/lawnchairsociety/worldforge/internal/database"
	"github.com/lawnchairsociety/worldforge/internal/terrain"
	"github.com/lawnchairsociety/worldforge/internal/tilestore"
)

func testConfig(seed int64) terrain.Config {
	cfg := terrain.DefaultConfig()
	cfg.Width = 48
	cfg.Height = 32
	cfg.Seed = seed
	return cfg
}

func startManager(t *testing.T, m *Manager) {
	t.Helper()
	if err := m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { m.Close() })
}

// firstLand returns the first tile that farming accepts.
func firstLand(t *testing.T, m *Manager) terrain.Tile {
	t.Helper()
	tiles, err := m.Tiles()
	if err != nil {
		t.Fatalf("Tiles: %v", err)
	}
	for y := range tiles {
		for x := range tiles[y] {
			if !tiles[y][x].Type.IsWater() {
				return tiles[y][x]
			}
		}
	}
	t.Skip("generated world has no land")
	return terrain.Tile{}
}

func TestManagerNotStarted(t *testing.T) {
	m := NewManager(testConfig(1))
	if _, err := m.TileState(0, 0); !errors.Is(err, ErrNotStarted) {
		t.Errorf("TileState before Start error = %v, want ErrNotStarted", err)
	}
	if _, err := m.ApplyFarming(0, 0); !errors.Is(err, ErrNotStarted) {
		t.Errorf("ApplyFarming before Start error = %v, want ErrNotStarted", err)
	}
	if _, err := m.Statistics(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Statistics before Start error = %v, want ErrNotStarted", err)
	}
}

func TestManagerStart(t *testing.T) {
	m := NewManager(testConfig(3))
	startManager(t, m)

	if err := m.Start(); err != nil {
		t.Errorf("second Start: %v", err)
	}
	s := m.Summary()
	if s.Width != 48 || s.Height != 32 || s.Seed != 3 {
		t.Errorf("Summary = %+v", s)
	}
	if s.Fingerprint == "" {
		t.Error("Summary fingerprint empty")
	}
	if m.WorldID() != "" {
		t.Errorf("WorldID without archive = %q, want empty", m.WorldID())
	}

	stats, err := m.Statistics()
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats.TotalTiles != 48*32 {
		t.Errorf("TotalTiles = %d, want %d", stats.TotalTiles, 48*32)
	}
	if _, err := m.TileState(48, 0); !errors.Is(err, tilestore.ErrOutOfBounds) {
		t.Errorf("TileState(48,0) error = %v, want ErrOutOfBounds", err)
	}
}

func TestManagerMutations(t *testing.T) {
	m := NewManager(testConfig(5))
	startManager(t, m)
	land := firstLand(t, m)

	got, err := m.ApplyFarming(land.X, land.Y)
	if err != nil {
		t.Fatalf("ApplyFarming: %v", err)
	}
	if got.Type != terrain.TerrainFarm {
		t.Errorf("type after farming = %v, want farm", got.Type)
	}
	live, err := m.TileState(land.X, land.Y)
	if err != nil {
		t.Fatal(err)
	}
	if live.Type != terrain.TerrainFarm {
		t.Errorf("TileState type = %v, want farm", live.Type)
	}

	n, err := m.UpdateTileStates([]tilestore.Update{
		{X: land.X, Y: land.Y, Patch: tilestore.Patch{Accessibility: tilestore.Float(0.9)}},
		{X: -1, Y: 0, Patch: tilestore.Patch{Accessibility: tilestore.Float(0.9)}},
	})
	if n != 1 || !errors.Is(err, tilestore.ErrOutOfBounds) {
		t.Errorf("UpdateTileStates = %d, %v; want 1 and ErrOutOfBounds", n, err)
	}
}

func TestManagerReadsAreSnapshots(t *testing.T) {
	m := NewManager(testConfig(5))
	startManager(t, m)
	land := firstLand(t, m)

	snapshot, err := m.Tiles()
	if err != nil {
		t.Fatalf("Tiles: %v", err)
	}
	before := snapshot[land.Y][land.X].SoilQuality

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			q := float64(i) / 10
			if _, err := m.UpdateTileState(land.X, land.Y, tilestore.Patch{SoilQuality: &q}); err != nil {
				t.Errorf("UpdateTileState: %v", err)
			}
		}(i)
		go func() {
			defer wg.Done()
			if _, err := m.Tiles(); err != nil {
				t.Errorf("Tiles: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := snapshot[land.Y][land.X].SoilQuality; got != before {
		t.Errorf("earlier Tiles() result changed from %v to %v", before, got)
	}
}

func TestManagerReadOnly(t *testing.T) {
	m := NewManager(testConfig(5))
	m.SetReadOnly(true)
	startManager(t, m)
	land := firstLand(t, m)

	if !m.IsReadOnly() {
		t.Error("IsReadOnly() = false")
	}
	if _, err := m.StartFire(land.X, land.Y); !errors.Is(err, ErrReadOnly) {
		t.Errorf("StartFire error = %v, want ErrReadOnly", err)
	}
	if _, err := m.UpdateTileState(land.X, land.Y, tilestore.Patch{Erosion: tilestore.Float(1)}); !errors.Is(err, ErrReadOnly) {
		t.Errorf("UpdateTileState error = %v, want ErrReadOnly", err)
	}
	if _, err := m.TileState(land.X, land.Y); err != nil {
		t.Errorf("TileState in read-only mode: %v", err)
	}
}

func TestManagerArchive(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "worlds.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	first := NewManager(testConfig(8))
	first.SetArchive(db)
	startManager(t, first)

	id := first.WorldID()
	if id == "" {
		t.Fatal("WorldID empty with archive")
	}
	rec, err := db.GetWorld(id)
	if err != nil {
		t.Fatalf("GetWorld: %v", err)
	}
	s := first.Summary()
	if rec.Fingerprint != s.Fingerprint || rec.RiverCount != s.Rivers || rec.LakeCount != s.Lakes {
		t.Errorf("archived %+v does not match summary %+v", rec, s)
	}
	if rec.ContinentCount != s.Continents || rec.IslandCount != s.Islands {
		t.Errorf("archived landmasses %d/%d, want %d/%d", rec.ContinentCount, rec.IslandCount, s.Continents, s.Islands)
	}

	second := NewManager(testConfig(8))
	second.SetArchive(db)
	startManager(t, second)
	if second.WorldID() != id {
		t.Errorf("same world archived twice: %s and %s", id, second.WorldID())
	}
	worlds, err := db.FindWorldsBySeed(8)
	if err != nil {
		t.Fatal(err)
	}
	if len(worlds) != 1 {
		t.Errorf("worlds for seed 8 = %d, want 1", len(worlds))
	}
}

type failingArchive struct{}

func (failingArchive) FindWorldByFingerprint(string) (*database.WorldRecord, error) {
	return nil, database.ErrWorldNotFound
}

func (failingArchive) RecordWorld(database.WorldArchive) (database.WorldRecord, error) {
	return database.WorldRecord{}, errors.New("disk full")
}

func TestManagerArchiveFailure(t *testing.T) {
	m := NewManager(testConfig(2))
	m.SetArchive(failingArchive{})
	if err := m.Start(); err == nil {
		t.Fatal("Start should fail when the archive fails")
	}
	if _, err := m.TileState(0, 0); !errors.Is(err, ErrNotStarted) {
		t.Errorf("TileState after failed Start error = %v, want ErrNotStarted", err)
	}
}

func TestManagerJournalReplay(t *testing.T) {
	dir := t.TempDir()

	first := NewManager(testConfig(13))
	first.SetJournal(dir, "mutations")
	if err := first.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	land := firstLand(t, first)
	if _, err := first.ApplyBuilding(land.X, land.Y, "watchtower"); err != nil {
		t.Fatalf("ApplyBuilding: %v", err)
	}
	want, _ := first.TileState(land.X, land.Y)
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := NewManager(testConfig(13))
	second.SetJournal(dir, "mutations")
	startManager(t, second)
	got, err := second.TileState(land.X, land.Y)
	if err != nil {
		t.Fatal(err)
	}
	if got.Building != "watchtower" || got.Type != terrain.TerrainUrban {
		t.Errorf("replayed tile = %q %v, want watchtower urban", got.Building, got.Type)
	}
	if got.SoilQuality != want.SoilQuality || got.Accessibility != want.Accessibility {
		t.Errorf("replayed soil/access = %v/%v, want %v/%v", got.SoilQuality, got.Accessibility, want.SoilQuality, want.Accessibility)
	}

	other := NewManager(testConfig(14))
	other.SetJournal(dir, "mutations")
	startManager(t, other)
	tile, _ := other.TileState(land.X, land.Y)
	if tile.Building == "watchtower" {
		t.Error("journal of another world was replayed")
	}
}

func TestToArchive(t *testing.T) {
	w := terrain.NewGenerator(testConfig(21)).Generate()
	a := ToArchive(w, "fp", terrain.ModeDiamondSquare)

	if a.World.Fingerprint != "fp" || a.World.Seed != 21 || a.World.HeightmapMode != terrain.ModeDiamondSquare {
		t.Errorf("World = %+v", a.World)
	}
	if len(a.Rivers) != len(w.Rivers) || len(a.Lakes) != len(w.Lakes) {
		t.Errorf("rivers/lakes = %d/%d, want %d/%d", len(a.Rivers), len(a.Lakes), len(w.Rivers), len(w.Lakes))
	}
	if len(a.Landmasses) != len(w.Continents)+len(w.Islands) {
		t.Errorf("landmasses = %d, want %d", len(a.Landmasses), len(w.Continents)+len(w.Islands))
	}
	for i, r := range w.Rivers {
		if a.Rivers[i].Tributaries != len(r.Tributaries) || a.Rivers[i].ParentID != r.ParentID {
			t.Errorf("river %d = %+v", i, a.Rivers[i])
		}
	}
}
