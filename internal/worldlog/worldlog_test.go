package worldlog

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/lawnchairsociety/worldforge/internal/terrain"
	"github.com/lawnchairsociety/worldforge/internal/tilestore"
)

type line struct {
	N int `json:"n"`
}

func fixedClock(t *time.Time) func() time.Time {
	return func() time.Time { return *t }
}

// smallWorld is a 2x2 grassland.
func smallWorld() *terrain.WorldData {
	w := &terrain.WorldData{Width: 2, Height: 2, SeaLevel: 0.4}
	w.Tiles = make([][]terrain.Tile, 2)
	for y := range w.Tiles {
		w.Tiles[y] = make([]terrain.Tile, 2)
		for x := range w.Tiles[y] {
			w.Tiles[y][x] = terrain.Tile{
				X: x, Y: y,
				Elevation:         0.6,
				SoilQuality:       0.5,
				VegetationDensity: 0.5,
				Biome:             terrain.BiomeGrassland,
				Type:              terrain.TerrainGrassland,
				RiverID:           terrain.NoRiver,
				LakeID:            terrain.NoLake,
				Resources:         []terrain.Resource{{Kind: terrain.ResourceFood, Amount: 40}},
			}
		}
	}
	return w
}

func readLines(t *testing.T, path string) []line {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd reader: %v", err)
	}
	defer dec.Close()
	raw, err := io.ReadAll(dec)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	var out []line
	for _, l := range strings.Split(strings.TrimSpace(string(raw)), "\n") {
		var v line
		if err := json.Unmarshal([]byte(l), &v); err != nil {
			t.Fatalf("bad line %q: %v", l, err)
		}
		out = append(out, v)
	}
	return out
}

func TestWriterRotatesHourly(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 5, 1, 9, 59, 0, 0, time.UTC)
	w := NewWriter(dir, "test")
	w.now = fixedClock(&now)

	first := w.Path(now)
	if err := w.Write(line{N: 1}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	now = now.Add(2 * time.Minute)
	second := w.Path(now)
	if err := w.Write(line{N: 2}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Write(line{N: 3}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if filepath.Base(first) != "test-2026-05-01-09.jsonl.zst" {
		t.Errorf("first file = %s", filepath.Base(first))
	}
	if filepath.Base(second) != "test-2026-05-01-10.jsonl.zst" {
		t.Errorf("second file = %s", filepath.Base(second))
	}
	if got := readLines(t, first); !reflect.DeepEqual(got, []line{{1}}) {
		t.Errorf("first file lines = %v, want [1]", got)
	}
	if got := readLines(t, second); !reflect.DeepEqual(got, []line{{2}, {3}}) {
		t.Errorf("second file lines = %v, want [2 3]", got)
	}
}

func TestWriterAppendsAfterReopen(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	w := NewWriter(dir, "test")
	w.now = fixedClock(&now)

	for n := 1; n <= 2; n++ {
		if err := w.Write(line{N: n}); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}

	if got := readLines(t, w.Path(now)); !reflect.DeepEqual(got, []line{{1}, {2}}) {
		t.Errorf("lines = %v, want [1 2]", got)
	}
}

func TestWriterCloseWithoutWrite(t *testing.T) {
	w := NewWriter(t.TempDir(), "test")
	if err := w.Close(); err != nil {
		t.Errorf("Close on unused writer = %v", err)
	}
}

func TestJournalRecordsStoreMutations(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	store := tilestore.New(smallWorld())
	j := NewJournal(dir, "mutations", "world-a")
	j.w.now = fixedClock(&now)
	store.SetRecorder(j)

	if _, err := store.ApplyFarming(0, 0); err != nil {
		t.Fatalf("ApplyFarming: %v", err)
	}
	if _, err := store.StartFire(1, 1); err != nil {
		t.Fatalf("StartFire: %v", err)
	}
	if _, err := store.ExtinguishFire(0, 1); err != nil { // not burning, no entry
		t.Fatalf("ExtinguishFire: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if j.Seq() != 2 {
		t.Errorf("Seq() = %d, want 2", j.Seq())
	}

	entries, err := ReadDir(dir, "mutations")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}

	want := []struct {
		seq  uint64
		op   string
		x, y int
	}{
		{1, "farming", 0, 0},
		{2, "start_fire", 1, 1},
	}
	for i, w := range want {
		e := entries[i]
		if e.Seq != w.seq || e.Op != w.op || e.X != w.x || e.Y != w.y {
			t.Errorf("entries[%d] = seq %d %s (%d,%d), want seq %d %s (%d,%d)",
				i, e.Seq, e.Op, e.X, e.Y, w.seq, w.op, w.x, w.y)
		}
		if e.World != "world-a" {
			t.Errorf("entries[%d].World = %q, want world-a", i, e.World)
		}
	}
	if entries[0].Before.Type != terrain.TerrainGrassland || entries[0].After.Type != terrain.TerrainFarm {
		t.Errorf("farming entry types = %v -> %v", entries[0].Before.Type, entries[0].After.Type)
	}
	if entries[1].After.FireState != terrain.FireBurning {
		t.Errorf("fire entry state = %v, want burning", entries[1].After.FireState)
	}
}

func TestReplayRestoresTiles(t *testing.T) {
	dir := t.TempDir()

	live := tilestore.New(smallWorld())
	j := NewJournal(dir, "mutations", "world-a")
	live.SetRecorder(j)

	if _, err := live.ApplyFarming(0, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := live.ApplyBuilding(1, 0, "granary"); err != nil {
		t.Fatal(err)
	}
	if _, err := live.ApplyAgeEffects(0, 0, 50); err != nil {
		t.Fatal(err)
	}
	if err := j.Close(); err != nil {
		t.Fatal(err)
	}

	entries, err := ReadDir(dir, "mutations")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}

	restored := tilestore.New(smallWorld())
	n, err := Replay(restored, entries, "world-a")
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if n != 3 {
		t.Errorf("Replay applied %d, want 3", n)
	}
	if !reflect.DeepEqual(restored.Tiles(), live.Tiles()) {
		t.Error("replayed tiles differ from live tiles")
	}

	other := tilestore.New(smallWorld())
	n, err = Replay(other, entries, "world-b")
	if err != nil || n != 0 {
		t.Errorf("Replay for another world = %d, %v; want 0, nil", n, err)
	}
}

func TestReadDirMissing(t *testing.T) {
	entries, err := ReadDir(filepath.Join(t.TempDir(), "absent"), "mutations")
	if err != nil {
		t.Errorf("ReadDir(missing) error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("ReadDir(missing) = %d entries", len(entries))
	}
}

func TestReadFileRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mutations-2026-05-01-00.jsonl.zst")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		t.Fatal(err)
	}
	enc.Write([]byte("{\"seq\":1}\nnot json\n"))
	enc.Close()
	f.Close()

	_, err = ReadFile(path)
	if err == nil {
		t.Fatal("expected an error for a corrupt line")
	}
	if !strings.Contains(err.Error(), ":2:") {
		t.Errorf("error %q should name line 2", err)
	}
}
