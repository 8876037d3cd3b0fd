package worldlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/zstd"

	"github.com/lawnchairsociety/worldforge/internal/tilestore"
)

const maxLineSize = 1 << 20

// ReadFile decodes every entry of one journal file.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var entries []Entry
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for sc.Scan() {
		line++
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filepath.Base(path), line, err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return entries, nil
}

// ReadDir decodes all journal files with the given prefix in hour order.
// A missing directory yields no entries.
func ReadDir(dir, prefix string) ([]Entry, error) {
	paths, err := filepath.Glob(filepath.Join(dir, prefix+"-*.jsonl.zst"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var entries []Entry
	for _, p := range paths {
		es, err := ReadFile(p)
		if err != nil {
			return nil, err
		}
		entries = append(entries, es...)
	}
	return entries, nil
}

// Replay reapplies the final state of each entry that belongs to world.
// It returns the number of tiles updated.
func Replay(store *tilestore.Store, entries []Entry, world string) (int, error) {
	var updates []tilestore.Update
	for _, e := range entries {
		if e.World != world {
			continue
		}
		updates = append(updates, tilestore.Update{X: e.X, Y: e.Y, Patch: tilestore.PatchFrom(e.After)})
	}
	if len(updates) == 0 {
		return 0, nil
	}
	return store.UpdateTileStates(updates)
}
