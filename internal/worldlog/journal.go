package worldlog

import (
	"sync"

	"github.com/lawnchairsociety/worldforge/internal/tilestore"
)

// Entry is one journal line.
type Entry struct {
	Seq   uint64 `json:"seq"`
	World string `json:"world"`
	tilestore.Mutation
}

// Journal records tile mutations for one world. It implements
// tilestore.Recorder.
type Journal struct {
	w     *Writer
	world string

	mu  sync.Mutex
	seq uint64
}

// NewJournal writes to dir/prefix-YYYY-MM-DD-HH.jsonl.zst. world is the
// fingerprint of the world the mutations belong to.
func NewJournal(dir, prefix, world string) *Journal {
	return &Journal{w: NewWriter(dir, prefix), world: world}
}

// Record appends m with the next sequence number.
func (j *Journal) Record(m tilestore.Mutation) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.w.Write(Entry{Seq: j.seq + 1, World: j.world, Mutation: m}); err != nil {
		return err
	}
	j.seq++
	return nil
}

// Seq returns the number of entries written.
func (j *Journal) Seq() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.seq
}

// Close flushes and closes the current file.
func (j *Journal) Close() error {
	return j.w.Close()
}
