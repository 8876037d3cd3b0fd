// Package world owns one generated world and its live tile state.
package world

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lawnchairsociety/worldforge/internal/database"
	"github.com/lawnchairsociety/worldforge/internal/logger"
	"github.com/lawnchairsociety/worldforge/internal/terrain"
	"github.com/lawnchairsociety/worldforge/internal/tilestore"
	"github.com/lawnchairsociety/worldforge/internal/worldlog"
)

var (
	ErrNotStarted = errors.New("world not started")
	ErrReadOnly   = errors.New("world is read-only")
)

// Archive stores generated worlds. *database.Database implements it.
type Archive interface {
	FindWorldByFingerprint(fingerprint string) (*database.WorldRecord, error)
	RecordWorld(a database.WorldArchive) (database.WorldRecord, error)
}

// Manager generates a world once and serves its tile state.
type Manager struct {
	gen *terrain.Generator

	mu       sync.RWMutex
	started  bool
	readOnly bool
	store    *tilestore.Store
	summary  terrain.Summary
	worldID  string

	archive       Archive
	journalDir    string
	journalPrefix string
	journal       *worldlog.Journal
}

// NewManager creates a manager for cfg. Nothing is generated until Start.
func NewManager(cfg terrain.Config) *Manager {
	return &Manager{gen: terrain.NewGenerator(cfg)}
}

// SetArchive makes Start record the world in a.
func (m *Manager) SetArchive(a Archive) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.archive = a
}

// SetJournal records mutations under dir and replays earlier entries on Start.
func (m *Manager) SetJournal(dir, prefix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.journalDir, m.journalPrefix = dir, prefix
}

// SetReadOnly rejects every mutation when true.
func (m *Manager) SetReadOnly(readOnly bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readOnly = readOnly
}

// IsReadOnly reports whether mutations are rejected.
func (m *Manager) IsReadOnly() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.readOnly
}

// Start generates the world, archives it and attaches the journal.
// Calling Start again is a no-op.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return nil
	}

	w := m.gen.Generate()
	summary := terrain.Summarize(w)

	if m.archive != nil {
		id, err := m.archiveWorld(w, summary)
		if err != nil {
			return err
		}
		m.worldID = id
	}

	store := tilestore.New(w)

	if m.journalDir != "" {
		entries, err := worldlog.ReadDir(m.journalDir, m.journalPrefix)
		if err != nil {
			return fmt.Errorf("read journal: %w", err)
		}
		n, err := worldlog.Replay(store, entries, summary.Fingerprint)
		if err != nil {
			return fmt.Errorf("replay journal: %w", err)
		}
		if n > 0 {
			logger.Info("Journal replayed", "mutations", n, "dir", m.journalDir)
		}
		m.journal = worldlog.NewJournal(m.journalDir, m.journalPrefix, summary.Fingerprint)
		store.SetRecorder(m.journal)
	}

	m.store, m.summary = store, summary
	m.started = true

	logger.Info("World ready",
		"seed", summary.Seed,
		"width", summary.Width,
		"height", summary.Height,
		"fingerprint", summary.Fingerprint,
		"world_id", m.worldID)
	return nil
}

func (m *Manager) archiveWorld(w *terrain.WorldData, s terrain.Summary) (string, error) {
	existing, err := m.archive.FindWorldByFingerprint(s.Fingerprint)
	switch {
	case err == nil:
		logger.Info("World already archived", "world_id", existing.ID)
		return existing.ID, nil
	case !errors.Is(err, database.ErrWorldNotFound):
		return "", fmt.Errorf("look up archived world: %w", err)
	}

	rec, err := m.archive.RecordWorld(ToArchive(w, s.Fingerprint, m.gen.Config().HeightmapMode))
	if err != nil {
		return "", fmt.Errorf("archive world: %w", err)
	}
	logger.Info("World archived", "world_id", rec.ID, "rivers", rec.RiverCount, "lakes", rec.LakeCount)
	return rec.ID, nil
}

// Close flushes the journal.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.journal == nil {
		return nil
	}
	m.store.SetRecorder(nil)
	err := m.journal.Close()
	m.journal = nil
	return err
}

func (m *Manager) liveStore() (*tilestore.Store, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.started {
		return nil, ErrNotStarted
	}
	return m.store, nil
}

func (m *Manager) writableStore() (*tilestore.Store, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.started {
		return nil, ErrNotStarted
	}
	if m.readOnly {
		return nil, ErrReadOnly
	}
	return m.store, nil
}

// Summary returns the feature counts taken when the world was generated.
func (m *Manager) Summary() terrain.Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.summary
}

// WorldID returns the archive id, or "" when archiving is off.
func (m *Manager) WorldID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.worldID
}

// Config returns the normalized generation parameters.
func (m *Manager) Config() terrain.Config {
	return m.gen.Config()
}
