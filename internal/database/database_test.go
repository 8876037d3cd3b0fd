package database

import (
	"os"
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	for _, table := range []string{"worlds", "rivers", "lakes", "landmasses"} {
		var count int
		if err := db.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			t.Errorf("Failed to query %s table: %v", table, err)
		}
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	nestedPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	db, err := Open(nestedPath)
	if err != nil {
		t.Fatalf("Failed to open database with nested path: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(nestedPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestOpenWithConfigRequiresPath(t *testing.T) {
	if _, err := OpenWithConfig(Config{Driver: "sqlite"}); err == nil {
		t.Error("OpenWithConfig with empty sqlite path should fail")
	}
}

func TestClose(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := db.db.Ping(); err == nil {
		t.Error("Ping after Close should fail")
	}
}

func TestMigration_IndexesExist(t *testing.T) {
	db := setupTestDB(t)

	for _, idx := range []string{"idx_worlds_seed", "idx_worlds_fingerprint"} {
		var exists int
		err := db.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name=?", idx).Scan(&exists)
		if err != nil {
			t.Fatalf("Failed to check index %s: %v", idx, err)
		}
		if exists == 0 {
			t.Errorf("Index %s not found", idx)
		}
	}
}

func TestMigration_SafeColumnsAdded(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		table, column string
	}{
		{"worlds", "heightmap_mode"},
		{"rivers", "crossings"},
	}
	for _, tt := range tests {
		var n int
		err := db.db.QueryRow("SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", tt.table, tt.column).Scan(&n)
		if err != nil {
			t.Fatalf("pragma_table_info(%s): %v", tt.table, err)
		}
		if n != 1 {
			t.Errorf("%s.%s missing", tt.table, tt.column)
		}
	}
}

func TestMigration_ForeignKeysEnabled(t *testing.T) {
	db := setupTestDB(t)

	var fkEnabled int
	if err := db.db.QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled); err != nil {
		t.Fatalf("Failed to check foreign_keys pragma: %v", err)
	}
	if fkEnabled != 1 {
		t.Error("Foreign keys are not enabled")
	}
}

func TestMigration_WALModeEnabled(t *testing.T) {
	db := setupTestDB(t)

	var journalMode string
	if err := db.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("Failed to check journal_mode pragma: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("Expected WAL mode, got %s", journalMode)
	}
}

func TestMigration_Idempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db1, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database first time: %v", err)
	}
	if _, err := db1.RecordWorld(sampleArchive(7)); err != nil {
		t.Fatalf("RecordWorld: %v", err)
	}
	db1.Close()

	db2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database second time: %v", err)
	}
	defer db2.Close()

	worlds, err := db2.FindWorldsBySeed(7)
	if err != nil {
		t.Fatalf("FindWorldsBySeed: %v", err)
	}
	if len(worlds) != 1 {
		t.Errorf("worlds after reopen = %d, want 1", len(worlds))
	}
}

func TestMigration_ForeignKeyConstraint(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.db.Exec(`INSERT INTO rivers (world_id, river_id, source_x, source_y, mouth_x, mouth_y,
		length, width, depth, flow_rate) VALUES ('missing', 0, 0, 0, 1, 1, 1, 1, 0.1, 1)`)
	if err == nil {
		t.Error("Expected foreign key error for river without world")
	}
}
