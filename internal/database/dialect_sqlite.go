package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteDialect targets a single archive file through modernc.org/sqlite.
type SQLiteDialect struct{}

func (*SQLiteDialect) DriverName() string { return "sqlite" }

// Placeholder ignores position; SQLite binds "?" in order.
func (*SQLiteDialect) Placeholder(int) string { return "?" }

func (*SQLiteDialect) FloatType() string { return "REAL" }

// InitStatements enables cascading deletes of a world's rivers and lakes
// and lets readers proceed while a world is being saved.
func (*SQLiteDialect) InitStatements() []string {
	return []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
}

func (*SQLiteDialect) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "PRIMARY KEY constraint failed")
}

func (d *SQLiteDialect) open(cfg Config) (*sql.DB, error) {
	if cfg.SQLitePath == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := sql.Open(d.DriverName(), cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// PRAGMAs are per connection, so the pool holds exactly one.
	db.SetMaxOpenConns(1)
	return db, nil
}
