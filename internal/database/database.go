// Package database archives generated worlds in SQLite or PostgreSQL.
package database

import (
	"database/sql"
	"fmt"
)

// Database wraps the archive connection and its dialect.
type Database struct {
	db      *sql.DB
	dialect Dialect
	qb      *QueryBuilder
}

// Open opens or creates the SQLite archive at the given path.
func Open(path string) (*Database, error) {
	return OpenWithConfig(DefaultConfig(path))
}

// OpenWithConfig opens the archive described by cfg and runs migrations.
func OpenWithConfig(cfg Config) (*Database, error) {
	dialect := NewDialect(DialectType(cfg.Driver))

	db, err := dialect.open(cfg)
	if err != nil {
		return nil, err
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run %q: %w", stmt, err)
		}
	}

	d := &Database{db: db, dialect: dialect, qb: NewQueryBuilder(dialect)}

	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return d, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// Dialect returns the active SQL dialect.
func (d *Database) Dialect() Dialect {
	return d.dialect
}

// migrate creates the archive schema if it doesn't exist.
func (d *Database) migrate() error {
	float := d.dialect.FloatType()

	migrations := []string{
		`CREATE TABLE IF NOT EXISTS worlds (
			id TEXT PRIMARY KEY,
			seed BIGINT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			sea_level ` + float + ` NOT NULL,
			fingerprint TEXT NOT NULL,
			river_count INTEGER NOT NULL DEFAULT 0,
			lake_count INTEGER NOT NULL DEFAULT 0,
			continent_count INTEGER NOT NULL DEFAULT 0,
			island_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS rivers (
			world_id TEXT NOT NULL REFERENCES worlds(id) ON DELETE CASCADE,
			river_id INTEGER NOT NULL,
			parent_id INTEGER NOT NULL DEFAULT -1,
			source_x INTEGER NOT NULL,
			source_y INTEGER NOT NULL,
			mouth_x INTEGER NOT NULL,
			mouth_y INTEGER NOT NULL,
			length ` + float + ` NOT NULL,
			width ` + float + ` NOT NULL,
			depth ` + float + ` NOT NULL,
			flow_rate ` + float + ` NOT NULL,
			navigable INTEGER NOT NULL DEFAULT 0,
			tributaries INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (world_id, river_id)
		)`,

		`CREATE TABLE IF NOT EXISTS lakes (
			world_id TEXT NOT NULL REFERENCES worlds(id) ON DELETE CASCADE,
			lake_id INTEGER NOT NULL,
			center_x INTEGER NOT NULL,
			center_y INTEGER NOT NULL,
			radius INTEGER NOT NULL,
			depth ` + float + ` NOT NULL,
			volume ` + float + ` NOT NULL,
			water_type TEXT NOT NULL,
			outflow_id INTEGER NOT NULL DEFAULT -1,
			inflow INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (world_id, lake_id)
		)`,

		`CREATE TABLE IF NOT EXISTS landmasses (
			world_id TEXT NOT NULL REFERENCES worlds(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			landmass_id INTEGER NOT NULL,
			island_type TEXT NOT NULL DEFAULT '',
			area INTEGER NOT NULL,
			min_x INTEGER NOT NULL,
			min_y INTEGER NOT NULL,
			max_x INTEGER NOT NULL,
			max_y INTEGER NOT NULL,
			avg_elevation ` + float + ` NOT NULL,
			max_elevation ` + float + ` NOT NULL,
			temperature ` + float + ` NOT NULL,
			rainfall ` + float + ` NOT NULL,
			PRIMARY KEY (world_id, kind, landmass_id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_worlds_seed ON worlds(seed)`,
		`CREATE INDEX IF NOT EXISTS idx_worlds_fingerprint ON worlds(fingerprint)`,
	}

	// Columns added after the first schema (errors mean the column already exists)
	safeMigrations := []string{
		`ALTER TABLE worlds ADD COLUMN heightmap_mode TEXT NOT NULL DEFAULT 'diamond_square'`,
		`ALTER TABLE rivers ADD COLUMN crossings INTEGER NOT NULL DEFAULT 0`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	for _, m := range safeMigrations {
		_, _ = d.db.Exec(m)
	}

	return nil
}

// DB returns the underlying sql.DB for advanced operations.
func (d *Database) DB() *sql.DB {
	return d.db
}
