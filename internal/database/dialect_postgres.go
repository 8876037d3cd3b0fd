package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// PostgresDialect targets a shared archive server through lib/pq.
type PostgresDialect struct{}

func (*PostgresDialect) DriverName() string { return "postgres" }

func (*PostgresDialect) Placeholder(position int) string {
	return fmt.Sprintf("$%d", position)
}

// FloatType avoids REAL, which is float4 in PostgreSQL.
func (*PostgresDialect) FloatType() string { return "DOUBLE PRECISION" }

func (*PostgresDialect) InitStatements() []string { return nil }

// IsDuplicateKeyError matches SQLSTATE 23505 (unique_violation).
func (*PostgresDialect) IsDuplicateKeyError(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (d *PostgresDialect) open(cfg Config) (*sql.DB, error) {
	db, err := sql.Open(d.DriverName(), cfg.Postgres.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return db, nil
}
