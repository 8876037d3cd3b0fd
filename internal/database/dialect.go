package database

import "database/sql"

// Dialect covers the SQL differences between the SQLite and PostgreSQL
// archive backends.
type Dialect interface {
	// DriverName is the name registered with database/sql.
	DriverName() string

	// Placeholder renders the 1-indexed bind parameter at position.
	Placeholder(position int) string

	// FloatType is the column type holding float64 measurements such as
	// sea level and river flow.
	FloatType() string

	// InitStatements run once after the pool opens.
	InitStatements() []string

	// IsDuplicateKeyError reports a primary key or unique violation.
	IsDuplicateKeyError(err error) bool

	// open creates and sizes the connection pool for cfg.
	open(cfg Config) (*sql.DB, error)
}

// DialectType names a supported archive backend.
type DialectType string

const (
	DialectSQLite   DialectType = "sqlite"
	DialectPostgres DialectType = "postgres"
)

// NewDialect returns the dialect for t. Unknown types fall back to SQLite.
func NewDialect(t DialectType) Dialect {
	if t == DialectPostgres {
		return &PostgresDialect{}
	}
	return &SQLiteDialect{}
}
