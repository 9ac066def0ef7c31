package sqlstore

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Dialect names the SQL backend behind a Store.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

func init() {
	// modernc registers as "sqlite", which sqlx does not know by default.
	sqlx.BindDriver(string(DialectSQLite), sqlx.QUESTION)
}

func ParseDialect(raw string) (Dialect, error) {
	switch Dialect(raw) {
	case DialectPostgres, DialectSQLite:
		return Dialect(raw), nil
	default:
		return "", fmt.Errorf("unsupported sql dialect %q", raw)
	}
}

// Store implements the ledger ports on top of sqlx. Queries are built with
// "?" bind vars and rebound for the connected driver.
type Store struct {
	db      *sqlx.DB
	dialect Dialect
}

func New(db *sqlx.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

func (s *Store) Dialect() Dialect {
	return s.dialect
}

func (s *Store) DB() *sqlx.DB {
	return s.db
}
