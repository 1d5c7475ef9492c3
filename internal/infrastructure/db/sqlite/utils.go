package sqlitedb

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const (
	driverName = "sqlite"
	inMemoryDb = ":memory:"
)

// OpenDb opens the sqlite db at the given path. An empty path opens an
// in-memory db, bound to a single connection so that it's not lost between
// queries.
func OpenDb(dbPath string) (*sql.DB, error) {
	dsn := dbPath
	if len(dsn) <= 0 {
		dsn = inMemoryDb
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	return db, nil
}
