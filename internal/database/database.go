// Package database opens the SQLite database through libSQL.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/tursodatabase/go-libsql"
)

// Memory is the path of a private in-memory database.
const Memory = ":memory:"

// pragmas returns the connection settings for path. WAL does not apply to
// an in-memory database.
func pragmas(path string) []string {
	p := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	if path != Memory {
		p = append(p,
			"PRAGMA journal_mode=WAL",
			"PRAGMA synchronous=NORMAL",
		)
	}
	return p
}

// Open connects to the database file at path, creating its directory if
// needed. An in-memory database is pinned to one connection; every new
// connection would otherwise get its own empty database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path != Memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("libsql", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == Memory {
		db.SetMaxOpenConns(1)
		db.SetConnMaxIdleTime(0)
		db.SetConnMaxLifetime(0)
	}

	// Some PRAGMAs return a row and libSQL rejects Exec for those, so all
	// of them go through QueryContext.
	for _, p := range pragmas(path) {
		rows, err := db.QueryContext(ctx, p)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("executing %s: %w", p, err)
		}
		rows.Close()
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return db, nil
}
