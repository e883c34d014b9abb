// Package kv stores JSON documents by key in the SQLite kv table.
package kv

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// Store implements daily.Store on top of the kv table created by the
// migrations package.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get decodes the document stored under key into dest. It reports false
// and leaves dest untouched when the key does not exist.
func (s *Store) Get(ctx context.Context, key string, dest any) (bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM kv WHERE key = ?`, key,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return true, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

// Put stores v under key, replacing any previous document.
func (s *Store) Put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, data, updated_at) VALUES (?, jsonb(?), strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, string(data),
	)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Keys lists the keys starting with prefix in ascending order.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM kv WHERE substr(key, 1, ?) = ? ORDER BY key`,
		len(prefix), prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Delete removes key. It returns ErrNotFound if nothing was stored there.
func (s *Store) Delete(ctx context.Context, key string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Check reports whether the underlying database is reachable. It
// satisfies health.Checker.
func (s *Store) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
