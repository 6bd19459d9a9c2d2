package memo

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"

	_ "modernc.org/sqlite"
)

// sqliteStore backs the memo table with a SQLite database, the same
// sql.Open("sqlite", ...) pattern this codebase's dao/sqlite package uses
// for its own persistent stores, so a count can be shared across
// processes or survive a restart instead of living only in one process's
// heap.
type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) a SQLite-backed memo store
// at path. Concurrency safety comes from the database engine rather than
// an in-process mutex, matching the "wrap the memo table in a
// single-writer structure if multi-threaded counting is needed" guidance
// for the case where counting is spread across more than one process.
func NewSQLiteStore(path string) (Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("memo: opening sqlite store %q: %w", path, err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS memo (
		rule_key TEXT NOT NULL,
		n        INTEGER NOT NULL,
		value    TEXT NOT NULL,
		PRIMARY KEY (rule_key, n)
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("memo: initializing sqlite schema: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Get(ctx context.Context, key Key) (*big.Int, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM memo WHERE rule_key = ? AND n = ?`, key.Rule, key.N)

	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("memo: reading %s: %w", key, err)
	}

	v, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, false, fmt.Errorf("memo: stored value for %s is not an integer: %q", key, raw)
	}
	return v, true, nil
}

func (s *sqliteStore) Set(ctx context.Context, key Key, value *big.Int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memo (rule_key, n, value) VALUES (?, ?, ?)
		 ON CONFLICT (rule_key, n) DO UPDATE SET value = excluded.value`,
		key.Rule, key.N, value.String())
	if err != nil {
		return fmt.Errorf("memo: writing %s: %w", key, err)
	}
	return nil
}

func (s *sqliteStore) All(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT rule_key, n, value FROM memo`)
	if err != nil {
		return nil, fmt.Errorf("memo: listing sqlite store: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Rule, &e.N, &e.Value); err != nil {
			return nil, fmt.Errorf("memo: scanning sqlite row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LoadEntries bulk-inserts entries, overwriting any existing rows for the
// same (rule, n) pair. Used by Import to restore a snapshot into a
// SQLite-backed store.
func (s *sqliteStore) LoadEntries(entries []Entry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("memo: starting snapshot load transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO memo (rule_key, n, value) VALUES (?, ?, ?)
		 ON CONFLICT (rule_key, n) DO UPDATE SET value = excluded.value`)
	if err != nil {
		return fmt.Errorf("memo: preparing snapshot load statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e.Rule, e.N, e.Value); err != nil {
			return fmt.Errorf("memo: loading snapshot entry %s@%d: %w", e.Rule, e.N, err)
		}
	}
	return tx.Commit()
}

// Close releases the underlying database handle.
func (s *sqliteStore) Close() error {
	return s.db.Close()
}
