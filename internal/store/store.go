// Package store owns the file-backed SQLite database holding the user
// directory. The schema bootstrap is idempotent; there is no migration
// system because the directory is a single table.
package store

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	created_at TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP)
)`

// Open opens (or creates) a local SQLite database file and ensures the
// users table exists. Fails only on storage-engine errors; an already
// existing table is not an error.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		path = "users.db"
	}
	d, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := d.Ping(); err != nil {
		_ = d.Close()
		return nil, err
	}
	// journal_mode may not be supported in some contexts (e.g., in-memory). Ignore errors.
	_, _ = d.Exec(`PRAGMA journal_mode=WAL`)
	if _, err := d.Exec(`PRAGMA busy_timeout=5000`); err != nil {
		_ = d.Close()
		return nil, err
	}
	if _, err := d.Exec(`PRAGMA foreign_keys=ON`); err != nil {
		_ = d.Close()
		return nil, err
	}
	if _, err := d.Exec(schema); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}
