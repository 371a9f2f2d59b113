// Package storage keeps a local sqlite snapshot of the Record Store lists so
// dashboards can render offline and the serve mode has data before its first
// refresh completes.
package storage

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS species (
  id              INTEGER PRIMARY KEY,
  scientific_name TEXT NOT NULL,
  common_name     TEXT NOT NULL,
  family          TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS posts (
  id         TEXT PRIMARY KEY,
  content    TEXT NOT NULL,
  user_email TEXT NOT NULL,
  user_name  TEXT NOT NULL,
  latitude   REAL NOT NULL,
  longitude  REAL NOT NULL,
  species    TEXT NOT NULL,
  created_at DATETIME,
  likes      INTEGER NOT NULL DEFAULT 0,
  comments   INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at);
CREATE INDEX IF NOT EXISTS idx_posts_species ON posts(species);
CREATE TABLE IF NOT EXISTS snapshot_meta (
  id         INTEGER PRIMARY KEY CHECK (id = 1),
  fetched_at DATETIME NOT NULL
);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}
