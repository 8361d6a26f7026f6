package sscript

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS script_definitions (
	id BLOB NOT NULL PRIMARY KEY,
	owner_type INTEGER NOT NULL,
	owner_id TEXT NOT NULL,
	name TEXT NOT NULL,
	data BLOB NOT NULL,
	compress_kind INTEGER NOT NULL DEFAULT 0,
	encryption INTEGER NOT NULL DEFAULT 0
)`,
	`CREATE INDEX IF NOT EXISTS idx_script_definitions_owner
	ON script_definitions (owner_type, owner_id)`,
}

// Open opens (creating if needed) a script database and ensures the
// schema. Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection only: sqlite allows a single writer, and a
	// :memory: database exists per connection.
	db.SetMaxOpenConns(1)
	if err := Ensure(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Ensure creates the schema on an already opened database.
func Ensure(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
