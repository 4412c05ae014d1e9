// Package storage loads match data into SQLite for ad-hoc queries.
package storage

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps a sql.DB holding the match index and ward tables for ad-hoc queries.
type DB struct {
	conn *sql.DB
}

// Open opens the SQLite database at path and applies the schema. Pass ":memory:" for a
// throwaway database.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Every connection to :memory: is a separate database.
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// OpenMemory opens an empty in-memory database.
func OpenMemory() (*DB, error) {
	return Open(":memory:")
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
