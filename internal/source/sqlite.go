package source

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteClient holds an open SQLite database file.
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient opens an existing database file. The driver would
// otherwise create an empty file for a mistyped path.
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("sqlite %s: %w", path, err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite %s: open: %w", path, err)
	}
	// Imports read tables one after another.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite %s: ping: %w", path, err)
	}

	return &SQLiteClient{db: db}, nil
}

// Close closes the database.
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

// GetDB returns the underlying handle.
func (c *SQLiteClient) GetDB() *sql.DB {
	return c.db
}
