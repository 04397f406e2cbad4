// Package database opens the SQLite ledger store and initializes its tables.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// DBControl wraps the open ledger database.
type DBControl struct {
	DB *sql.DB
}

// InitDB opens (creating if necessary) the SQLite database at path and
// ensures the tables exist. The parent directory is created when missing.
func InitDB(path string) (*DBControl, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory for %q: %w", path, err)
	}

	var dc DBControl
	var err error

	dc.DB, err = sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database at path %q: %w", path, err)
	}

	if err := dc.initTables(); err != nil {
		dc.DB.Close()
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}
	return &dc, nil
}

// Close closes the underlying database handle.
func (dc *DBControl) Close() error {
	return dc.DB.Close()
}

// initTables initializes the SQL tables.
func (dc *DBControl) initTables() error {
	tx, err := dc.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := initConvertedTable(tx); err != nil {
		return err
	}

	return tx.Commit()
}
