// Package db manages the singleton DuckDB connection and the plat-ring
// archive tables: ring geometry snapshots and sweep run history.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/marcboeker/go-duckdb"
)

var (
	instance *sql.DB
	once     sync.Once
	initErr  error
)

// Config holds database configuration.
type Config struct {
	DataDir string
	DBName  string
}

// Get returns the singleton DuckDB connection, creating the database file
// and archive tables on first use.
func Get(cfg Config) (*sql.DB, error) {
	once.Do(func() {
		duckdbDir := filepath.Join(cfg.DataDir, "duckdb")
		if err := os.MkdirAll(duckdbDir, 0755); err != nil {
			initErr = fmt.Errorf("failed to create duckdb directory: %w", err)
			return
		}

		dbPath := filepath.Join(duckdbDir, cfg.DBName+".duckdb")
		instance, initErr = sql.Open("duckdb", dbPath)
		if initErr != nil {
			return
		}

		initErr = createTables(instance)
	})
	return instance, initErr
}

// Close closes the database connection.
func Close() error {
	if instance != nil {
		return instance.Close()
	}
	return nil
}

func createTables(conn *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ring_archive (
			ring VARCHAR,
			name VARCHAR,
			geojson VARCHAR,
			archived_at TIMESTAMP DEFAULT current_timestamp
		)`,
		`CREATE TABLE IF NOT EXISTS sweep_runs (
			ring VARCHAR,
			event VARCHAR,
			at TIMESTAMP DEFAULT current_timestamp
		)`,
	}
	for _, stmt := range stmts {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("creating archive tables: %w", err)
		}
	}
	return nil
}

// ArchiveRing stores a GeoJSON snapshot of a ring's geometry. A nil
// connection is a no-op so callers don't have to guard the optional DB.
func ArchiveRing(conn *sql.DB, ring, name, geojson string) {
	if conn == nil {
		return
	}
	// Archive writes are best-effort; the platform works without them.
	conn.Exec(`INSERT INTO ring_archive (ring, name, geojson) VALUES (?, ?, ?)`, ring, name, geojson)
}

// RecordSweep stores one sweep lifecycle event. Nil connection is a no-op.
func RecordSweep(conn *sql.DB, ring, event string) {
	if conn == nil {
		return
	}
	conn.Exec(`INSERT INTO sweep_runs (ring, event) VALUES (?, ?)`, ring, event)
}
