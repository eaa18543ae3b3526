package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/balkashynov/grind/internal/models"
)

// DB wraps the SQLite database that backs the durable records
type DB struct {
	gorm *gorm.DB
}

// Open sets up the database connection at path and runs migrations.
// verbose turns on gorm's SQL logging.
func Open(path string, verbose bool) (*DB, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	level := logger.Silent // Quiet by default
	if verbose {
		level = logger.Info
	}

	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	d := &DB{gorm: conn}
	if err := d.runMigrations(); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return d, nil
}

// ensureDir creates the parent directory of a file-backed database
func ensureDir(path string) error {
	if strings.Contains(path, ":memory:") || strings.Contains(path, "mode=memory") {
		return nil
	}
	dir := filepath.Dir(strings.TrimPrefix(path, "file:"))
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// runMigrations creates/updates the database schema
func (d *DB) runMigrations() error {
	return d.gorm.AutoMigrate(&models.Record{})
}

// Close closes the database connection
func (d *DB) Close() error {
	if d == nil || d.gorm == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
