package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"vagas-go/internal/config"
)

// ErrDisabled is returned by NewDatabaseFromConfig for type "none".
var ErrDisabled = errors.New("database disabled")

// NewDatabaseFromConfig creates a database based on the database config type.
// Type "none" returns ErrDisabled so callers can fall back to local storage.
func NewDatabaseFromConfig(cfg config.DatabaseConfig) (*SQLiteDatabase, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		return NewSQLiteDatabase(filepath.Join(cfg.DataDir, "vagas.db"))
	case "memory":
		db, err := NewSQLiteDatabase(":memory:")
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrating memory database: %w", err)
		}
		return db, nil
	case "none", "":
		return nil, ErrDisabled
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
