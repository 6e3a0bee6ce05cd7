package library

import (
	"context"
	"errors"
	"fmt"

	"vagas-go/internal/config"
	"vagas-go/internal/database"
	"vagas-go/internal/vagas"
)

// Store is a record backend that also keeps the local usage counter.
type Store interface {
	vagas.ImageRecords
	LoadCount(ctx context.Context) (int64, error)
	SaveCount(ctx context.Context, count int64) error
	Close() error
}

var _ Store = (*database.SQLiteDatabase)(nil)

// OpenStore opens the configured database. When the database is disabled,
// unreachable or its schema is out of date, the problem is logged and the
// JSON fallback file is used instead.
func OpenStore(cfg config.DatabaseConfig, logger vagas.Logger) (Store, error) {
	db, err := database.NewDatabaseFromConfig(cfg)
	if err == nil {
		if err = db.CheckMigrations(); err == nil {
			return db, nil
		}
		db.Close()
		logger.Warn("database schema is not current, using local file",
			"error", err, "fix", "run 'vagas db migrate'")
	} else if errors.Is(err, database.ErrDisabled) {
		logger.Debug("database disabled, using local file", "path", cfg.Fallback)
	} else {
		logger.Warn("database unavailable, using local file",
			"error", err, "fix", "check [database] in the config, then run 'vagas db migrate'")
	}

	lf, err := OpenLocalFile(cfg.Fallback)
	if err != nil {
		return nil, fmt.Errorf("opening local library: %w", err)
	}
	return lf, nil
}
