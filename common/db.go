package common

import (
	"log/slog"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"scribe/kv"
)

func ConnectDb(dbFile string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbFile), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		slog.Error("Error opening sqlite db", slog.String("path", dbFile), slog.Any("err", err))
		return nil, err
	}
	slog.Info("Opened sqlite db", slog.String("path", dbFile))
	return db, nil
}

// OpenStore returns the persistent store for cfg, or a process-memory store
// when no database file is configured.
func OpenStore(cfg Config, migrate func(*gorm.DB) error) (kv.Store, error) {
	if cfg.SqliteDB == "" {
		slog.Warn("SQLITE_DB not set, posts will be lost on exit")
		return kv.NewMemoryStore(), nil
	}

	db, err := ConnectDb(cfg.SqliteDB)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		return nil, err
	}
	return kv.NewGormStore(db), nil
}
