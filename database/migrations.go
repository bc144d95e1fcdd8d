package database

import (
	"log/slog"

	"gorm.io/gorm"

	"scribe/models"
)

func RunMigrations(db *gorm.DB) error {
	slog.Info("Running database migrations...")

	if err := db.AutoMigrate(&models.Entry{}); err != nil {
		slog.Error("Error running migrations", slog.Any("err", err))
		return err
	}

	slog.Info("Migrations completed successfully")
	return nil
}
