package main

import (
	"context"
	"time"

	"hotel-booking/internal/logger"
	"hotel-booking/internal/storage"
)

func runMigration(store *storage.MySQLStore, log *logger.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log.LogProcess("MIGRATE", "Applying database migrations...")
	if err := store.Migrate(ctx); err != nil {
		return err
	}
	log.LogProcess("MIGRATE", "Migration completed successfully")
	return nil
}
