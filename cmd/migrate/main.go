package main

import (
	"context"
	"os"

	"waranalyzer-backend/internal/shared/config"
	"waranalyzer-backend/internal/shared/storage/db"
	"waranalyzer-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		telemetry.Error("migrate.no_database_url", nil)
		os.Exit(1)
	}

	pool, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.RunMigrations(pool); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
	telemetry.Info("migrate.done", nil)
}
