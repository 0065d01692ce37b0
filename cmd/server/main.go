// Package main implements the entry point for the Quizzzlet API server,
// which drives vocabulary practice through flashcard and quiz sessions.
package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/SzymonBartkowiak43/quizzzlet/internal/config"
	"github.com/SzymonBartkowiak43/quizzzlet/internal/platform/logger"
	"github.com/SzymonBartkowiak43/quizzzlet/internal/platform/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("Failed to close database connection", "error", err)
		}
	}()

	if err := postgres.MigrateUp(db); err != nil {
		appLogger.Error("Failed to apply migrations", "error", err)
		log.Fatalf("Failed to apply migrations: %v", err)
	}
	appLogger.Info("Database migrations applied")

	ctx := context.Background()

	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		appLogger.Error("Failed to initialize application", "error", err)
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		slog.Error("Server exited with error", "error", err)
		log.Fatalf("Server exited with error: %v", err)
	}
}
