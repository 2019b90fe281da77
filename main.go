package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"studybuddy/features/synthesis"
	"studybuddy/internal/adapter/gemini"
	"studybuddy/internal/adapter/postgres"
	"studybuddy/internal/cache"
	"studybuddy/internal/cli"
	"studybuddy/internal/config"
	"studybuddy/internal/logger"
	"studybuddy/internal/pdf"
)

func main() {
	// Initialize structured logger
	base := slog.NewJSONHandler(os.Stderr, nil)
	slog.SetDefault(slog.New(logger.NewContextHandler(base)))

	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// 2. Generator
	gen, err := gemini.NewGenerator(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		slog.Error("failed to create generator", "error", err)
		os.Exit(1)
	}
	defer gen.Close()

	// 3. Artifact cache
	store, err := cache.NewFileStore(cfg.CacheDir)
	if err != nil {
		slog.Error("failed to open cache directory", "dir", cfg.CacheDir, "error", err)
		os.Exit(1)
	}

	svc := synthesis.NewService(gen, pdf.NewExtractor(), store, synthesis.Config{
		Concurrency: cfg.Concurrency,
		MaxPages:    cfg.MaxPages,
	})

	// 4. Optional library persistence
	var sink cli.ArtifactSink
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to open db connection", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := runMigrations(db, cfg.MigrationPath); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("migrations applied successfully")

		sink = postgres.NewSink(db)
	}

	cli.Configure(cfg, svc, sink)
	if err := cli.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func runMigrations(db *sql.DB, path string) error {
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(path, "postgres", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
