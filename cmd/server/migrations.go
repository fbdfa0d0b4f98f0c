package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/planky/planky-api/internal/config"
	"github.com/planky/planky-api/internal/platform/postgres"
)

// slogGooseLogger adapts the goose logger interface to use slog
type slogGooseLogger struct{}

// Printf implements the goose.Logger Printf method by forwarding messages to slog.Info
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements the goose.Logger Fatalf method by forwarding error
// messages to slog.Error. It does NOT call os.Exit; the error propagates to
// main which handles the exit.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

// runMigrations executes the requested goose command against the embedded
// SQL migrations.
func runMigrations(cfg *config.Config, command string) error {
	migrationLogger := slog.Default().With(
		"component", "migrations",
		"command", command,
	)

	if cfg.Database.URL == "" {
		return fmt.Errorf("database URL is empty: check your configuration")
	}

	startTime := time.Now()
	migrationLogger.Info("Starting migration operation",
		"url", maskDatabaseURL(cfg.Database.URL))

	goose.SetLogger(&slogGooseLogger{})
	goose.SetBaseFS(postgres.MigrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			migrationLogger.Error("Error closing database connection", "error", err)
		}
	}()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	switch command {
	case "up":
		err = goose.Up(db, postgres.MigrationsDir)
	case "down":
		err = goose.Down(db, postgres.MigrationsDir)
	case "status":
		err = goose.Status(db, postgres.MigrationsDir)
	case "version":
		err = goose.Version(db, postgres.MigrationsDir)
	default:
		return fmt.Errorf("unknown migration command %q (want up, down, status, or version)", command)
	}
	if err != nil {
		return fmt.Errorf("goose %s failed: %w", command, err)
	}

	migrationLogger.Info("Migration operation completed",
		"duration_ms", time.Since(startTime).Milliseconds())
	return nil
}
