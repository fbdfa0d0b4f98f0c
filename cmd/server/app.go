package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/planky/planky-api/internal/config"
	"github.com/planky/planky-api/internal/fetch"
	"github.com/planky/planky-api/internal/platform/postgres"
	"github.com/planky/planky-api/internal/service"
	"github.com/planky/planky-api/internal/service/auth"
	"github.com/planky/planky-api/internal/store"
)

// tokenPurgeInterval is how often expired refresh token revocations are
// swept from the database.
const tokenPurgeInterval = time.Hour

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore     store.UserStore
	bookmarkStore store.BookmarkStore
	tagStore      store.TagStore
	tokenStore    store.TokenStore

	// Service interfaces
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	bookmarkService  service.BookmarkService
	tagService       service.TagService

	// URL metadata fetcher
	fetcher *fetch.Fetcher

	// Background token purge
	purgeStop chan struct{}
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:    cfg,
		logger:    logger,
		db:        db,
		purgeStop: make(chan struct{}),
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes,
		"refresh_token_lifetime_minutes", cfg.Auth.RefreshTokenLifetimeMinutes)

	// Initialize password verifier
	app.passwordVerifier = auth.NewBcryptVerifier()

	// Initialize stores
	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	app.bookmarkStore = postgres.NewPostgresBookmarkStore(db, logger)
	app.tagStore = postgres.NewPostgresTagStore(db, logger)
	app.tokenStore = postgres.NewPostgresTokenStore(db, logger)

	// Initialize services
	app.bookmarkService, err = service.NewBookmarkService(db, app.bookmarkStore, app.tagStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create bookmark service: %w", err)
	}

	app.tagService, err = service.NewTagService(db, app.tagStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag service: %w", err)
	}

	// Initialize URL metadata fetcher
	app.fetcher = fetch.NewFetcher(cfg.Fetch, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	app.startTokenPurge(ctx)

	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// startTokenPurge launches the background sweep of expired refresh token
// revocations. Rows past their expiry would be rejected anyway, so the
// sweep only bounds table growth.
func (app *application) startTokenPurge(ctx context.Context) {
	log := app.logger.With(slog.String("component", "token_purge"))

	go func() {
		ticker := time.NewTicker(tokenPurgeInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				purged, err := app.tokenStore.PurgeExpired(ctx, time.Now().UTC())
				if err != nil {
					log.Error("failed to purge expired token revocations", "error", err)
					continue
				}
				log.Debug("token purge sweep completed", "purged", purged)
			case <-app.purgeStop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.purgeStop != nil {
		close(app.purgeStop)
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
