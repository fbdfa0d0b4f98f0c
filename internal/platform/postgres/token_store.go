package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/planky/planky-api/internal/platform/logger"
	"github.com/planky/planky-api/internal/store"
)

// PostgresTokenStore implements the store.TokenStore interface using a
// PostgreSQL database as the storage backend.
type PostgresTokenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTokenStore creates a new PostgreSQL implementation of the
// TokenStore interface. If logger is nil, a default logger will be used.
func NewPostgresTokenStore(db store.DBTX, logger *slog.Logger) *PostgresTokenStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTokenStore{
		db:     db,
		logger: logger.With(slog.String("component", "token_store")),
	}
}

// Ensure PostgresTokenStore implements store.TokenStore interface
var _ store.TokenStore = (*PostgresTokenStore)(nil)

// Revoke implements store.TokenStore.Revoke
// ON CONFLICT DO NOTHING makes revocation idempotent.
func (s *PostgresTokenStore) Revoke(ctx context.Context, token store.RevokedToken) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO revoked_tokens (jti, user_id, expires_at, revoked_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (jti) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query, token.JTI, token.UserID, token.ExpiresAt)
	if err != nil {
		log.Error("failed to revoke token",
			slog.String("error", err.Error()),
			slog.String("jti", token.JTI.String()))
		return MapError(err)
	}

	return nil
}

// IsRevoked implements store.TokenStore.IsRevoked
func (s *PostgresTokenStore) IsRevoked(ctx context.Context, jti uuid.UUID) (bool, error) {
	var revoked bool
	err := s.db.QueryRowContext(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`,
		jti,
	).Scan(&revoked)
	if err != nil {
		return false, MapError(err)
	}
	return revoked, nil
}

// PurgeExpired implements store.TokenStore.PurgeExpired
func (s *PostgresTokenStore) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < $1`,
		before,
	)
	if err != nil {
		log.Error("failed to purge expired revocations",
			slog.String("error", err.Error()))
		return 0, MapError(err)
	}

	purged, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if purged > 0 {
		log.Info("purged expired token revocations",
			slog.Int64("count", purged))
	}
	return purged, nil
}

// WithTx implements store.TokenStore.WithTx
func (s *PostgresTokenStore) WithTx(tx *sql.Tx) store.TokenStore {
	return &PostgresTokenStore{
		db:     tx,
		logger: s.logger,
	}
}
