package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// RevokedToken records a refresh token that must no longer be accepted.
// Rows become purgeable once ExpiresAt has passed, since the token would
// be rejected as expired anyway.
type RevokedToken struct {
	JTI       uuid.UUID
	UserID    uuid.UUID
	ExpiresAt time.Time
}

// TokenStore defines the interface for the refresh token revocation list.
type TokenStore interface {
	// Revoke records a refresh token's jti as revoked. Revoking an
	// already-revoked token is not an error.
	Revoke(ctx context.Context, token RevokedToken) error

	// IsRevoked reports whether the given jti has been revoked.
	IsRevoked(ctx context.Context, jti uuid.UUID) (bool, error)

	// PurgeExpired deletes revocation rows whose tokens expired before the
	// given time and returns the number of rows removed.
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)

	// WithTx returns a TokenStore bound to the provided transaction.
	WithTx(tx *sql.Tx) TokenStore
}
