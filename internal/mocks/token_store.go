package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/planky/planky-api/internal/store"
)

// MockTokenStore implements store.TokenStore for testing
type MockTokenStore struct {
	RevokeFn       func(ctx context.Context, token store.RevokedToken) error
	IsRevokedFn    func(ctx context.Context, jti uuid.UUID) (bool, error)
	PurgeExpiredFn func(ctx context.Context, before time.Time) (int64, error)

	// Revoked holds the default implementation's revocation list.
	Revoked map[uuid.UUID]store.RevokedToken
}

// NewMockTokenStore creates a new mock store with initialized defaults
func NewMockTokenStore() *MockTokenStore {
	return &MockTokenStore{
		Revoked: make(map[uuid.UUID]store.RevokedToken),
	}
}

var _ store.TokenStore = (*MockTokenStore)(nil)

// Revoke implements the TokenStore interface
func (m *MockTokenStore) Revoke(ctx context.Context, token store.RevokedToken) error {
	if m.RevokeFn != nil {
		return m.RevokeFn(ctx, token)
	}

	if _, exists := m.Revoked[token.JTI]; !exists {
		m.Revoked[token.JTI] = token
	}
	return nil
}

// IsRevoked implements the TokenStore interface
func (m *MockTokenStore) IsRevoked(ctx context.Context, jti uuid.UUID) (bool, error) {
	if m.IsRevokedFn != nil {
		return m.IsRevokedFn(ctx, jti)
	}

	_, revoked := m.Revoked[jti]
	return revoked, nil
}

// PurgeExpired implements the TokenStore interface
func (m *MockTokenStore) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	if m.PurgeExpiredFn != nil {
		return m.PurgeExpiredFn(ctx, before)
	}

	var purged int64
	for jti, token := range m.Revoked {
		if token.ExpiresAt.Before(before) {
			delete(m.Revoked, jti)
			purged++
		}
	}
	return purged, nil
}

// WithTx implements the TokenStore interface; the mock ignores transactions.
func (m *MockTokenStore) WithTx(tx *sql.Tx) store.TokenStore {
	return m
}
