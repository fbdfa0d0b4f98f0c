package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/planky/planky-api/internal/domain"
	"github.com/planky/planky-api/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn          func(ctx context.Context, user *domain.User) error
	GetByIDFn         func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn      func(ctx context.Context, email string) (*domain.User, error)
	UpdateFn          func(ctx context.Context, user *domain.User) error
	UpdateLastLoginFn func(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteFn          func(ctx context.Context, id uuid.UUID) error

	// Data for default implementation, keyed by email
	Users       map[string]*domain.User
	CreateError error
}

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users: make(map[string]*domain.User),
	}
}

var _ store.UserStore = (*MockUserStore)(nil)

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	if err := user.Validate(); err != nil {
		return err
	}

	if _, exists := m.Users[user.Email]; exists {
		return store.ErrEmailExists
	}

	// The real store hashes; the mock just records something non-empty.
	user.HashedPassword = "hashed:" + user.Password
	user.Password = ""
	m.Users[user.Email] = user
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	for _, user := range m.Users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	user, exists := m.Users[email]
	if !exists {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

// Update implements the UserStore interface
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}

	for email, existing := range m.Users {
		if existing.ID == user.ID {
			delete(m.Users, email)
			m.Users[user.Email] = user
			return nil
		}
	}
	return store.ErrUserNotFound
}

// UpdateLastLogin implements the UserStore interface
func (m *MockUserStore) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if m.UpdateLastLoginFn != nil {
		return m.UpdateLastLoginFn(ctx, id, at)
	}

	for _, user := range m.Users {
		if user.ID == id {
			t := at
			user.LastLoginAt = &t
			return nil
		}
	}
	return store.ErrUserNotFound
}

// Delete implements the UserStore interface
func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	for email, user := range m.Users {
		if user.ID == id {
			delete(m.Users, email)
			return nil
		}
	}
	return store.ErrUserNotFound
}

// WithTx implements the UserStore interface; the mock ignores transactions.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}
