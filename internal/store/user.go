package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/planky/planky-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. It validates the user and
	// hashes the plaintext Password field before storage.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address (exact match on
	// the stored, lowercased email).
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user's details. If a plaintext Password
	// is set on the user, it is hashed and replaces the stored hash.
	// Returns ErrUserNotFound if the user does not exist.
	// Returns ErrEmailExists if updating to an email already in use.
	Update(ctx context.Context, user *domain.User) error

	// UpdateLastLogin records a successful login timestamp.
	// Returns ErrUserNotFound if the user does not exist.
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error

	// Delete removes a user from the store. Bookmarks and tags owned by
	// the user are removed by database cascade.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a UserStore bound to the provided transaction.
	WithTx(tx *sql.Tx) UserStore
}
