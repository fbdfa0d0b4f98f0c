package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. Entity-specific variants below wrap it.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g. a user with the same email).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored or violates a database constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrBookmarkNotFound indicates that the requested bookmark does not
	// exist or is not owned by the requesting user.
	ErrBookmarkNotFound = fmt.Errorf("%w: bookmark", ErrNotFound)

	// ErrTagNotFound indicates that the requested tag does not exist or is
	// not owned by the requesting user.
	ErrTagNotFound = fmt.Errorf("%w: tag", ErrNotFound)

	// ErrBookmarkTagNotFound indicates that a bookmark does not carry the
	// given tag.
	ErrBookmarkTagNotFound = fmt.Errorf("%w: bookmark tag", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrEmailExists indicates that a user with the given email already
	// exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrTagNameExists indicates that the user already has a tag with the
	// given (normalized) name.
	ErrTagNameExists = fmt.Errorf("%w: tag name", ErrDuplicate)

	// ErrBookmarkTagExists indicates that a bookmark already carries the
	// given tag.
	ErrBookmarkTagExists = fmt.Errorf("%w: bookmark tag", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
