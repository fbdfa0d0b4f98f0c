package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AuthProvider identifies how a user account authenticates.
type AuthProvider string

// Supported authentication providers. Only email/password authentication is
// implemented; the other values are reserved by the schema.
const (
	AuthProviderEmail    AuthProvider = "email"
	AuthProviderGitHub   AuthProvider = "github"
	AuthProviderTelegram AuthProvider = "telegram"
)

// User validation errors
var (
	ErrEmptyUserID         = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	ErrEmptyEmail          = fmt.Errorf("%w: email cannot be empty", ErrValidation)
	ErrInvalidEmail        = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrPasswordTooShort    = fmt.Errorf("%w: password must be at least 8 characters long", ErrValidation)
	ErrPasswordTooLong     = fmt.Errorf("%w: password must be at most 72 characters long", ErrValidation)
	ErrEmptyPassword       = fmt.Errorf("%w: password cannot be empty", ErrValidation)
	ErrInvalidAuthProvider = fmt.Errorf("%w: invalid authentication provider", ErrValidation)
)

// User represents a registered Planky account. Email is the unique login
// identifier; the username and name fields are optional profile data.
type User struct {
	ID             uuid.UUID    `json:"id"`
	Email          string       `json:"email"`
	Username       string       `json:"username,omitempty"`
	FirstName      string       `json:"first_name,omitempty"`
	LastName       string       `json:"last_name,omitempty"`
	Password       string       `json:"-"` // Plaintext, only set transiently during registration/updates
	HashedPassword string       `json:"-"` // Never exposed in JSON
	AuthProvider   AuthProvider `json:"auth_provider"`
	IsActive       bool         `json:"is_active"`
	LastLoginAt    *time.Time   `json:"last_login,omitempty"`
	CreatedAt      time.Time    `json:"date_joined"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// NormalizeEmail lowercases and trims an email address. Registration and
// every email lookup must agree on this form or stored users become
// unreachable.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser creates a new email-provider User with the given email and
// plaintext password. The caller (store layer) is responsible for hashing
// the password before persisting the user.
// Returns an error if validation fails.
func NewUser(email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:           uuid.New(),
		Email:        NormalizeEmail(email),
		Password:     password,
		AuthProvider: AuthProviderEmail,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	switch u.AuthProvider {
	case AuthProviderEmail, AuthProviderGitHub, AuthProviderTelegram:
	default:
		return ErrInvalidAuthProvider
	}

	if u.Password != "" {
		if len(u.Password) < 8 {
			return ErrPasswordTooShort
		}
		if len(u.Password) > 72 {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		// Existing users loaded from the database carry only the hash.
		return ErrEmptyPassword
	}

	return nil
}

// validateEmailFormat performs basic validation of email format: a local
// part, an @, and a domain containing an interior dot. Full RFC 5322
// validation is left to the API layer's validator tags.
func validateEmailFormat(email string) bool {
	atIndex := strings.IndexByte(email, '@')
	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	domain := email[atIndex+1:]
	dotIndex := strings.IndexByte(domain, '.')
	if dotIndex <= 0 || dotIndex == len(domain)-1 {
		return false
	}

	return !strings.ContainsAny(email, " \t\n")
}
