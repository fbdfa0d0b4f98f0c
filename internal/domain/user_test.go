package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// User validation errors must wrap ErrValidation so the API layer maps them
// to 400 responses.
func TestUserErrorsWrapValidation(t *testing.T) {
	t.Parallel()
	for _, err := range []error{
		ErrEmptyUserID,
		ErrEmptyEmail,
		ErrInvalidEmail,
		ErrPasswordTooShort,
		ErrPasswordTooLong,
		ErrEmptyPassword,
		ErrInvalidAuthProvider,
	} {
		if !errors.Is(err, ErrValidation) {
			t.Errorf("%v should wrap ErrValidation", err)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"Alice@Example.com":   "alice@example.com",
		"  bob@example.com  ": "bob@example.com",
		"carol@EXAMPLE.COM":   "carol@example.com",
		"already@example.com": "already@example.com",
	}
	for input, want := range cases {
		if got := NormalizeEmail(input); got != want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNewUser(t *testing.T) {
	t.Parallel() // Enable parallel execution
	// Test valid user creation
	user, err := NewUser("Alice@Example.com", "password123")

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if user.Email != "alice@example.com" {
		t.Errorf("Expected normalized email alice@example.com, got %s", user.Email)
	}

	if user.AuthProvider != AuthProviderEmail {
		t.Errorf("Expected auth provider %s, got %s", AuthProviderEmail, user.AuthProvider)
	}

	if !user.IsActive {
		t.Error("Expected new user to be active")
	}

	if user.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	if user.UpdatedAt.IsZero() {
		t.Error("Expected non-zero UpdatedAt time")
	}

	// Test empty email
	_, err = NewUser("", "password123")
	if err != ErrEmptyEmail {
		t.Errorf("Expected error %v, got %v", ErrEmptyEmail, err)
	}

	// Test invalid email format
	_, err = NewUser("not-an-email", "password123")
	if err != ErrInvalidEmail {
		t.Errorf("Expected error %v, got %v", ErrInvalidEmail, err)
	}

	// Test short password
	_, err = NewUser("alice@example.com", "short")
	if err != ErrPasswordTooShort {
		t.Errorf("Expected error %v, got %v", ErrPasswordTooShort, err)
	}

	// Test overlong password (bcrypt limit)
	_, err = NewUser("alice@example.com", strings.Repeat("x", 73))
	if err != ErrPasswordTooLong {
		t.Errorf("Expected error %v, got %v", ErrPasswordTooLong, err)
	}

	// Test empty password
	_, err = NewUser("alice@example.com", "")
	if err != ErrEmptyPassword {
		t.Errorf("Expected error %v, got %v", ErrEmptyPassword, err)
	}
}

func TestUserValidate(t *testing.T) {
	t.Parallel() // Enable parallel execution
	validUser := User{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		Password:     "password123",
		AuthProvider: AuthProviderEmail,
	}

	// Test valid user
	if err := validUser.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	// Test invalid ID
	invalidUser := validUser
	invalidUser.ID = uuid.Nil
	if err := invalidUser.Validate(); err != ErrEmptyUserID {
		t.Errorf("Expected error %v, got %v", ErrEmptyUserID, err)
	}

	// Test empty email
	invalidUser = validUser
	invalidUser.Email = ""
	if err := invalidUser.Validate(); err != ErrEmptyEmail {
		t.Errorf("Expected error %v, got %v", ErrEmptyEmail, err)
	}

	// Test invalid auth provider
	invalidUser = validUser
	invalidUser.AuthProvider = "carrier-pigeon"
	if err := invalidUser.Validate(); err != ErrInvalidAuthProvider {
		t.Errorf("Expected error %v, got %v", ErrInvalidAuthProvider, err)
	}

	// A stored user carries only the hash; that must validate.
	storedUser := validUser
	storedUser.Password = ""
	storedUser.HashedPassword = "$2a$10$somethinghashed"
	if err := storedUser.Validate(); err != nil {
		t.Errorf("Expected no error for hashed-only user, got %v", err)
	}

	// Neither plaintext nor hash is invalid.
	invalidUser = validUser
	invalidUser.Password = ""
	invalidUser.HashedPassword = ""
	if err := invalidUser.Validate(); err != ErrEmptyPassword {
		t.Errorf("Expected error %v, got %v", ErrEmptyPassword, err)
	}
}

func TestValidateEmailFormat(t *testing.T) {
	t.Parallel() // Enable parallel execution
	valid := []string{
		"alice@example.com",
		"a.b+c@sub.example.org",
	}
	for _, email := range valid {
		if !validateEmailFormat(email) {
			t.Errorf("Expected %q to be valid", email)
		}
	}

	invalid := []string{
		"",
		"alice",
		"@example.com",
		"alice@",
		"alice@example",
		"alice@.com",
		"alice@example.",
		"alice smith@example.com",
	}
	for _, email := range invalid {
		if validateEmailFormat(email) {
			t.Errorf("Expected %q to be invalid", email)
		}
	}
}
