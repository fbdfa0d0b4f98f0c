package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// Tag validation errors must wrap ErrValidation so the API layer maps them
// to 400 responses.
func TestTagErrorsWrapValidation(t *testing.T) {
	t.Parallel()
	for _, err := range []error{ErrTagIDEmpty, ErrTagUserIDEmpty, ErrTagNameEmpty, ErrTagNameTooLong} {
		if !errors.Is(err, ErrValidation) {
			t.Errorf("%v should wrap ErrValidation", err)
		}
	}
}

func TestNewTag(t *testing.T) {
	t.Parallel() // Enable parallel execution
	// Test valid tag creation with normalization
	userID := uuid.New()

	tag, err := NewTag(userID, "  GoLang  ")

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if tag.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if tag.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, tag.UserID)
	}

	if tag.Name != "golang" {
		t.Errorf("Expected normalized name golang, got %s", tag.Name)
	}

	if tag.IsAutoGenerated {
		t.Error("Expected new tag to not be auto-generated")
	}

	if tag.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	// Test invalid userID
	_, err = NewTag(uuid.Nil, "golang")
	if err != ErrTagUserIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrTagUserIDEmpty, err)
	}

	// Test empty name after normalization
	_, err = NewTag(userID, "   ")
	if err != ErrTagNameEmpty {
		t.Errorf("Expected error %v, got %v", ErrTagNameEmpty, err)
	}

	// Test overlong name
	_, err = NewTag(userID, strings.Repeat("a", MaxTagNameLength+1))
	if err != ErrTagNameTooLong {
		t.Errorf("Expected error %v, got %v", ErrTagNameTooLong, err)
	}
}

func TestTagRename(t *testing.T) {
	t.Parallel() // Enable parallel execution
	tag, err := NewTag(uuid.New(), "golang")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := tag.Rename("  Reading List  "); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if tag.Name != "reading list" {
		t.Errorf("Expected name reading list, got %s", tag.Name)
	}

	if err := tag.Rename("   "); err != ErrTagNameEmpty {
		t.Errorf("Expected error %v, got %v", ErrTagNameEmpty, err)
	}

	if err := tag.Rename(strings.Repeat("a", MaxTagNameLength+1)); err != ErrTagNameTooLong {
		t.Errorf("Expected error %v, got %v", ErrTagNameTooLong, err)
	}

	// Failed renames leave the name untouched
	if tag.Name != "reading list" {
		t.Errorf("Expected name to remain reading list, got %s", tag.Name)
	}
}

func TestNormalizeTagName(t *testing.T) {
	t.Parallel() // Enable parallel execution
	cases := map[string]string{
		"GoLang":        "golang",
		"  spaced  ":    "spaced",
		"MiXeD CaSe":    "mixed case",
		"already-lower": "already-lower",
		"":              "",
	}
	for input, want := range cases {
		if got := NormalizeTagName(input); got != want {
			t.Errorf("NormalizeTagName(%q) = %q, want %q", input, got, want)
		}
	}
}
