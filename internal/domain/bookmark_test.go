package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// Bookmark validation errors must wrap ErrValidation so the API layer maps
// them to 400 responses.
func TestBookmarkErrorsWrapValidation(t *testing.T) {
	t.Parallel()
	for _, err := range []error{
		ErrBookmarkIDEmpty,
		ErrBookmarkUserIDEmpty,
		ErrBookmarkURLEmpty,
		ErrBookmarkURLInvalid,
		ErrBookmarkURLTooLong,
		ErrBookmarkTitleEmpty,
		ErrBookmarkTitleTooLong,
		ErrFaviconURLInvalid,
	} {
		if !errors.Is(err, ErrValidation) {
			t.Errorf("%v should wrap ErrValidation", err)
		}
	}
}

func TestNewBookmark(t *testing.T) {
	t.Parallel() // Enable parallel execution
	// Test valid bookmark creation
	userID := uuid.New()

	bookmark, err := NewBookmark(userID, "https://go.dev/blog", "The Go Blog")

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if bookmark.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if bookmark.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, bookmark.UserID)
	}

	if bookmark.URL != "https://go.dev/blog" {
		t.Errorf("Expected URL https://go.dev/blog, got %s", bookmark.URL)
	}

	if bookmark.IsFavorite || bookmark.IsPinned {
		t.Error("Expected new bookmark to be neither favorite nor pinned")
	}

	if bookmark.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	// Test invalid userID
	_, err = NewBookmark(uuid.Nil, "https://go.dev", "Go")
	if err != ErrBookmarkUserIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrBookmarkUserIDEmpty, err)
	}

	// Test empty URL
	_, err = NewBookmark(userID, "", "Go")
	if err != ErrBookmarkURLEmpty {
		t.Errorf("Expected error %v, got %v", ErrBookmarkURLEmpty, err)
	}

	// Test non-http URL
	_, err = NewBookmark(userID, "ftp://files.example.com", "Files")
	if err != ErrBookmarkURLInvalid {
		t.Errorf("Expected error %v, got %v", ErrBookmarkURLInvalid, err)
	}

	// Test empty title
	_, err = NewBookmark(userID, "https://go.dev", "")
	if err != ErrBookmarkTitleEmpty {
		t.Errorf("Expected error %v, got %v", ErrBookmarkTitleEmpty, err)
	}
}

func TestBookmarkValidate(t *testing.T) {
	t.Parallel() // Enable parallel execution
	validBookmark := Bookmark{
		ID:     uuid.New(),
		UserID: uuid.New(),
		URL:    "https://go.dev",
		Title:  "Go",
	}

	// Test valid bookmark
	if err := validBookmark.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	// Test invalid ID
	invalidBookmark := validBookmark
	invalidBookmark.ID = uuid.Nil
	if err := invalidBookmark.Validate(); err != ErrBookmarkIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrBookmarkIDEmpty, err)
	}

	// Test overlong URL
	invalidBookmark = validBookmark
	invalidBookmark.URL = "https://example.com/" + strings.Repeat("a", MaxURLLength)
	if err := invalidBookmark.Validate(); err != ErrBookmarkURLTooLong {
		t.Errorf("Expected error %v, got %v", ErrBookmarkURLTooLong, err)
	}

	// Test overlong title
	invalidBookmark = validBookmark
	invalidBookmark.Title = strings.Repeat("a", MaxTitleLength+1)
	if err := invalidBookmark.Validate(); err != ErrBookmarkTitleTooLong {
		t.Errorf("Expected error %v, got %v", ErrBookmarkTitleTooLong, err)
	}

	// Test invalid favicon URL
	invalidBookmark = validBookmark
	invalidBookmark.FaviconURL = "not a url"
	if err := invalidBookmark.Validate(); err != ErrFaviconURLInvalid {
		t.Errorf("Expected error %v, got %v", ErrFaviconURLInvalid, err)
	}

	// Valid favicon URL passes
	invalidBookmark = validBookmark
	invalidBookmark.FaviconURL = "https://go.dev/favicon.ico"
	if err := invalidBookmark.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestBookmarkTouch(t *testing.T) {
	t.Parallel() // Enable parallel execution
	bookmark, err := NewBookmark(uuid.New(), "https://go.dev", "Go")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	before := bookmark.UpdatedAt
	bookmark.Touch()
	if bookmark.UpdatedAt.Before(before) {
		t.Error("Expected UpdatedAt to move forward")
	}
}

func TestValidateURL(t *testing.T) {
	t.Parallel() // Enable parallel execution
	valid := []string{
		"https://go.dev",
		"http://example.com/path?q=1",
		"https://sub.example.co.uk:8443/a/b",
	}
	for _, raw := range valid {
		if !ValidateURL(raw) {
			t.Errorf("Expected %q to be valid", raw)
		}
	}

	invalid := []string{
		"",
		"go.dev",
		"ftp://files.example.com",
		"javascript:alert(1)",
		"https://",
		"://missing-scheme.com",
	}
	for _, raw := range invalid {
		if ValidateURL(raw) {
			t.Errorf("Expected %q to be invalid", raw)
		}
	}
}
