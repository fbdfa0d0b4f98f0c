package domain

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Bookmark field limits matching the database schema.
const (
	MaxURLLength   = 2000
	MaxTitleLength = 255
)

// Bookmark validation errors
var (
	ErrBookmarkIDEmpty      = fmt.Errorf("%w: bookmark ID cannot be empty", ErrValidation)
	ErrBookmarkUserIDEmpty  = fmt.Errorf("%w: bookmark user ID cannot be empty", ErrValidation)
	ErrBookmarkURLEmpty     = fmt.Errorf("%w: bookmark URL cannot be empty", ErrValidation)
	ErrBookmarkURLInvalid   = fmt.Errorf("%w: bookmark URL is not a valid http(s) URL", ErrValidation)
	ErrBookmarkURLTooLong   = fmt.Errorf("%w: bookmark URL exceeds maximum length", ErrValidation)
	ErrBookmarkTitleEmpty   = fmt.Errorf("%w: bookmark title cannot be empty", ErrValidation)
	ErrBookmarkTitleTooLong = fmt.Errorf("%w: bookmark title exceeds maximum length", ErrValidation)
	ErrFaviconURLInvalid    = fmt.Errorf("%w: favicon URL is not a valid http(s) URL", ErrValidation)
)

// Bookmark represents a saved URL with user-supplied metadata.
// Tags is populated by the store layer when loading bookmarks and is not
// part of the bookmarks table itself.
type Bookmark struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	FaviconURL  string    `json:"favicon_url,omitempty"`
	IsFavorite  bool      `json:"is_favorite"`
	IsPinned    bool      `json:"is_pinned"`
	Tags        []Tag     `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewBookmark creates a new Bookmark owned by the given user.
// It generates a new UUID and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewBookmark(userID uuid.UUID, rawURL, title string) (*Bookmark, error) {
	now := time.Now().UTC()
	bookmark := &Bookmark{
		ID:        uuid.New(),
		UserID:    userID,
		URL:       rawURL,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := bookmark.Validate(); err != nil {
		return nil, err
	}

	return bookmark, nil
}

// Validate checks if the Bookmark has valid data.
// Returns an error if any field fails validation.
func (b *Bookmark) Validate() error {
	if b.ID == uuid.Nil {
		return ErrBookmarkIDEmpty
	}

	if b.UserID == uuid.Nil {
		return ErrBookmarkUserIDEmpty
	}

	if b.URL == "" {
		return ErrBookmarkURLEmpty
	}

	if len(b.URL) > MaxURLLength {
		return ErrBookmarkURLTooLong
	}

	if !ValidateURL(b.URL) {
		return ErrBookmarkURLInvalid
	}

	if b.Title == "" {
		return ErrBookmarkTitleEmpty
	}

	if len(b.Title) > MaxTitleLength {
		return ErrBookmarkTitleTooLong
	}

	if b.FaviconURL != "" {
		if len(b.FaviconURL) > MaxURLLength || !ValidateURL(b.FaviconURL) {
			return ErrFaviconURLInvalid
		}
	}

	return nil
}

// Touch updates the UpdatedAt timestamp after a mutation.
func (b *Bookmark) Touch() {
	b.UpdatedAt = time.Now().UTC()
}

// ValidateURL reports whether raw is an absolute http or https URL with a
// non-empty host.
func ValidateURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
