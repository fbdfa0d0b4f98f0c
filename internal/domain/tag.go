package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxTagNameLength is the maximum length of a tag name, matching the schema.
const MaxTagNameLength = 50

// Tag validation errors
var (
	ErrTagIDEmpty     = fmt.Errorf("%w: tag ID cannot be empty", ErrValidation)
	ErrTagUserIDEmpty = fmt.Errorf("%w: tag user ID cannot be empty", ErrValidation)
	ErrTagNameEmpty   = fmt.Errorf("%w: tag name cannot be empty", ErrValidation)
	ErrTagNameTooLong = fmt.Errorf("%w: tag name exceeds maximum length", ErrValidation)
)

// Tag represents a user-owned label attached to bookmarks.
// Names are stored normalized (lowercase, trimmed) and are unique per user.
type Tag struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"-"`
	Name            string    `json:"name"`
	IsAutoGenerated bool      `json:"is_auto_generated"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewTag creates a new Tag owned by the given user. The name is normalized
// before validation. Returns an error if validation fails.
func NewTag(userID uuid.UUID, name string) (*Tag, error) {
	tag := &Tag{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      NormalizeTagName(name),
		CreatedAt: time.Now().UTC(),
	}

	if err := tag.Validate(); err != nil {
		return nil, err
	}

	return tag, nil
}

// Validate checks if the Tag has valid data.
// Returns an error if any field fails validation.
func (t *Tag) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTagIDEmpty
	}

	if t.UserID == uuid.Nil {
		return ErrTagUserIDEmpty
	}

	if t.Name == "" {
		return ErrTagNameEmpty
	}

	if len(t.Name) > MaxTagNameLength {
		return ErrTagNameTooLong
	}

	return nil
}

// Rename normalizes and applies a new name to the tag.
// Returns an error if the normalized name is invalid.
func (t *Tag) Rename(name string) error {
	normalized := NormalizeTagName(name)
	if normalized == "" {
		return ErrTagNameEmpty
	}
	if len(normalized) > MaxTagNameLength {
		return ErrTagNameTooLong
	}
	t.Name = normalized
	return nil
}

// NormalizeTagName lowercases and trims a tag name. All tag lookups and
// uniqueness checks operate on normalized names.
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
