package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/planky/planky-api/internal/domain"
)

// Bookmark ordering fields accepted by BookmarkListParams.OrderBy.
const (
	BookmarkOrderCreatedAt = "created_at"
	BookmarkOrderUpdatedAt = "updated_at"
	BookmarkOrderTitle     = "title"
)

// BookmarkListParams describes filtering, ordering, and pagination for
// bookmark list queries. Nil pointer fields mean "no filter". String
// filters are case-insensitive substring matches except TagName, which is
// an exact match on the normalized name.
type BookmarkListParams struct {
	UserID        uuid.UUID
	IsFavorite    *bool
	IsPinned      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	TitleContains string
	URLContains   string
	Search        string // matches title, description, or URL
	TagID         *uuid.UUID
	TagName       string
	OrderBy       string // one of the BookmarkOrder* constants; default created_at
	Descending    bool
	Limit         int
	Offset        int
}

// BookmarkStore defines the interface for bookmark data persistence.
// Returned bookmarks always have their Tags slice populated.
type BookmarkStore interface {
	// Create saves a new bookmark. Tag associations are managed separately
	// via AddTag/ReplaceTags so that creation with tags can run in one
	// transaction at the service layer.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, bookmark *domain.Bookmark) error

	// GetByID retrieves a bookmark owned by userID.
	// Returns ErrBookmarkNotFound if absent or owned by another user.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Bookmark, error)

	// List returns a page of bookmarks matching params along with the
	// total number of matches (ignoring Limit/Offset).
	List(ctx context.Context, params BookmarkListParams) ([]*domain.Bookmark, int64, error)

	// Update modifies an existing bookmark's fields (not its tags).
	// Returns ErrBookmarkNotFound if absent or owned by another user.
	Update(ctx context.Context, bookmark *domain.Bookmark) error

	// Delete removes a bookmark; its tag associations are removed by
	// database cascade.
	// Returns ErrBookmarkNotFound if absent or owned by another user.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// AddTag associates a tag with a bookmark.
	// Returns ErrBookmarkTagExists if the association already exists and
	// ErrInvalidEntity if either side does not exist.
	AddTag(ctx context.Context, bookmarkID, tagID uuid.UUID) error

	// RemoveTag removes a tag association.
	// Returns ErrBookmarkTagNotFound if the bookmark does not carry the tag.
	RemoveTag(ctx context.Context, bookmarkID, tagID uuid.UUID) error

	// ReplaceTags atomically replaces the bookmark's tag set with tagIDs.
	// MUST run within a transaction (use WithTx and RunInTransaction).
	ReplaceTags(ctx context.Context, bookmarkID uuid.UUID, tagIDs []uuid.UUID) error

	// WithTx returns a BookmarkStore bound to the provided transaction.
	WithTx(tx *sql.Tx) BookmarkStore
}
