package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/planky/planky-api/internal/domain"
)

// Tag ordering fields accepted by TagListParams.OrderBy.
const (
	TagOrderName          = "name"
	TagOrderCreatedAt     = "created_at"
	TagOrderBookmarkCount = "bookmark_count"
)

// TagListParams describes filtering, ordering, and pagination for tag list
// queries.
type TagListParams struct {
	UserID     uuid.UUID
	Search     string // case-insensitive substring on name
	UnusedOnly bool   // only tags with zero bookmark associations
	OrderBy    string // one of the TagOrder* constants; default name
	Descending bool
	Limit      int
	Offset     int
}

// TagWithCount pairs a tag with the number of bookmarks carrying it.
type TagWithCount struct {
	domain.Tag
	BookmarkCount int64
}

// TagStore defines the interface for tag data persistence.
type TagStore interface {
	// Create saves a new tag. The tag name must already be normalized
	// (domain.NewTag does this).
	// Returns ErrTagNameExists on a per-user duplicate name.
	Create(ctx context.Context, tag *domain.Tag) error

	// GetByID retrieves a tag owned by userID.
	// Returns ErrTagNotFound if absent or owned by another user.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Tag, error)

	// GetByName retrieves a tag by its normalized name.
	// Returns ErrTagNotFound if absent.
	GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Tag, error)

	// GetByIDs retrieves the subset of ids owned by userID. The result may
	// be shorter than ids; callers compare lengths to detect foreign or
	// missing tags.
	GetByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*domain.Tag, error)

	// List returns a page of tags matching params along with the total
	// number of matches. BookmarkCount is always populated.
	List(ctx context.Context, params TagListParams) ([]*TagWithCount, int64, error)

	// Update renames an existing tag.
	// Returns ErrTagNotFound if absent, ErrTagNameExists on duplicate.
	Update(ctx context.Context, tag *domain.Tag) error

	// Delete removes a tag; its bookmark associations are removed by
	// database cascade.
	// Returns ErrTagNotFound if absent or owned by another user.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// CountBookmarks returns the number of bookmarks carrying the tag.
	CountBookmarks(ctx context.Context, tagID uuid.UUID) (int64, error)

	// ReassignBookmarks moves all of source's bookmark associations onto
	// target, skipping bookmarks that already carry target. Returns the
	// number of new associations created. The source tag itself is not
	// deleted. MUST run within a transaction.
	ReassignBookmarks(ctx context.Context, sourceTagID, targetTagID uuid.UUID) (int64, error)

	// WithTx returns a TagStore bound to the provided transaction.
	WithTx(tx *sql.Tx) TagStore
}
