package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/planky/planky-api/internal/domain"
	"github.com/planky/planky-api/internal/store"
)

// MockBookmarkStore implements store.BookmarkStore for testing
type MockBookmarkStore struct {
	CreateFn      func(ctx context.Context, bookmark *domain.Bookmark) error
	GetByIDFn     func(ctx context.Context, userID, id uuid.UUID) (*domain.Bookmark, error)
	ListFn        func(ctx context.Context, params store.BookmarkListParams) ([]*domain.Bookmark, int64, error)
	UpdateFn      func(ctx context.Context, bookmark *domain.Bookmark) error
	DeleteFn      func(ctx context.Context, userID, id uuid.UUID) error
	AddTagFn      func(ctx context.Context, bookmarkID, tagID uuid.UUID) error
	RemoveTagFn   func(ctx context.Context, bookmarkID, tagID uuid.UUID) error
	ReplaceTagsFn func(ctx context.Context, bookmarkID uuid.UUID, tagIDs []uuid.UUID) error

	// Data for default implementation
	Bookmarks map[uuid.UUID]*domain.Bookmark
}

// NewMockBookmarkStore creates a new mock store with initialized defaults
func NewMockBookmarkStore() *MockBookmarkStore {
	return &MockBookmarkStore{
		Bookmarks: make(map[uuid.UUID]*domain.Bookmark),
	}
}

var _ store.BookmarkStore = (*MockBookmarkStore)(nil)

// Create implements the BookmarkStore interface
func (m *MockBookmarkStore) Create(ctx context.Context, bookmark *domain.Bookmark) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, bookmark)
	}

	if err := bookmark.Validate(); err != nil {
		return err
	}
	if bookmark.Tags == nil {
		bookmark.Tags = []domain.Tag{}
	}
	m.Bookmarks[bookmark.ID] = bookmark
	return nil
}

// GetByID implements the BookmarkStore interface
func (m *MockBookmarkStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Bookmark, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, id)
	}

	bookmark, ok := m.Bookmarks[id]
	if !ok || bookmark.UserID != userID {
		return nil, store.ErrBookmarkNotFound
	}
	return bookmark, nil
}

// List implements the BookmarkStore interface
func (m *MockBookmarkStore) List(
	ctx context.Context,
	params store.BookmarkListParams,
) ([]*domain.Bookmark, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, params)
	}

	results := []*domain.Bookmark{}
	for _, bookmark := range m.Bookmarks {
		if bookmark.UserID != params.UserID {
			continue
		}
		if params.IsFavorite != nil && bookmark.IsFavorite != *params.IsFavorite {
			continue
		}
		if params.IsPinned != nil && bookmark.IsPinned != *params.IsPinned {
			continue
		}
		results = append(results, bookmark)
	}
	return results, int64(len(results)), nil
}

// Update implements the BookmarkStore interface
func (m *MockBookmarkStore) Update(ctx context.Context, bookmark *domain.Bookmark) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, bookmark)
	}

	existing, ok := m.Bookmarks[bookmark.ID]
	if !ok || existing.UserID != bookmark.UserID {
		return store.ErrBookmarkNotFound
	}
	m.Bookmarks[bookmark.ID] = bookmark
	return nil
}

// Delete implements the BookmarkStore interface
func (m *MockBookmarkStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}

	bookmark, ok := m.Bookmarks[id]
	if !ok || bookmark.UserID != userID {
		return store.ErrBookmarkNotFound
	}
	delete(m.Bookmarks, id)
	return nil
}

// AddTag implements the BookmarkStore interface
func (m *MockBookmarkStore) AddTag(ctx context.Context, bookmarkID, tagID uuid.UUID) error {
	if m.AddTagFn != nil {
		return m.AddTagFn(ctx, bookmarkID, tagID)
	}

	bookmark, ok := m.Bookmarks[bookmarkID]
	if !ok {
		return store.ErrInvalidEntity
	}
	for _, tag := range bookmark.Tags {
		if tag.ID == tagID {
			return store.ErrBookmarkTagExists
		}
	}
	bookmark.Tags = append(bookmark.Tags, domain.Tag{ID: tagID})
	return nil
}

// RemoveTag implements the BookmarkStore interface
func (m *MockBookmarkStore) RemoveTag(ctx context.Context, bookmarkID, tagID uuid.UUID) error {
	if m.RemoveTagFn != nil {
		return m.RemoveTagFn(ctx, bookmarkID, tagID)
	}

	bookmark, ok := m.Bookmarks[bookmarkID]
	if !ok {
		return store.ErrBookmarkTagNotFound
	}
	for i, tag := range bookmark.Tags {
		if tag.ID == tagID {
			bookmark.Tags = append(bookmark.Tags[:i], bookmark.Tags[i+1:]...)
			return nil
		}
	}
	return store.ErrBookmarkTagNotFound
}

// ReplaceTags implements the BookmarkStore interface
func (m *MockBookmarkStore) ReplaceTags(
	ctx context.Context,
	bookmarkID uuid.UUID,
	tagIDs []uuid.UUID,
) error {
	if m.ReplaceTagsFn != nil {
		return m.ReplaceTagsFn(ctx, bookmarkID, tagIDs)
	}

	bookmark, ok := m.Bookmarks[bookmarkID]
	if !ok {
		return store.ErrBookmarkNotFound
	}
	tags := make([]domain.Tag, 0, len(tagIDs))
	for _, id := range tagIDs {
		tags = append(tags, domain.Tag{ID: id})
	}
	bookmark.Tags = tags
	return nil
}

// WithTx implements the BookmarkStore interface; the mock ignores transactions.
func (m *MockBookmarkStore) WithTx(tx *sql.Tx) store.BookmarkStore {
	return m
}
