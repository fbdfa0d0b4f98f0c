package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/planky/planky-api/internal/domain"
	"github.com/planky/planky-api/internal/service"
)

// MockBookmarkService implements service.BookmarkService for testing
type MockBookmarkService struct {
	CreateBookmarkFn func(ctx context.Context, userID uuid.UUID, params service.CreateBookmarkParams) (*domain.Bookmark, error)
	UpdateBookmarkFn func(ctx context.Context, userID, bookmarkID uuid.UUID, params service.UpdateBookmarkParams) (*domain.Bookmark, error)
	AddTagFn         func(ctx context.Context, userID, bookmarkID uuid.UUID, ref service.TagRef) (*domain.Bookmark, error)
	RemoveTagFn      func(ctx context.Context, userID, bookmarkID uuid.UUID, ref service.TagRef) (*domain.Bookmark, error)

	// Default values used when functions aren't explicitly defined
	Bookmark *domain.Bookmark
	Err      error
}

var _ service.BookmarkService = (*MockBookmarkService)(nil)

// CreateBookmark implements the service.BookmarkService interface
func (m *MockBookmarkService) CreateBookmark(
	ctx context.Context,
	userID uuid.UUID,
	params service.CreateBookmarkParams,
) (*domain.Bookmark, error) {
	if m.CreateBookmarkFn != nil {
		return m.CreateBookmarkFn(ctx, userID, params)
	}
	return m.Bookmark, m.Err
}

// UpdateBookmark implements the service.BookmarkService interface
func (m *MockBookmarkService) UpdateBookmark(
	ctx context.Context,
	userID, bookmarkID uuid.UUID,
	params service.UpdateBookmarkParams,
) (*domain.Bookmark, error) {
	if m.UpdateBookmarkFn != nil {
		return m.UpdateBookmarkFn(ctx, userID, bookmarkID, params)
	}
	return m.Bookmark, m.Err
}

// AddTag implements the service.BookmarkService interface
func (m *MockBookmarkService) AddTag(
	ctx context.Context,
	userID, bookmarkID uuid.UUID,
	ref service.TagRef,
) (*domain.Bookmark, error) {
	if m.AddTagFn != nil {
		return m.AddTagFn(ctx, userID, bookmarkID, ref)
	}
	return m.Bookmark, m.Err
}

// RemoveTag implements the service.BookmarkService interface
func (m *MockBookmarkService) RemoveTag(
	ctx context.Context,
	userID, bookmarkID uuid.UUID,
	ref service.TagRef,
) (*domain.Bookmark, error) {
	if m.RemoveTagFn != nil {
		return m.RemoveTagFn(ctx, userID, bookmarkID, ref)
	}
	return m.Bookmark, m.Err
}
