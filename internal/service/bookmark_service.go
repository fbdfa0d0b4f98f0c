package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/planky/planky-api/internal/domain"
	"github.com/planky/planky-api/internal/platform/logger"
	"github.com/planky/planky-api/internal/store"
)

// TagRef identifies a tag either by ID or by (possibly unnormalized) name.
// Exactly one of the two should be set; ID wins when both are.
type TagRef struct {
	ID   *uuid.UUID
	Name string
}

// CreateBookmarkParams carries the fields for a new bookmark.
type CreateBookmarkParams struct {
	URL         string
	Title       string
	Description string
	FaviconURL  string
	IsFavorite  bool
	IsPinned    bool
	TagIDs      []uuid.UUID
}

// UpdateBookmarkParams carries a partial bookmark update. Nil pointers mean
// "leave unchanged". TagIDs, when non-nil, replaces the whole tag set.
type UpdateBookmarkParams struct {
	URL         *string
	Title       *string
	Description *string
	FaviconURL  *string
	IsFavorite  *bool
	IsPinned    *bool
	TagIDs      []uuid.UUID
	ReplaceTags bool
}

// BookmarkService provides bookmark operations that span multiple stores or
// statements and therefore run inside transactions.
type BookmarkService interface {
	// CreateBookmark creates a bookmark and attaches the given tags
	// atomically. All tag IDs must belong to userID; a foreign or unknown
	// ID yields store.ErrTagNotFound.
	CreateBookmark(ctx context.Context, userID uuid.UUID, params CreateBookmarkParams) (*domain.Bookmark, error)

	// UpdateBookmark applies a partial update, replacing the tag set when
	// params.ReplaceTags is set.
	UpdateBookmark(ctx context.Context, userID, bookmarkID uuid.UUID, params UpdateBookmarkParams) (*domain.Bookmark, error)

	// AddTag attaches a tag to a bookmark. When ref carries a name and no
	// such tag exists it is created on the fly. Returns the updated
	// bookmark. store.ErrBookmarkTagExists if already attached.
	AddTag(ctx context.Context, userID, bookmarkID uuid.UUID, ref TagRef) (*domain.Bookmark, error)

	// RemoveTag detaches a tag from a bookmark and returns the updated
	// bookmark. store.ErrBookmarkTagNotFound if not attached.
	RemoveTag(ctx context.Context, userID, bookmarkID uuid.UUID, ref TagRef) (*domain.Bookmark, error)
}

// bookmarkServiceImpl implements the BookmarkService interface
type bookmarkServiceImpl struct {
	db            *sql.DB
	bookmarkStore store.BookmarkStore
	tagStore      store.TagStore
	logger        *slog.Logger
}

// NewBookmarkService creates a new BookmarkService.
// It returns an error if any of the required dependencies are nil.
func NewBookmarkService(
	db *sql.DB,
	bookmarkStore store.BookmarkStore,
	tagStore store.TagStore,
	logger *slog.Logger,
) (BookmarkService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if bookmarkStore == nil {
		return nil, domain.NewValidationError("bookmarkStore", "cannot be nil", domain.ErrValidation)
	}
	if tagStore == nil {
		return nil, domain.NewValidationError("tagStore", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &bookmarkServiceImpl{
		db:            db,
		bookmarkStore: bookmarkStore,
		tagStore:      tagStore,
		logger:        logger.With(slog.String("component", "bookmark_service")),
	}, nil
}

// CreateBookmark implements BookmarkService.CreateBookmark
func (s *bookmarkServiceImpl) CreateBookmark(
	ctx context.Context,
	userID uuid.UUID,
	params CreateBookmarkParams,
) (*domain.Bookmark, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	bookmark, err := domain.NewBookmark(userID, params.URL, params.Title)
	if err != nil {
		return nil, err
	}
	bookmark.Description = params.Description
	bookmark.FaviconURL = params.FaviconURL
	bookmark.IsFavorite = params.IsFavorite
	bookmark.IsPinned = params.IsPinned

	err = store.RunInTransaction(
		ctx,
		s.db,
		func(ctx context.Context, tx *sql.Tx) error {
			txBookmarks := s.bookmarkStore.WithTx(tx)
			txTags := s.tagStore.WithTx(tx)

			tagIDs, err := s.resolveOwnedTags(ctx, txTags, userID, params.TagIDs)
			if err != nil {
				return err
			}

			if err := txBookmarks.Create(ctx, bookmark); err != nil {
				log.Error("failed to create bookmark in transaction",
					slog.String("error", err.Error()),
					slog.String("user_id", userID.String()))
				return err
			}

			if len(tagIDs) > 0 {
				if err := txBookmarks.ReplaceTags(ctx, bookmark.ID, tagIDs); err != nil {
					log.Error("failed to attach tags in transaction",
						slog.String("error", err.Error()),
						slog.String("bookmark_id", bookmark.ID.String()))
					return err
				}
			}

			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	return s.bookmarkStore.GetByID(ctx, userID, bookmark.ID)
}

// UpdateBookmark implements BookmarkService.UpdateBookmark
func (s *bookmarkServiceImpl) UpdateBookmark(
	ctx context.Context,
	userID, bookmarkID uuid.UUID,
	params UpdateBookmarkParams,
) (*domain.Bookmark, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(
		ctx,
		s.db,
		func(ctx context.Context, tx *sql.Tx) error {
			txBookmarks := s.bookmarkStore.WithTx(tx)
			txTags := s.tagStore.WithTx(tx)

			bookmark, err := txBookmarks.GetByID(ctx, userID, bookmarkID)
			if err != nil {
				return err
			}

			if params.URL != nil {
				bookmark.URL = *params.URL
			}
			if params.Title != nil {
				bookmark.Title = *params.Title
			}
			if params.Description != nil {
				bookmark.Description = *params.Description
			}
			if params.FaviconURL != nil {
				bookmark.FaviconURL = *params.FaviconURL
			}
			if params.IsFavorite != nil {
				bookmark.IsFavorite = *params.IsFavorite
			}
			if params.IsPinned != nil {
				bookmark.IsPinned = *params.IsPinned
			}
			bookmark.Touch()

			if err := txBookmarks.Update(ctx, bookmark); err != nil {
				log.Error("failed to update bookmark in transaction",
					slog.String("error", err.Error()),
					slog.String("bookmark_id", bookmarkID.String()))
				return err
			}

			if params.ReplaceTags {
				tagIDs, err := s.resolveOwnedTags(ctx, txTags, userID, params.TagIDs)
				if err != nil {
					return err
				}
				if err := txBookmarks.ReplaceTags(ctx, bookmarkID, tagIDs); err != nil {
					log.Error("failed to replace tags in transaction",
						slog.String("error", err.Error()),
						slog.String("bookmark_id", bookmarkID.String()))
					return err
				}
			}

			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	return s.bookmarkStore.GetByID(ctx, userID, bookmarkID)
}

// AddTag implements BookmarkService.AddTag
func (s *bookmarkServiceImpl) AddTag(
	ctx context.Context,
	userID, bookmarkID uuid.UUID,
	ref TagRef,
) (*domain.Bookmark, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(
		ctx,
		s.db,
		func(ctx context.Context, tx *sql.Tx) error {
			txBookmarks := s.bookmarkStore.WithTx(tx)
			txTags := s.tagStore.WithTx(tx)

			// Ownership check first so a foreign bookmark reads as 404.
			if _, err := txBookmarks.GetByID(ctx, userID, bookmarkID); err != nil {
				return err
			}

			tag, err := s.resolveTagRef(ctx, txTags, userID, ref, true)
			if err != nil {
				return err
			}

			if err := txBookmarks.AddTag(ctx, bookmarkID, tag.ID); err != nil {
				return err
			}

			log.Info("tag added to bookmark",
				slog.String("bookmark_id", bookmarkID.String()),
				slog.String("tag_id", tag.ID.String()))
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	return s.bookmarkStore.GetByID(ctx, userID, bookmarkID)
}

// RemoveTag implements BookmarkService.RemoveTag
func (s *bookmarkServiceImpl) RemoveTag(
	ctx context.Context,
	userID, bookmarkID uuid.UUID,
	ref TagRef,
) (*domain.Bookmark, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(
		ctx,
		s.db,
		func(ctx context.Context, tx *sql.Tx) error {
			txBookmarks := s.bookmarkStore.WithTx(tx)
			txTags := s.tagStore.WithTx(tx)

			if _, err := txBookmarks.GetByID(ctx, userID, bookmarkID); err != nil {
				return err
			}

			tag, err := s.resolveTagRef(ctx, txTags, userID, ref, false)
			if err != nil {
				return err
			}

			if err := txBookmarks.RemoveTag(ctx, bookmarkID, tag.ID); err != nil {
				return err
			}

			log.Info("tag removed from bookmark",
				slog.String("bookmark_id", bookmarkID.String()),
				slog.String("tag_id", tag.ID.String()))
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	return s.bookmarkStore.GetByID(ctx, userID, bookmarkID)
}

// resolveOwnedTags verifies that every ID in tagIDs names a tag owned by
// userID. Returns store.ErrTagNotFound when any is foreign or missing.
func (s *bookmarkServiceImpl) resolveOwnedTags(
	ctx context.Context,
	tags store.TagStore,
	userID uuid.UUID,
	tagIDs []uuid.UUID,
) ([]uuid.UUID, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}

	unique := make([]uuid.UUID, 0, len(tagIDs))
	seen := make(map[uuid.UUID]struct{}, len(tagIDs))
	for _, id := range tagIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	owned, err := tags.GetByIDs(ctx, userID, unique)
	if err != nil {
		return nil, newBookmarkServiceError("resolve_tags", "failed to load tags", err)
	}
	if len(owned) != len(unique) {
		return nil, store.ErrTagNotFound
	}

	return unique, nil
}

// resolveTagRef resolves a TagRef to a concrete tag. With createMissing set
// and a name-based ref, the tag is created when absent.
func (s *bookmarkServiceImpl) resolveTagRef(
	ctx context.Context,
	tags store.TagStore,
	userID uuid.UUID,
	ref TagRef,
	createMissing bool,
) (*domain.Tag, error) {
	if ref.ID != nil {
		return tags.GetByID(ctx, userID, *ref.ID)
	}

	if ref.Name == "" {
		return nil, domain.NewValidationError("tag", "tag_id or tag_name is required", domain.ErrValidation)
	}

	tag, err := tags.GetByName(ctx, userID, ref.Name)
	if err == nil {
		return tag, nil
	}
	if !store.IsNotFoundError(err) || !createMissing {
		return nil, err
	}

	tag, err = domain.NewTag(userID, ref.Name)
	if err != nil {
		return nil, err
	}
	if err := tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}
