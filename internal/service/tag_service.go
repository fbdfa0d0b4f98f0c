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

// BulkDeleteResult reports what a bulk tag deletion removed.
type BulkDeleteResult struct {
	DeletedTags         int
	RemovedAssociations int64
}

// MergeResult reports what a tag merge did.
type MergeResult struct {
	MovedAssociations int64
	DeletedTags       int
}

// TagService provides tag operations that touch multiple rows or stores and
// therefore run inside transactions.
type TagService interface {
	// DeleteTag removes a tag and its bookmark associations atomically,
	// returning how many bookmarks carried it.
	DeleteTag(ctx context.Context, userID, tagID uuid.UUID) (int64, error)

	// BulkDeleteTags removes several tags at once. Every ID must name a tag
	// owned by userID or the whole operation fails with
	// store.ErrTagNotFound.
	BulkDeleteTags(ctx context.Context, userID uuid.UUID, tagIDs []uuid.UUID) (*BulkDeleteResult, error)

	// MergeTags moves all bookmark associations from the source tags onto
	// the target and deletes the sources. The target must not be among the
	// sources.
	MergeTags(ctx context.Context, userID uuid.UUID, sourceTagIDs []uuid.UUID, targetTagID uuid.UUID) (*MergeResult, error)
}

// tagServiceImpl implements the TagService interface
type tagServiceImpl struct {
	db       *sql.DB
	tagStore store.TagStore
	logger   *slog.Logger
}

// NewTagService creates a new TagService.
// It returns an error if any of the required dependencies are nil.
func NewTagService(
	db *sql.DB,
	tagStore store.TagStore,
	logger *slog.Logger,
) (TagService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if tagStore == nil {
		return nil, domain.NewValidationError("tagStore", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &tagServiceImpl{
		db:       db,
		tagStore: tagStore,
		logger:   logger.With(slog.String("component", "tag_service")),
	}, nil
}

// DeleteTag implements TagService.DeleteTag
func (s *tagServiceImpl) DeleteTag(ctx context.Context, userID, tagID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var count int64
	err := store.RunInTransaction(
		ctx,
		s.db,
		func(ctx context.Context, tx *sql.Tx) error {
			txTags := s.tagStore.WithTx(tx)

			// Resolve first so a foreign tag reads as 404 before any count.
			tag, err := txTags.GetByID(ctx, userID, tagID)
			if err != nil {
				return err
			}

			count, err = txTags.CountBookmarks(ctx, tag.ID)
			if err != nil {
				return newTagServiceError("delete_tag", "failed to count bookmarks", err)
			}

			// Associations go with the tag via cascade.
			return txTags.Delete(ctx, userID, tag.ID)
		},
	)
	if err != nil {
		return 0, err
	}

	log.Info("tag deleted",
		slog.String("tag_id", tagID.String()),
		slog.Int64("bookmark_count", count))
	return count, nil
}

// BulkDeleteTags implements TagService.BulkDeleteTags
func (s *tagServiceImpl) BulkDeleteTags(
	ctx context.Context,
	userID uuid.UUID,
	tagIDs []uuid.UUID,
) (*BulkDeleteResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result := &BulkDeleteResult{}
	err := store.RunInTransaction(
		ctx,
		s.db,
		func(ctx context.Context, tx *sql.Tx) error {
			txTags := s.tagStore.WithTx(tx)

			tags, err := txTags.GetByIDs(ctx, userID, tagIDs)
			if err != nil {
				return newTagServiceError("bulk_delete", "failed to load tags", err)
			}
			if len(tags) != len(tagIDs) {
				return store.ErrTagNotFound
			}

			for _, tag := range tags {
				count, err := txTags.CountBookmarks(ctx, tag.ID)
				if err != nil {
					return newTagServiceError("bulk_delete", "failed to count bookmarks", err)
				}
				if err := txTags.Delete(ctx, userID, tag.ID); err != nil {
					return err
				}
				result.DeletedTags++
				result.RemovedAssociations += count
			}

			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	log.Info("tags bulk deleted",
		slog.String("user_id", userID.String()),
		slog.Int("deleted_tags", result.DeletedTags),
		slog.Int64("removed_associations", result.RemovedAssociations))
	return result, nil
}

// MergeTags implements TagService.MergeTags
func (s *tagServiceImpl) MergeTags(
	ctx context.Context,
	userID uuid.UUID,
	sourceTagIDs []uuid.UUID,
	targetTagID uuid.UUID,
) (*MergeResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, id := range sourceTagIDs {
		if id == targetTagID {
			return nil, domain.NewValidationError(
				"target_tag_id", "cannot be one of the source tags", domain.ErrValidation)
		}
	}

	result := &MergeResult{}
	err := store.RunInTransaction(
		ctx,
		s.db,
		func(ctx context.Context, tx *sql.Tx) error {
			txTags := s.tagStore.WithTx(tx)

			target, err := txTags.GetByID(ctx, userID, targetTagID)
			if err != nil {
				return err
			}

			sources, err := txTags.GetByIDs(ctx, userID, sourceTagIDs)
			if err != nil {
				return newTagServiceError("merge", "failed to load source tags", err)
			}
			if len(sources) != len(sourceTagIDs) {
				return store.ErrTagNotFound
			}

			for _, source := range sources {
				moved, err := txTags.ReassignBookmarks(ctx, source.ID, target.ID)
				if err != nil {
					return newTagServiceError("merge", "failed to reassign bookmarks", err)
				}
				if err := txTags.Delete(ctx, userID, source.ID); err != nil {
					return err
				}
				result.MovedAssociations += moved
				result.DeletedTags++
			}

			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	log.Info("tags merged",
		slog.String("target_tag_id", targetTagID.String()),
		slog.Int("deleted_tags", result.DeletedTags),
		slog.Int64("moved_associations", result.MovedAssociations))
	return result, nil
}
