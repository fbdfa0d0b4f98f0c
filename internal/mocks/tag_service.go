package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/planky/planky-api/internal/service"
)

// MockTagService implements service.TagService for testing
type MockTagService struct {
	DeleteTagFn      func(ctx context.Context, userID, tagID uuid.UUID) (int64, error)
	BulkDeleteTagsFn func(ctx context.Context, userID uuid.UUID, tagIDs []uuid.UUID) (*service.BulkDeleteResult, error)
	MergeTagsFn      func(ctx context.Context, userID uuid.UUID, sourceTagIDs []uuid.UUID, targetTagID uuid.UUID) (*service.MergeResult, error)

	// Default values used when functions aren't explicitly defined
	DeleteCount      int64
	BulkDeleteResult *service.BulkDeleteResult
	MergeResult      *service.MergeResult
	Err              error
}

var _ service.TagService = (*MockTagService)(nil)

// DeleteTag implements the service.TagService interface
func (m *MockTagService) DeleteTag(ctx context.Context, userID, tagID uuid.UUID) (int64, error) {
	if m.DeleteTagFn != nil {
		return m.DeleteTagFn(ctx, userID, tagID)
	}
	return m.DeleteCount, m.Err
}

// BulkDeleteTags implements the service.TagService interface
func (m *MockTagService) BulkDeleteTags(
	ctx context.Context,
	userID uuid.UUID,
	tagIDs []uuid.UUID,
) (*service.BulkDeleteResult, error) {
	if m.BulkDeleteTagsFn != nil {
		return m.BulkDeleteTagsFn(ctx, userID, tagIDs)
	}
	return m.BulkDeleteResult, m.Err
}

// MergeTags implements the service.TagService interface
func (m *MockTagService) MergeTags(
	ctx context.Context,
	userID uuid.UUID,
	sourceTagIDs []uuid.UUID,
	targetTagID uuid.UUID,
) (*service.MergeResult, error) {
	if m.MergeTagsFn != nil {
		return m.MergeTagsFn(ctx, userID, sourceTagIDs, targetTagID)
	}
	return m.MergeResult, m.Err
}
