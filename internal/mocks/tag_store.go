package mocks

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/planky/planky-api/internal/domain"
	"github.com/planky/planky-api/internal/store"
)

// MockTagStore implements store.TagStore for testing
type MockTagStore struct {
	CreateFn            func(ctx context.Context, tag *domain.Tag) error
	GetByIDFn           func(ctx context.Context, userID, id uuid.UUID) (*domain.Tag, error)
	GetByNameFn         func(ctx context.Context, userID uuid.UUID, name string) (*domain.Tag, error)
	GetByIDsFn          func(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*domain.Tag, error)
	ListFn              func(ctx context.Context, params store.TagListParams) ([]*store.TagWithCount, int64, error)
	UpdateFn            func(ctx context.Context, tag *domain.Tag) error
	DeleteFn            func(ctx context.Context, userID, id uuid.UUID) error
	CountBookmarksFn    func(ctx context.Context, tagID uuid.UUID) (int64, error)
	ReassignBookmarksFn func(ctx context.Context, sourceTagID, targetTagID uuid.UUID) (int64, error)

	// Data for default implementation
	Tags map[uuid.UUID]*domain.Tag
	// Counts maps tag ID to bookmark count for the default CountBookmarks.
	Counts map[uuid.UUID]int64
}

// NewMockTagStore creates a new mock store with initialized defaults
func NewMockTagStore() *MockTagStore {
	return &MockTagStore{
		Tags:   make(map[uuid.UUID]*domain.Tag),
		Counts: make(map[uuid.UUID]int64),
	}
}

var _ store.TagStore = (*MockTagStore)(nil)

// Create implements the TagStore interface
func (m *MockTagStore) Create(ctx context.Context, tag *domain.Tag) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, tag)
	}

	if err := tag.Validate(); err != nil {
		return err
	}
	for _, existing := range m.Tags {
		if existing.UserID == tag.UserID && existing.Name == tag.Name {
			return store.ErrTagNameExists
		}
	}
	m.Tags[tag.ID] = tag
	return nil
}

// GetByID implements the TagStore interface
func (m *MockTagStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Tag, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, id)
	}

	tag, ok := m.Tags[id]
	if !ok || tag.UserID != userID {
		return nil, store.ErrTagNotFound
	}
	return tag, nil
}

// GetByName implements the TagStore interface
func (m *MockTagStore) GetByName(
	ctx context.Context,
	userID uuid.UUID,
	name string,
) (*domain.Tag, error) {
	if m.GetByNameFn != nil {
		return m.GetByNameFn(ctx, userID, name)
	}

	normalized := domain.NormalizeTagName(name)
	for _, tag := range m.Tags {
		if tag.UserID == userID && tag.Name == normalized {
			return tag, nil
		}
	}
	return nil, store.ErrTagNotFound
}

// GetByIDs implements the TagStore interface
func (m *MockTagStore) GetByIDs(
	ctx context.Context,
	userID uuid.UUID,
	ids []uuid.UUID,
) ([]*domain.Tag, error) {
	if m.GetByIDsFn != nil {
		return m.GetByIDsFn(ctx, userID, ids)
	}

	results := []*domain.Tag{}
	for _, id := range ids {
		if tag, ok := m.Tags[id]; ok && tag.UserID == userID {
			results = append(results, tag)
		}
	}
	return results, nil
}

// List implements the TagStore interface
func (m *MockTagStore) List(
	ctx context.Context,
	params store.TagListParams,
) ([]*store.TagWithCount, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, params)
	}

	results := []*store.TagWithCount{}
	for _, tag := range m.Tags {
		if tag.UserID != params.UserID {
			continue
		}
		if params.Search != "" && !strings.Contains(tag.Name, strings.ToLower(params.Search)) {
			continue
		}
		count := m.Counts[tag.ID]
		if params.UnusedOnly && count > 0 {
			continue
		}
		results = append(results, &store.TagWithCount{Tag: *tag, BookmarkCount: count})
	}
	return results, int64(len(results)), nil
}

// Update implements the TagStore interface
func (m *MockTagStore) Update(ctx context.Context, tag *domain.Tag) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, tag)
	}

	existing, ok := m.Tags[tag.ID]
	if !ok || existing.UserID != tag.UserID {
		return store.ErrTagNotFound
	}
	for _, other := range m.Tags {
		if other.ID != tag.ID && other.UserID == tag.UserID && other.Name == tag.Name {
			return store.ErrTagNameExists
		}
	}
	m.Tags[tag.ID] = tag
	return nil
}

// Delete implements the TagStore interface
func (m *MockTagStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}

	tag, ok := m.Tags[id]
	if !ok || tag.UserID != userID {
		return store.ErrTagNotFound
	}
	delete(m.Tags, id)
	delete(m.Counts, id)
	return nil
}

// CountBookmarks implements the TagStore interface
func (m *MockTagStore) CountBookmarks(ctx context.Context, tagID uuid.UUID) (int64, error) {
	if m.CountBookmarksFn != nil {
		return m.CountBookmarksFn(ctx, tagID)
	}
	return m.Counts[tagID], nil
}

// ReassignBookmarks implements the TagStore interface
func (m *MockTagStore) ReassignBookmarks(
	ctx context.Context,
	sourceTagID, targetTagID uuid.UUID,
) (int64, error) {
	if m.ReassignBookmarksFn != nil {
		return m.ReassignBookmarksFn(ctx, sourceTagID, targetTagID)
	}

	moved := m.Counts[sourceTagID]
	m.Counts[targetTagID] += moved
	m.Counts[sourceTagID] = 0
	return moved, nil
}

// WithTx implements the TagStore interface; the mock ignores transactions.
func (m *MockTagStore) WithTx(tx *sql.Tx) store.TagStore {
	return m
}
