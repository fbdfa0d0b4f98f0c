package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/planky/planky-api/internal/domain"
	"github.com/planky/planky-api/internal/mocks"
	"github.com/planky/planky-api/internal/service"
	"github.com/planky/planky-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTagRouter mounts the handler on the routes the server registers.
func newTagRouter(h *TagHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/tags", h.List)
	r.Post("/api/tags", h.Create)
	r.Get("/api/tags/popular", h.Popular)
	r.Get("/api/tags/unused", h.ListUnused)
	r.Post("/api/tags/bulk-delete", h.BulkDelete)
	r.Post("/api/tags/merge", h.Merge)
	r.Get("/api/tags/{id}", h.Get)
	r.Patch("/api/tags/{id}", h.Update)
	r.Delete("/api/tags/{id}", h.Delete)
	r.Get("/api/tags/{id}/bookmarks", h.Bookmarks)
	r.Get("/api/tags/{id}/details", h.Details)
	return r
}

// seedTag stores a tag with a bookmark count in the mock store.
func seedTag(t *testing.T, tagStore *mocks.MockTagStore, userID uuid.UUID, name string, count int64) *domain.Tag {
	t.Helper()
	tag, err := domain.NewTag(userID, name)
	require.NoError(t, err)
	require.NoError(t, tagStore.Create(context.Background(), tag))
	tagStore.Counts[tag.ID] = count
	return tag
}

func TestTagList(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("lists the user's tags", func(t *testing.T) {
		t.Parallel()
		tagStore := mocks.NewMockTagStore()
		seedTag(t, tagStore, userID, "golang", 3)
		seedTag(t, tagStore, userID, "reading", 0)
		seedTag(t, tagStore, uuid.New(), "foreign", 1)

		handler := NewTagHandler(tagStore, mocks.NewMockBookmarkStore(), &mocks.MockTagService{})
		router := newTagRouter(handler)

		req := newAuthedRequest("GET", "/api/tags", nil, userID)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp struct {
			Count   int64         `json:"count"`
			Results []TagResponse `json:"results"`
		}
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, int64(2), resp.Count)
		for _, tag := range resp.Results {
			assert.Nil(t, tag.BookmarkCount, "counts are omitted unless requested")
		}
	})

	t.Run("include_count exposes bookmark counts", func(t *testing.T) {
		t.Parallel()
		tagStore := mocks.NewMockTagStore()
		seedTag(t, tagStore, userID, "golang", 3)

		handler := NewTagHandler(tagStore, mocks.NewMockBookmarkStore(), &mocks.MockTagService{})
		router := newTagRouter(handler)

		req := newAuthedRequest("GET", "/api/tags?include_count=true", nil, userID)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp struct {
			Results []TagResponse `json:"results"`
		}
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		require.Len(t, resp.Results, 1)
		require.NotNil(t, resp.Results[0].BookmarkCount)
		assert.Equal(t, int64(3), *resp.Results[0].BookmarkCount)
	})

	t.Run("unused endpoint filters to zero-count tags", func(t *testing.T) {
		t.Parallel()
		tagStore := mocks.NewMockTagStore()
		seedTag(t, tagStore, userID, "used", 5)
		unused := seedTag(t, tagStore, userID, "unused", 0)

		handler := NewTagHandler(tagStore, mocks.NewMockBookmarkStore(), &mocks.MockTagService{})
		router := newTagRouter(handler)

		req := newAuthedRequest("GET", "/api/tags/unused", nil, userID)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp struct {
			Results []TagResponse `json:"results"`
		}
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		require.Len(t, resp.Results, 1)
		assert.Equal(t, unused.ID, resp.Results[0].ID)
	})

	t.Run("requires authentication", func(t *testing.T) {
		t.Parallel()
		handler := NewTagHandler(mocks.NewMockTagStore(), mocks.NewMockBookmarkStore(), &mocks.MockTagService{})
		router := newTagRouter(handler)

		req := httptest.NewRequest("GET", "/api/tags", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestTagPopular(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("orders by bookmark count and returns a bare array", func(t *testing.T) {
		t.Parallel()
		tagStore := mocks.NewMockTagStore()
		var gotParams store.TagListParams
		tagStore.ListFn = func(ctx context.Context, params store.TagListParams) ([]*store.TagWithCount, int64, error) {
			gotParams = params
			tag, _ := domain.NewTag(userID, "golang")
			return []*store.TagWithCount{{Tag: *tag, BookmarkCount: 7}}, 1, nil
		}

		handler := NewTagHandler(tagStore, mocks.NewMockBookmarkStore(), &mocks.MockTagService{})
		router := newTagRouter(handler)

		req := newAuthedRequest("GET", "/api/tags/popular?limit=5", nil, userID)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, store.TagOrderBookmarkCount, gotParams.OrderBy)
		assert.True(t, gotParams.Descending)
		assert.Equal(t, 5, gotParams.Limit)

		var resp []TagResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		require.Len(t, resp, 1)
		require.NotNil(t, resp[0].BookmarkCount)
		assert.Equal(t, int64(7), *resp[0].BookmarkCount)
	})
}

func TestTagCreate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("creates a tag with a normalized name", func(t *testing.T) {
		t.Parallel()
		tagStore := mocks.NewMockTagStore()
		handler := NewTagHandler(tagStore, mocks.NewMockBookmarkStore(), &mocks.MockTagService{})
		router := newTagRouter(handler)

		req := newAuthedRequest("POST", "/api/tags", []byte(`{"name": "  GoLang  "}`), userID)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		require.Equal(t, http.StatusCreated, recorder.Code)

		var resp TagResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "golang", resp.Name)
	})

	t.Run("duplicate name is a conflict", func(t *testing.T) {
		t.Parallel()
		tagStore := mocks.NewMockTagStore()
		seedTag(t, tagStore, userID, "golang", 0)

		handler := NewTagHandler(tagStore, mocks.NewMockBookmarkStore(), &mocks.MockTagService{})
		router := newTagRouter(handler)

		req := newAuthedRequest("POST", "/api/tags", []byte(`{"name": "GOLANG"}`), userID)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusConflict, recorder.Code)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		t.Parallel()
		handler := NewTagHandler(mocks.NewMockTagStore(), mocks.NewMockBookmarkStore(), &mocks.MockTagService{})
		router := newTagRouter(handler)

		req := newAuthedRequest("POST", "/api/tags", []byte(`{"name": ""}`), userID)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("whitespace-only name is a bad request", func(t *testing.T) {
		t.Parallel()
		handler := NewTagHandler(mocks.NewMockTagStore(), mocks.NewMockBookmarkStore(), &mocks.MockTagService{})
		router := newTagRouter(handler)

		// Passes the required validator tag but normalizes to an empty name.
		req := newAuthedRequest("POST", "/api/tags", []byte(`{"name": "   "}`), userID)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestTagUpdate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("renames a tag", func(t *testing.T) {
		t.Parallel()
		tagStore := mocks.NewMockTagStore()
		tag := seedTag(t, tagStore, userID, "golang", 0)

		handler := NewTagHandler(tagStore, mocks.NewMockBookmarkStore(), &mocks.MockTagService{})
		router := newTagRouter(handler)

		req := newAuthedRequest("PATCH", "/api/tags/"+tag.ID.String(), []byte(`{"name": "Go"}`), userID)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp TagResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "go", resp.Name)
	})

	t.Run("foreign tag reads as not found", func(t *testing.T) {
		t.Parallel()
		tagStore := mocks.NewMockTagStore()
		foreign := seedTag(t, tagStore, uuid.New(), "theirs", 0)

		handler := NewTagHandler(tagStore, mocks.NewMockBookmarkStore(), &mocks.MockTagService{})
		router := newTagRouter(handler)

		req := newAuthedRequest("PATCH", "/api/tags/"+foreign.ID.String(), []byte(`{"name": "mine"}`), userID)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestTagDelete(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("returns no content for an unused tag", func(t *testing.T) {
		t.Parallel()
		tagService := &mocks.MockTagService{DeleteCount: 0}
		handler := NewTagHandler(mocks.NewMockTagStore(), mocks.NewMockBookmarkStore(), tagService)
		router := newTagRouter(handler)

		req := newAuthedRequest("DELETE", "/api/tags/"+uuid.NewString(), nil, userID)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusNoContent, recorder.Code)
	})

	t.Run("reports removed associations", func(t *testing.T) {
		t.Parallel()
		tagService := &mocks.MockTagService{DeleteCount: 4}
		handler := NewTagHandler(mocks.NewMockTagStore(), mocks.NewMockBookmarkStore(), tagService)
		router := newTagRouter(handler)

		req := newAuthedRequest("DELETE", "/api/tags/"+uuid.NewString(), nil, userID)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp MessageResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "Tag deleted. It was removed from 4 bookmark(s).", resp.Detail)
	})

	t.Run("missing tag reads as not found", func(t *testing.T) {
		t.Parallel()
		tagService := &mocks.MockTagService{Err: store.ErrTagNotFound}
		handler := NewTagHandler(mocks.NewMockTagStore(), mocks.NewMockBookmarkStore(), tagService)
		router := newTagRouter(handler)

		req := newAuthedRequest("DELETE", "/api/tags/"+uuid.NewString(), nil, userID)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestTagBookmarks(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("lists bookmarks carrying the tag", func(t *testing.T) {
		t.Parallel()
		tagStore := mocks.NewMockTagStore()
		tag := seedTag(t, tagStore, userID, "golang", 1)

		bookmarkStore := mocks.NewMockBookmarkStore()
		var gotParams store.BookmarkListParams
		bookmarkStore.ListFn = func(ctx context.Context, params store.BookmarkListParams) ([]*domain.Bookmark, int64, error) {
			gotParams = params
			return []*domain.Bookmark{testBookmark(userID, "Tagged")}, 1, nil
		}

		handler := NewTagHandler(tagStore, bookmarkStore, &mocks.MockTagService{})
		router := newTagRouter(handler)

		req := newAuthedRequest("GET", "/api/tags/"+tag.ID.String()+"/bookmarks", nil, userID)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)
		require.NotNil(t, gotParams.TagID)
		assert.Equal(t, tag.ID, *gotParams.TagID)

		var resp struct {
			Count   int64              `json:"count"`
			Results []BookmarkResponse `json:"results"`
		}
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, int64(1), resp.Count)
	})

	t.Run("unknown tag reads as not found, not an empty page", func(t *testing.T) {
		t.Parallel()
		handler := NewTagHandler(mocks.NewMockTagStore(), mocks.NewMockBookmarkStore(), &mocks.MockTagService{})
		router := newTagRouter(handler)

		req := newAuthedRequest("GET", "/api/tags/"+uuid.NewString()+"/bookmarks", nil, userID)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestTagDetails(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("returns tag with usage statistics", func(t *testing.T) {
		t.Parallel()
		tagStore := mocks.NewMockTagStore()
		tag := seedTag(t, tagStore, userID, "golang", 12)

		bookmarkStore := mocks.NewMockBookmarkStore()
		bookmarkStore.ListFn = func(ctx context.Context, params store.BookmarkListParams) ([]*domain.Bookmark, int64, error) {
			assert.Equal(t, 10, params.Limit)
			return []*domain.Bookmark{testBookmark(userID, "Recent")}, 12, nil
		}

		handler := NewTagHandler(tagStore, bookmarkStore, &mocks.MockTagService{})
		router := newTagRouter(handler)

		req := newAuthedRequest("GET", "/api/tags/"+tag.ID.String()+"/details", nil, userID)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp TagDetailsResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, tag.ID, resp.ID)
		assert.Equal(t, int64(12), resp.TotalBookmarks)
		assert.Len(t, resp.RecentBookmarks, 1)
	})
}

func TestTagBulkDelete(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("deletes several tags", func(t *testing.T) {
		t.Parallel()
		tagService := &mocks.MockTagService{
			BulkDeleteResult: &service.BulkDeleteResult{DeletedTags: 2, RemovedAssociations: 5},
		}
		handler := NewTagHandler(mocks.NewMockTagStore(), mocks.NewMockBookmarkStore(), tagService)
		router := newTagRouter(handler)

		payload := []byte(`{"tag_ids": ["` + uuid.NewString() + `", "` + uuid.NewString() + `"]}`)
		req := newAuthedRequest("POST", "/api/tags/bulk-delete", payload, userID)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp BulkDeleteTagsResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, 2, resp.DeletedTags)
		assert.Equal(t, int64(5), resp.RemovedAssociations)
		assert.Equal(t, "Deleted 2 tag(s).", resp.Detail)
	})

	t.Run("rejects an empty ID list", func(t *testing.T) {
		t.Parallel()
		handler := NewTagHandler(mocks.NewMockTagStore(), mocks.NewMockBookmarkStore(), &mocks.MockTagService{})
		router := newTagRouter(handler)

		req := newAuthedRequest("POST", "/api/tags/bulk-delete", []byte(`{"tag_ids": []}`), userID)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("any unknown tag fails the whole operation", func(t *testing.T) {
		t.Parallel()
		tagService := &mocks.MockTagService{Err: store.ErrTagNotFound}
		handler := NewTagHandler(mocks.NewMockTagStore(), mocks.NewMockBookmarkStore(), tagService)
		router := newTagRouter(handler)

		payload := []byte(`{"tag_ids": ["` + uuid.NewString() + `"]}`)
		req := newAuthedRequest("POST", "/api/tags/bulk-delete", payload, userID)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestTagMerge(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("merges tags into the target", func(t *testing.T) {
		t.Parallel()
		sourceID := uuid.New()
		targetID := uuid.New()
		tagService := &mocks.MockTagService{
			MergeTagsFn: func(ctx context.Context, _ uuid.UUID, sourceTagIDs []uuid.UUID, targetTagID uuid.UUID) (*service.MergeResult, error) {
				assert.Equal(t, []uuid.UUID{sourceID}, sourceTagIDs)
				assert.Equal(t, targetID, targetTagID)
				return &service.MergeResult{MovedAssociations: 3, DeletedTags: 1}, nil
			},
		}
		handler := NewTagHandler(mocks.NewMockTagStore(), mocks.NewMockBookmarkStore(), tagService)
		router := newTagRouter(handler)

		payload := []byte(`{"source_tag_ids": ["` + sourceID.String() + `"], "target_tag_id": "` + targetID.String() + `"}`)
		req := newAuthedRequest("POST", "/api/tags/merge", payload, userID)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp MergeTagsResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, 1, resp.DeletedTags)
		assert.Equal(t, int64(3), resp.MovedAssociations)
	})

	t.Run("target among sources is a bad request", func(t *testing.T) {
		t.Parallel()
		tagService := &mocks.MockTagService{
			Err: domain.NewValidationError("target_tag_id", "cannot be one of the source tags", domain.ErrValidation),
		}
		handler := NewTagHandler(mocks.NewMockTagStore(), mocks.NewMockBookmarkStore(), tagService)
		router := newTagRouter(handler)

		id := uuid.NewString()
		payload := []byte(`{"source_tag_ids": ["` + id + `"], "target_tag_id": "` + id + `"}`)
		req := newAuthedRequest("POST", "/api/tags/merge", payload, userID)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
