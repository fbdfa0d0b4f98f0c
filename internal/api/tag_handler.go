package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/planky/planky-api/internal/api/shared"
	"github.com/planky/planky-api/internal/domain"
	"github.com/planky/planky-api/internal/service"
	"github.com/planky/planky-api/internal/store"
)

// defaultPopularLimit is the tag count for /tags/popular without ?limit.
const defaultPopularLimit = 10

// TagHandler handles tag-related API requests.
type TagHandler struct {
	tagStore      store.TagStore
	bookmarkStore store.BookmarkStore
	tagService    service.TagService
	validator     *validator.Validate
}

// NewTagHandler creates a new TagHandler with the given dependencies.
func NewTagHandler(
	tagStore store.TagStore,
	bookmarkStore store.BookmarkStore,
	tagService service.TagService,
) *TagHandler {
	return &TagHandler{
		tagStore:      tagStore,
		bookmarkStore: bookmarkStore,
		tagService:    tagService,
		validator:     validator.New(),
	}
}

// List handles GET /api/tags.
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

// ListUnused handles GET /api/tags/unused.
func (h *TagHandler) ListUnused(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *TagHandler) list(w http.ResponseWriter, r *http.Request, unusedOnly bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	page := parsePageParams(r)

	orderBy, descending, err := parseOrdering(
		r,
		[]string{store.TagOrderName, store.TagOrderCreatedAt},
		store.TagOrderName,
		false,
	)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	includeCount, err := parseBoolQuery(r, "include_count")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	params := store.TagListParams{
		UserID:     userID,
		Search:     r.URL.Query().Get("search"),
		UnusedOnly: unusedOnly,
		OrderBy:    orderBy,
		Descending: descending,
		Limit:      page.Limit(),
		Offset:     page.Offset(),
	}

	tags, total, err := h.tagStore.List(r.Context(), params)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tags")
		return
	}

	withCount := includeCount != nil && *includeCount
	shared.RespondWithJSON(w, r, http.StatusOK,
		NewPaginatedResponse(r, page, total, NewTagResponsesWithCount(tags, withCount)))
}

// Popular handles GET /api/tags/popular?limit=N: the most-used tags with
// their bookmark counts.
func (h *TagHandler) Popular(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	limit := defaultPopularLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= maxPageSize {
			limit = n
		}
	}

	tags, _, err := h.tagStore.List(r.Context(), store.TagListParams{
		UserID:     userID,
		OrderBy:    store.TagOrderBookmarkCount,
		Descending: true,
		Limit:      limit,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list popular tags")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTagResponsesWithCount(tags, true))
}

// Create handles POST /api/tags.
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req CreateTagRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	tag, err := domain.NewTag(userID, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.tagStore.Create(r.Context(), tag); err != nil {
		HandleAPIError(w, r, err, "Failed to create tag")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewTagResponse(tag))
}

// Get handles GET /api/tags/{id}.
func (h *TagHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, tagID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	tag, err := h.tagStore.GetByID(r.Context(), userID, tagID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load tag")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTagResponse(tag))
}

// Update handles PUT and PATCH /api/tags/{id}: renames the tag.
func (h *TagHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, tagID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	var req UpdateTagRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	tag, err := h.tagStore.GetByID(r.Context(), userID, tagID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load tag")
		return
	}

	if err := tag.Rename(req.Name); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.tagStore.Update(r.Context(), tag); err != nil {
		HandleAPIError(w, r, err, "Failed to update tag")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTagResponse(tag))
}

// Delete handles DELETE /api/tags/{id}. When the tag still had bookmarks, a
// detail message reports how many associations went with it.
func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, tagID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	count, err := h.tagService.DeleteTag(r.Context(), userID, tagID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete tag")
		return
	}

	if count > 0 {
		shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{
			Detail: fmt.Sprintf("Tag deleted. It was removed from %d bookmark(s).", count),
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Bookmarks handles GET /api/tags/{id}/bookmarks: the bookmarks carrying
// the tag, paginated.
func (h *TagHandler) Bookmarks(w http.ResponseWriter, r *http.Request) {
	userID, tagID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	// Resolve first so an unknown tag reads as 404, not an empty page.
	tag, err := h.tagStore.GetByID(r.Context(), userID, tagID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load tag")
		return
	}

	page := parsePageParams(r)
	bookmarks, total, err := h.bookmarkStore.List(r.Context(), store.BookmarkListParams{
		UserID:     userID,
		TagID:      &tag.ID,
		OrderBy:    store.BookmarkOrderCreatedAt,
		Descending: true,
		Limit:      page.Limit(),
		Offset:     page.Offset(),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list bookmarks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK,
		NewPaginatedResponse(r, page, total, NewBookmarkResponses(bookmarks)))
}

// Details handles GET /api/tags/{id}/details: tag fields plus usage
// statistics and the most recent bookmarks carrying it.
func (h *TagHandler) Details(w http.ResponseWriter, r *http.Request) {
	userID, tagID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	tag, err := h.tagStore.GetByID(r.Context(), userID, tagID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load tag")
		return
	}

	recent, total, err := h.bookmarkStore.List(r.Context(), store.BookmarkListParams{
		UserID:     userID,
		TagID:      &tag.ID,
		OrderBy:    store.BookmarkOrderCreatedAt,
		Descending: true,
		Limit:      10,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load tag details")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TagDetailsResponse{
		TagResponse:     NewTagResponse(tag),
		TotalBookmarks:  total,
		RecentBookmarks: NewBookmarkResponses(recent),
	})
}

// BulkDelete handles POST /api/tags/bulk-delete.
func (h *TagHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req BulkDeleteTagsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.tagService.BulkDeleteTags(r.Context(), userID, req.TagIDs)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete tags")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BulkDeleteTagsResponse{
		Detail:              fmt.Sprintf("Deleted %d tag(s).", result.DeletedTags),
		DeletedTags:         result.DeletedTags,
		RemovedAssociations: result.RemovedAssociations,
	})
}

// Merge handles POST /api/tags/merge.
func (h *TagHandler) Merge(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req MergeTagsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.tagService.MergeTags(r.Context(), userID, req.SourceTagIDs, req.TargetTagID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to merge tags")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MergeTagsResponse{
		Detail:            fmt.Sprintf("Merged %d tag(s).", result.DeletedTags),
		DeletedTags:       result.DeletedTags,
		MovedAssociations: result.MovedAssociations,
	})
}
