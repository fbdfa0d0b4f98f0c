package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/planky/planky-api/internal/api/shared"
	"github.com/planky/planky-api/internal/domain"
	"github.com/planky/planky-api/internal/service"
	"github.com/planky/planky-api/internal/store"
)

// BookmarkHandler handles bookmark-related API requests.
type BookmarkHandler struct {
	bookmarkStore   store.BookmarkStore
	bookmarkService service.BookmarkService
	validator       *validator.Validate
}

// NewBookmarkHandler creates a new BookmarkHandler with the given dependencies.
func NewBookmarkHandler(
	bookmarkStore store.BookmarkStore,
	bookmarkService service.BookmarkService,
) *BookmarkHandler {
	return &BookmarkHandler{
		bookmarkStore:   bookmarkStore,
		bookmarkService: bookmarkService,
		validator:       validator.New(),
	}
}

// List handles GET /api/bookmarks.
func (h *BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, nil)
}

// ListFavorites handles GET /api/bookmarks/favorites.
func (h *BookmarkHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	favorite := true
	h.list(w, r, func(params *store.BookmarkListParams) {
		params.IsFavorite = &favorite
	})
}

// ListPinned handles GET /api/bookmarks/pinned.
func (h *BookmarkHandler) ListPinned(w http.ResponseWriter, r *http.Request) {
	pinned := true
	h.list(w, r, func(params *store.BookmarkListParams) {
		params.IsPinned = &pinned
	})
}

// list is the shared implementation behind the three list endpoints.
// adjust, when non-nil, pins filters after query parsing.
func (h *BookmarkHandler) list(
	w http.ResponseWriter,
	r *http.Request,
	adjust func(*store.BookmarkListParams),
) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	params, page, err := parseBookmarkListParams(r, userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if adjust != nil {
		adjust(&params)
	}

	bookmarks, total, err := h.bookmarkStore.List(r.Context(), params)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list bookmarks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK,
		NewPaginatedResponse(r, page, total, NewBookmarkResponses(bookmarks)))
}

// Create handles POST /api/bookmarks.
func (h *BookmarkHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req CreateBookmarkRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	bookmark, err := h.bookmarkService.CreateBookmark(r.Context(), userID, service.CreateBookmarkParams{
		URL:         req.URL,
		Title:       req.Title,
		Description: req.Description,
		FaviconURL:  req.FaviconURL,
		IsFavorite:  req.IsFavorite,
		IsPinned:    req.IsPinned,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create bookmark")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewBookmarkResponse(bookmark))
}

// Get handles GET /api/bookmarks/{id}.
func (h *BookmarkHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, bookmarkID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	bookmark, err := h.bookmarkStore.GetByID(r.Context(), userID, bookmarkID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load bookmark")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewBookmarkResponse(bookmark))
}

// Update handles PUT and PATCH /api/bookmarks/{id}. Both apply partial
// update semantics; absent fields are left unchanged.
func (h *BookmarkHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, bookmarkID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	var req UpdateBookmarkRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	params := service.UpdateBookmarkParams{
		URL:         req.URL,
		Title:       req.Title,
		Description: req.Description,
		FaviconURL:  req.FaviconURL,
		IsFavorite:  req.IsFavorite,
		IsPinned:    req.IsPinned,
	}
	if req.TagIDs != nil {
		params.TagIDs = *req.TagIDs
		params.ReplaceTags = true
	}

	bookmark, err := h.bookmarkService.UpdateBookmark(r.Context(), userID, bookmarkID, params)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update bookmark")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewBookmarkResponse(bookmark))
}

// Delete handles DELETE /api/bookmarks/{id}.
func (h *BookmarkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, bookmarkID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	if err := h.bookmarkStore.Delete(r.Context(), userID, bookmarkID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete bookmark")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddTag handles POST /api/bookmarks/{id}/tags. The tag comes by ID or by
// name; a named tag is created on the fly when missing.
func (h *BookmarkHandler) AddTag(w http.ResponseWriter, r *http.Request) {
	userID, bookmarkID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	ref, ok := h.decodeTagRef(w, r)
	if !ok {
		return
	}

	bookmark, err := h.bookmarkService.AddTag(r.Context(), userID, bookmarkID, ref)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add tag")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewBookmarkResponse(bookmark))
}

// RemoveTag handles DELETE /api/bookmarks/{id}/tags.
func (h *BookmarkHandler) RemoveTag(w http.ResponseWriter, r *http.Request) {
	userID, bookmarkID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	ref, ok := h.decodeTagRef(w, r)
	if !ok {
		return
	}

	bookmark, err := h.bookmarkService.RemoveTag(r.Context(), userID, bookmarkID, ref)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to remove tag")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewBookmarkResponse(bookmark))
}

// decodeTagRef parses the add/remove tag payload, requiring tag_id or
// tag_name.
func (h *BookmarkHandler) decodeTagRef(w http.ResponseWriter, r *http.Request) (service.TagRef, bool) {
	var req BookmarkTagRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return service.TagRef{}, false
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return service.TagRef{}, false
	}

	if req.TagID == nil && req.TagName == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "tag_id or tag_name is required")
		return service.TagRef{}, false
	}

	return service.TagRef{ID: req.TagID, Name: req.TagName}, true
}
