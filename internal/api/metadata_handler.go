package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/planky/planky-api/internal/api/shared"
	"github.com/planky/planky-api/internal/domain"
	"github.com/planky/planky-api/internal/fetch"
)

// MetadataHandler handles server-side URL metadata fetching.
type MetadataHandler struct {
	fetcher   *fetch.Fetcher
	validator *validator.Validate
}

// NewMetadataHandler creates a new MetadataHandler with the given dependencies.
func NewMetadataHandler(fetcher *fetch.Fetcher) *MetadataHandler {
	return &MetadataHandler{
		fetcher:   fetcher,
		validator: validator.New(),
	}
}

// Fetch handles POST /api/bookmarks/metadata. Fetch failures still return
// 200 with null title/description and an error field; only an invalid URL
// is a client error.
func (h *MetadataHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserIDFromContext(r); !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req FetchMetadataRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	meta, err := h.fetcher.FetchMetadata(r.Context(), req.URL)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewMetadataResponse(meta))
}
