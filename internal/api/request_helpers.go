package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/planky/planky-api/internal/api/shared"
	"github.com/planky/planky-api/internal/domain"
	"github.com/planky/planky-api/internal/platform/logger"
	"github.com/planky/planky-api/internal/store"
)

// getUserIDFromContext extracts the authenticated user's UUID from the
// request context. The user ID is placed there by the auth middleware.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// getPathUUID extracts a UUID from the URL path parameters, validating the
// format.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// handleUserIDAndPathUUID extracts both the user ID from context and a UUID
// from the path parameters, writing an error response if either fails.
func handleUserIDAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (uuid.UUID, uuid.UUID, bool) {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return uuid.Nil, uuid.Nil, false
	}

	pathID, err := getPathUUID(r, paramName)
	if err != nil {
		log.Warn("invalid "+paramName,
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, pathID, true
}

// parseBoolQuery parses an optional true/false query parameter.
func parseBoolQuery(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	switch strings.ToLower(raw) {
	case "true", "1":
		v := true
		return &v, nil
	case "false", "0":
		v := false
		return &v, nil
	default:
		return nil, domain.NewValidationError(name, "must be true or false", domain.ErrValidation)
	}
}

// parseTimeQuery parses an optional RFC 3339 timestamp query parameter.
// A bare date (2024-01-31) is accepted too.
func parseTimeQuery(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	return nil, domain.NewValidationError(name, "must be an RFC 3339 timestamp", domain.ErrValidation)
}

// parseOrdering parses the ordering query parameter: a field name with an
// optional leading "-" for descending. Unknown fields are rejected.
func parseOrdering(r *http.Request, allowed []string, defaultField string, defaultDesc bool) (string, bool, error) {
	raw := r.URL.Query().Get("ordering")
	if raw == "" {
		return defaultField, defaultDesc, nil
	}

	descending := false
	field := raw
	if strings.HasPrefix(raw, "-") {
		descending = true
		field = raw[1:]
	}

	for _, candidate := range allowed {
		if field == candidate {
			return field, descending, nil
		}
	}
	return "", false, domain.NewValidationError("ordering", "unsupported field", domain.ErrValidation)
}

// parseBookmarkListParams assembles store.BookmarkListParams from the query
// string. The returned pageParams drive the response envelope.
func parseBookmarkListParams(
	r *http.Request,
	userID uuid.UUID,
) (store.BookmarkListParams, pageParams, error) {
	page := parsePageParams(r)
	params := store.BookmarkListParams{
		UserID: userID,
		Limit:  page.Limit(),
		Offset: page.Offset(),
	}

	var err error
	if params.IsFavorite, err = parseBoolQuery(r, "is_favorite"); err != nil {
		return params, page, err
	}
	if params.IsPinned, err = parseBoolQuery(r, "is_pinned"); err != nil {
		return params, page, err
	}
	if params.CreatedAfter, err = parseTimeQuery(r, "created_after"); err != nil {
		return params, page, err
	}
	if params.CreatedBefore, err = parseTimeQuery(r, "created_before"); err != nil {
		return params, page, err
	}

	query := r.URL.Query()
	params.TitleContains = query.Get("title_contains")
	params.URLContains = query.Get("url_contains")
	params.Search = query.Get("search")
	params.TagName = query.Get("tag_name")

	if raw := query.Get("tag_id"); raw != "" {
		tagID, err := uuid.Parse(raw)
		if err != nil {
			return params, page, domain.NewValidationError("tag_id", "has invalid format", domain.ErrInvalidID)
		}
		params.TagID = &tagID
	}

	params.OrderBy, params.Descending, err = parseOrdering(
		r,
		[]string{store.BookmarkOrderCreatedAt, store.BookmarkOrderUpdatedAt, store.BookmarkOrderTitle},
		store.BookmarkOrderCreatedAt,
		true,
	)
	if err != nil {
		return params, page, err
	}

	return params, page, nil
}
