package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/planky/planky-api/internal/domain"
	"github.com/planky/planky-api/internal/service/auth"
	"github.com/planky/planky-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"revoked refresh token", auth.ErrRevokedToken, http.StatusUnauthorized},
		{"missing entity", store.ErrBookmarkNotFound, http.StatusNotFound},
		{"duplicate email", store.ErrEmailExists, http.StatusConflict},
		{"duplicate tag name", store.ErrTagNameExists, http.StatusConflict},
		{"field validation error", domain.NewValidationError("url", "must be valid", nil), http.StatusBadRequest},
		{"empty tag name", domain.ErrTagNameEmpty, http.StatusBadRequest},
		{"invalid bookmark URL", domain.ErrBookmarkURLInvalid, http.StatusBadRequest},
		{"invalid favicon URL", domain.ErrFaviconURLInvalid, http.StatusBadRequest},
		{"empty bookmark title", domain.ErrBookmarkTitleEmpty, http.StatusBadRequest},
		{"short password", domain.ErrPasswordTooShort, http.StatusBadRequest},
		{"invalid email format", domain.ErrInvalidEmail, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantStatus, MapErrorToStatusCode(tt.err))
		})
	}
}
