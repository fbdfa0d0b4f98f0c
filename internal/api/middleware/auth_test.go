package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/planky/planky-api/internal/mocks"
	"github.com/planky/planky-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	// next records whether the protected handler ran and with which user.
	newNext := func(called *bool, gotUserID *uuid.UUID) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*called = true
			if id, ok := GetUserID(r); ok {
				*gotUserID = id
			}
			w.WriteHeader(http.StatusOK)
		})
	}

	tests := []struct {
		name       string
		authHeader string
		jwtService *mocks.MockJWTService
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "valid token",
			authHeader: "Bearer valid-token",
			jwtService: &mocks.MockJWTService{Claims: &auth.Claims{UserID: userID}},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "missing header",
			authHeader: "",
			jwtService: &mocks.MockJWTService{},
			wantStatus: http.StatusUnauthorized,
			wantNext:   false,
		},
		{
			name:       "malformed header",
			authHeader: "NotBearer token",
			jwtService: &mocks.MockJWTService{},
			wantStatus: http.StatusUnauthorized,
			wantNext:   false,
		},
		{
			name:       "expired token",
			authHeader: "Bearer expired-token",
			jwtService: &mocks.MockJWTService{ValidateErr: auth.ErrExpiredToken},
			wantStatus: http.StatusUnauthorized,
			wantNext:   false,
		},
		{
			name:       "invalid token",
			authHeader: "Bearer bad-token",
			jwtService: &mocks.MockJWTService{ValidateErr: auth.ErrInvalidToken},
			wantStatus: http.StatusUnauthorized,
			wantNext:   false,
		},
		{
			name:       "refresh token on an access route",
			authHeader: "Bearer refresh-token",
			jwtService: &mocks.MockJWTService{ValidateErr: auth.ErrWrongTokenType},
			wantStatus: http.StatusUnauthorized,
			wantNext:   false,
		},
		{
			name:       "unexpected validation failure",
			authHeader: "Bearer some-token",
			jwtService: &mocks.MockJWTService{ValidateErr: assert.AnError},
			wantStatus: http.StatusInternalServerError,
			wantNext:   false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var called bool
			var gotUserID uuid.UUID

			middleware := NewAuthMiddleware(tt.jwtService)
			handler := middleware.Authenticate(newNext(&called, &gotUserID))

			req := httptest.NewRequest("GET", "/api/bookmarks", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantNext, called)
			if tt.wantNext {
				require.Equal(t, userID, gotUserID)
			}
		})
	}
}
