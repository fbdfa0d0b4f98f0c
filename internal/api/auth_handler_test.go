package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/planky/planky-api/internal/config"
	"github.com/planky/planky-api/internal/domain"
	"github.com/planky/planky-api/internal/mocks"
	"github.com/planky/planky-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testAuthConfig returns a minimal auth config for handler tests.
func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		TokenLifetimeMinutes: 60, // 1 hour token lifetime for tests
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	// Create dependencies
	userStore := mocks.NewMockUserStore()
	tokenStore := mocks.NewMockTokenStore()
	jwtService := &mocks.MockJWTService{Token: "test-token", RefreshToken: "test-refresh-token"}
	passwordVerifier := &mocks.MockPasswordVerifier{ShouldSucceed: true}

	// Create handler
	handler := NewAuthHandler(userStore, tokenStore, jwtService, passwordVerifier, testAuthConfig())

	// Test cases
	tests := []struct {
		name       string
		payload    map[string]interface{}
		wantStatus int
		wantToken  bool
	}{
		{
			name: "valid registration",
			payload: map[string]interface{}{
				"email":    "test@example.com",
				"password": "password1234567",
			},
			wantStatus: http.StatusCreated,
			wantToken:  true,
		},
		{
			name: "registration with profile fields",
			payload: map[string]interface{}{
				"email":      "profile@example.com",
				"password":   "password1234567",
				"username":   "profileuser",
				"first_name": "Pro",
				"last_name":  "File",
			},
			wantStatus: http.StatusCreated,
			wantToken:  true,
		},
		{
			name: "duplicate email",
			payload: map[string]interface{}{
				"email":    "test@example.com",
				"password": "password1234567",
			},
			wantStatus: http.StatusConflict,
			wantToken:  false,
		},
		{
			name: "invalid email",
			payload: map[string]interface{}{
				"email":    "invalid-email",
				"password": "password1234567",
			},
			wantStatus: http.StatusBadRequest,
			wantToken:  false,
		},
		{
			name: "password too short",
			payload: map[string]interface{}{
				"email":    "test2@example.com",
				"password": "short",
			},
			wantStatus: http.StatusBadRequest,
			wantToken:  false,
		},
		{
			name: "missing email",
			payload: map[string]interface{}{
				"password": "password1234567",
			},
			wantStatus: http.StatusBadRequest,
			wantToken:  false,
		},
		{
			name: "missing password",
			payload: map[string]interface{}{
				"email": "test3@example.com",
			},
			wantStatus: http.StatusBadRequest,
			wantToken:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create request
			payloadBytes, err := json.Marshal(tt.payload)
			require.NoError(t, err)

			req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewBuffer(payloadBytes))
			req.Header.Set("Content-Type", "application/json")

			recorder := httptest.NewRecorder()

			handler.Register(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantToken {
				var authResp AuthResponse
				err = json.NewDecoder(recorder.Body).Decode(&authResp)
				require.NoError(t, err)
				assert.NotEqual(t, uuid.Nil, authResp.User.ID)
				assert.Equal(t, "test-token", authResp.AccessToken)
				assert.Equal(t, "test-refresh-token", authResp.RefreshToken)
				assert.NotEmpty(t, authResp.ExpiresAt, "ExpiresAt should be populated")
			}
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	// Create test user data
	userID := uuid.New()
	testEmail := "test@example.com"
	testPassword := "password1234567"

	newUserStore := func(active bool) *mocks.MockUserStore {
		store := mocks.NewMockUserStore()
		store.Users[testEmail] = &domain.User{
			ID:             userID,
			Email:          testEmail,
			HashedPassword: "dummy-hash",
			AuthProvider:   domain.AuthProviderEmail,
			IsActive:       active,
			CreatedAt:      time.Now().UTC(),
		}
		return store
	}

	jwtService := &mocks.MockJWTService{Token: "test-token", RefreshToken: "test-refresh-token"}
	tokenStore := mocks.NewMockTokenStore()

	// Test cases
	tests := []struct {
		name             string
		payload          map[string]interface{}
		userStore        *mocks.MockUserStore
		passwordVerifier *mocks.MockPasswordVerifier
		wantStatus       int
		wantToken        bool
	}{
		{
			name: "valid login",
			payload: map[string]interface{}{
				"email":    testEmail,
				"password": testPassword,
			},
			userStore:        newUserStore(true),
			passwordVerifier: &mocks.MockPasswordVerifier{ShouldSucceed: true},
			wantStatus:       http.StatusOK,
			wantToken:        true,
		},
		{
			name: "mixed-case email matches the stored lowercase form",
			payload: map[string]interface{}{
				"email":    "Test@Example.com",
				"password": testPassword,
			},
			userStore:        newUserStore(true),
			passwordVerifier: &mocks.MockPasswordVerifier{ShouldSucceed: true},
			wantStatus:       http.StatusOK,
			wantToken:        true,
		},
		{
			name: "unknown email",
			payload: map[string]interface{}{
				"email":    "nonexistent@example.com",
				"password": testPassword,
			},
			userStore:        newUserStore(true),
			passwordVerifier: &mocks.MockPasswordVerifier{ShouldSucceed: false},
			wantStatus:       http.StatusUnauthorized,
			wantToken:        false,
		},
		{
			name: "invalid password",
			payload: map[string]interface{}{
				"email":    testEmail,
				"password": "wrongpassword",
			},
			userStore:        newUserStore(true),
			passwordVerifier: &mocks.MockPasswordVerifier{ShouldSucceed: false},
			wantStatus:       http.StatusUnauthorized,
			wantToken:        false,
		},
		{
			name: "inactive account",
			payload: map[string]interface{}{
				"email":    testEmail,
				"password": testPassword,
			},
			userStore:        newUserStore(false),
			passwordVerifier: &mocks.MockPasswordVerifier{ShouldSucceed: true},
			wantStatus:       http.StatusUnauthorized,
			wantToken:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAuthHandler(
				tt.userStore,
				tokenStore,
				jwtService,
				tt.passwordVerifier,
				testAuthConfig(),
			)

			payloadBytes, err := json.Marshal(tt.payload)
			require.NoError(t, err)

			req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(payloadBytes))
			req.Header.Set("Content-Type", "application/json")

			recorder := httptest.NewRecorder()

			handler.Login(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantToken {
				var authResp AuthResponse
				err = json.NewDecoder(recorder.Body).Decode(&authResp)
				require.NoError(t, err)
				assert.Equal(t, userID, authResp.User.ID)
				assert.Equal(t, "test-token", authResp.AccessToken)
				assert.NotNil(t, authResp.User.LastLogin, "login should record last_login")
			}
		})
	}
}

// refreshClaims builds refresh token claims with a fresh jti for rotation
// tests.
func refreshClaims(userID uuid.UUID) *auth.Claims {
	return &auth.Claims{
		UserID:    userID,
		TokenType: "refresh",
		Subject:   userID.String(),
		IssuedAt:  time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
		ID:        uuid.New().String(),
	}
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("rotates a valid refresh token", func(t *testing.T) {
		t.Parallel()
		tokenStore := mocks.NewMockTokenStore()
		claims := refreshClaims(userID)
		jwtService := &mocks.MockJWTService{
			Token:        "new-access-token",
			RefreshToken: "new-refresh-token",
			Claims:       claims,
		}
		handler := NewAuthHandler(
			mocks.NewMockUserStore(),
			tokenStore,
			jwtService,
			&mocks.MockPasswordVerifier{},
			testAuthConfig(),
		)

		payload := []byte(`{"refresh_token": "old-refresh-token"}`)
		req := httptest.NewRequest("POST", "/api/auth/refresh", bytes.NewBuffer(payload))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()

		handler.Refresh(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp RefreshTokenResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "new-access-token", resp.AccessToken)
		assert.Equal(t, "new-refresh-token", resp.RefreshToken)
		assert.NotEmpty(t, resp.ExpiresAt)

		// Rotation revokes the presented token
		jti := uuid.MustParse(claims.ID)
		revoked, err := tokenStore.IsRevoked(req.Context(), jti)
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("rejects a revoked refresh token", func(t *testing.T) {
		t.Parallel()
		tokenStore := mocks.NewMockTokenStore()
		claims := refreshClaims(userID)
		jwtService := &mocks.MockJWTService{
			Token:        "new-access-token",
			RefreshToken: "new-refresh-token",
			Claims:       claims,
		}
		handler := NewAuthHandler(
			mocks.NewMockUserStore(),
			tokenStore,
			jwtService,
			&mocks.MockPasswordVerifier{},
			testAuthConfig(),
		)

		// First refresh succeeds and revokes the token
		payload := []byte(`{"refresh_token": "old-refresh-token"}`)
		req := httptest.NewRequest("POST", "/api/auth/refresh", bytes.NewBuffer(payload))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		handler.Refresh(recorder, req)
		require.Equal(t, http.StatusOK, recorder.Code)

		// Replaying the same token must fail
		req = httptest.NewRequest("POST", "/api/auth/refresh", bytes.NewBuffer(payload))
		req.Header.Set("Content-Type", "application/json")
		recorder = httptest.NewRecorder()
		handler.Refresh(recorder, req)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("rejects an invalid refresh token", func(t *testing.T) {
		t.Parallel()
		jwtService := &mocks.MockJWTService{ValidateErr: auth.ErrInvalidRefreshToken}
		handler := NewAuthHandler(
			mocks.NewMockUserStore(),
			mocks.NewMockTokenStore(),
			jwtService,
			&mocks.MockPasswordVerifier{},
			testAuthConfig(),
		)

		payload := []byte(`{"refresh_token": "garbage"}`)
		req := httptest.NewRequest("POST", "/api/auth/refresh", bytes.NewBuffer(payload))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()

		handler.Refresh(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("rejects a missing refresh token", func(t *testing.T) {
		t.Parallel()
		handler := NewAuthHandler(
			mocks.NewMockUserStore(),
			mocks.NewMockTokenStore(),
			&mocks.MockJWTService{},
			&mocks.MockPasswordVerifier{},
			testAuthConfig(),
		)

		req := httptest.NewRequest("POST", "/api/auth/refresh", bytes.NewBufferString("{}"))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()

		handler.Refresh(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("revokes the refresh token", func(t *testing.T) {
		t.Parallel()
		tokenStore := mocks.NewMockTokenStore()
		claims := refreshClaims(userID)
		jwtService := &mocks.MockJWTService{Claims: claims}
		handler := NewAuthHandler(
			mocks.NewMockUserStore(),
			tokenStore,
			jwtService,
			&mocks.MockPasswordVerifier{},
			testAuthConfig(),
		)

		payload := []byte(`{"refresh_token": "the-refresh-token"}`)
		req := httptest.NewRequest("POST", "/api/auth/logout", bytes.NewBuffer(payload))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()

		handler.Logout(recorder, req)

		assert.Equal(t, http.StatusNoContent, recorder.Code)

		jti := uuid.MustParse(claims.ID)
		revoked, err := tokenStore.IsRevoked(req.Context(), jti)
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("logout is idempotent", func(t *testing.T) {
		t.Parallel()
		tokenStore := mocks.NewMockTokenStore()
		claims := refreshClaims(userID)
		jwtService := &mocks.MockJWTService{Claims: claims}
		handler := NewAuthHandler(
			mocks.NewMockUserStore(),
			tokenStore,
			jwtService,
			&mocks.MockPasswordVerifier{},
			testAuthConfig(),
		)

		payload := []byte(`{"refresh_token": "the-refresh-token"}`)
		for i := 0; i < 2; i++ {
			req := httptest.NewRequest("POST", "/api/auth/logout", bytes.NewBuffer(payload))
			req.Header.Set("Content-Type", "application/json")
			recorder := httptest.NewRecorder()

			handler.Logout(recorder, req)

			assert.Equal(t, http.StatusNoContent, recorder.Code)
			payload = []byte(`{"refresh_token": "the-refresh-token"}`)
		}
	})

	t.Run("rejects an invalid refresh token", func(t *testing.T) {
		t.Parallel()
		jwtService := &mocks.MockJWTService{ValidateErr: auth.ErrInvalidRefreshToken}
		handler := NewAuthHandler(
			mocks.NewMockUserStore(),
			mocks.NewMockTokenStore(),
			jwtService,
			&mocks.MockPasswordVerifier{},
			testAuthConfig(),
		)

		payload := []byte(`{"refresh_token": "garbage"}`)
		req := httptest.NewRequest("POST", "/api/auth/logout", bytes.NewBuffer(payload))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()

		handler.Logout(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
