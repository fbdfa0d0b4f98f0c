package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/planky/planky-api/internal/api/shared"
	"github.com/planky/planky-api/internal/config"
	"github.com/planky/planky-api/internal/domain"
	"github.com/planky/planky-api/internal/service/auth"
	"github.com/planky/planky-api/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userStore        store.UserStore
	tokenStore       store.TokenStore
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	tokenLifetime    time.Duration
	validator        *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	tokenStore store.TokenStore,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	authCfg config.AuthConfig,
) *AuthHandler {
	return &AuthHandler{
		userStore:        userStore,
		tokenStore:       tokenStore,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		tokenLifetime:    time.Duration(authCfg.TokenLifetimeMinutes) * time.Minute,
		validator:        validator.New(),
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := domain.NewUser(req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Invalid user data")
		return
	}
	user.Username = req.Username
	user.FirstName = req.FirstName
	user.LastName = req.LastName

	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Email already exists")
			return
		}
		slog.Error("failed to create user", "error", err)
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	accessToken, refreshToken, ok := h.issueTokenPair(w, r, user.ID)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		User:         NewUserResponse(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    h.accessTokenExpiry(),
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), domain.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		slog.Error("failed to get user by email", "error", err)
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	if !user.IsActive {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	now := time.Now().UTC()
	if err := h.userStore.UpdateLastLogin(r.Context(), user.ID, now); err != nil {
		// Login still succeeds; the timestamp is informational.
		slog.Warn("failed to update last login", "error", err, "user_id", user.ID)
	} else {
		user.LastLoginAt = &now
	}

	accessToken, refreshToken, ok := h.issueTokenPair(w, r, user.ID)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		User:         NewUserResponse(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    h.accessTokenExpiry(),
	})
}

// Refresh handles POST /api/auth/refresh. The presented refresh token is
// revoked and a fresh pair is issued (rotation).
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	revoked, err := h.checkRevoked(w, r, claims)
	if err != nil || revoked {
		return
	}

	if err := h.revokeClaims(r, claims); err != nil {
		slog.Error("failed to revoke rotated refresh token", "error", err, "user_id", claims.UserID)
		HandleAPIError(w, r, err, "Failed to refresh token")
		return
	}

	accessToken, refreshToken, ok := h.issueTokenPair(w, r, claims.UserID)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    h.accessTokenExpiry(),
	})
}

// Logout handles POST /api/auth/logout. Revoking an already-revoked token
// still returns 204.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req LogoutRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.revokeClaims(r, claims); err != nil {
		slog.Error("failed to revoke refresh token on logout", "error", err, "user_id", claims.UserID)
		HandleAPIError(w, r, err, "Failed to log out")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// issueTokenPair generates an access and refresh token, writing an error
// response and returning ok=false on failure.
func (h *AuthHandler) issueTokenPair(
	w http.ResponseWriter,
	r *http.Request,
	userID uuid.UUID,
) (string, string, bool) {
	accessToken, err := h.jwtService.GenerateToken(r.Context(), userID)
	if err != nil {
		slog.Error("failed to generate access token", "error", err, "user_id", userID)
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return "", "", false
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(r.Context(), userID)
	if err != nil {
		slog.Error("failed to generate refresh token", "error", err, "user_id", userID)
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return "", "", false
	}

	return accessToken, refreshToken, true
}

// checkRevoked rejects refresh tokens on the revocation list. Returns
// revoked=true when a response has been written.
func (h *AuthHandler) checkRevoked(
	w http.ResponseWriter,
	r *http.Request,
	claims *auth.Claims,
) (bool, error) {
	jti, err := uuid.Parse(claims.ID)
	if err != nil {
		HandleAPIError(w, r, auth.ErrInvalidRefreshToken, "")
		return true, err
	}

	revoked, err := h.tokenStore.IsRevoked(r.Context(), jti)
	if err != nil {
		slog.Error("failed to check token revocation", "error", err, "user_id", claims.UserID)
		HandleAPIError(w, r, err, "Failed to refresh token")
		return true, err
	}
	if revoked {
		HandleAPIError(w, r, auth.ErrRevokedToken, "")
		return true, nil
	}

	return false, nil
}

// revokeClaims records the refresh token's jti on the revocation list.
func (h *AuthHandler) revokeClaims(r *http.Request, claims *auth.Claims) error {
	jti, err := uuid.Parse(claims.ID)
	if err != nil {
		return auth.ErrInvalidRefreshToken
	}

	return h.tokenStore.Revoke(r.Context(), store.RevokedToken{
		JTI:       jti,
		UserID:    claims.UserID,
		ExpiresAt: claims.ExpiresAt,
	})
}

// accessTokenExpiry formats the expiry timestamp for a token issued now.
func (h *AuthHandler) accessTokenExpiry() string {
	return time.Now().UTC().Add(h.tokenLifetime).Format(time.RFC3339)
}
