package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/planky/planky-api/internal/domain"
	"github.com/planky/planky-api/internal/fetch"
	"github.com/planky/planky-api/internal/store"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=8,max=72"`
	Username  string `json:"username"   validate:"omitempty,max=150"`
	FirstName string `json:"first_name" validate:"omitempty,max=150"`
	LastName  string `json:"last_name"  validate:"omitempty,max=150"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    string       `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token
// refresh endpoint. The presented refresh token is revoked and replaced.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// LogoutRequest defines the payload for the logout endpoint.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UserResponse is the public representation of a user.
type UserResponse struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Username     string     `json:"username,omitempty"`
	FirstName    string     `json:"first_name,omitempty"`
	LastName     string     `json:"last_name,omitempty"`
	AuthProvider string     `json:"auth_provider"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login"`
	DateJoined   time.Time  `json:"date_joined"`
}

// NewUserResponse builds a UserResponse from a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		AuthProvider: string(user.AuthProvider),
		IsActive:     user.IsActive,
		LastLogin:    user.LastLoginAt,
		DateJoined:   user.CreatedAt,
	}
}

// UpdateUserRequest defines the payload for profile updates. Nil fields are
// left unchanged.
type UpdateUserRequest struct {
	Username  *string `json:"username"   validate:"omitempty,max=150"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name"  validate:"omitempty,max=150"`
}

// TagSummary is the compact tag representation embedded in bookmark
// responses.
type TagSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// BookmarkResponse is the public representation of a bookmark.
type BookmarkResponse struct {
	ID          uuid.UUID    `json:"id"`
	URL         string       `json:"url"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	FaviconURL  string       `json:"favicon_url,omitempty"`
	IsFavorite  bool         `json:"is_favorite"`
	IsPinned    bool         `json:"is_pinned"`
	Tags        []TagSummary `json:"tags"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewBookmarkResponse builds a BookmarkResponse from a domain bookmark.
func NewBookmarkResponse(bookmark *domain.Bookmark) BookmarkResponse {
	tags := make([]TagSummary, 0, len(bookmark.Tags))
	for _, tag := range bookmark.Tags {
		tags = append(tags, TagSummary{ID: tag.ID, Name: tag.Name})
	}

	return BookmarkResponse{
		ID:          bookmark.ID,
		URL:         bookmark.URL,
		Title:       bookmark.Title,
		Description: bookmark.Description,
		FaviconURL:  bookmark.FaviconURL,
		IsFavorite:  bookmark.IsFavorite,
		IsPinned:    bookmark.IsPinned,
		Tags:        tags,
		CreatedAt:   bookmark.CreatedAt,
		UpdatedAt:   bookmark.UpdatedAt,
	}
}

// NewBookmarkResponses maps a page of bookmarks.
func NewBookmarkResponses(bookmarks []*domain.Bookmark) []BookmarkResponse {
	responses := make([]BookmarkResponse, 0, len(bookmarks))
	for _, bookmark := range bookmarks {
		responses = append(responses, NewBookmarkResponse(bookmark))
	}
	return responses
}

// CreateBookmarkRequest defines the payload for bookmark creation.
type CreateBookmarkRequest struct {
	URL         string      `json:"url"         validate:"required,max=2000"`
	Title       string      `json:"title"       validate:"required,max=255"`
	Description string      `json:"description"`
	FaviconURL  string      `json:"favicon_url" validate:"omitempty,max=2000"`
	IsFavorite  bool        `json:"is_favorite"`
	IsPinned    bool        `json:"is_pinned"`
	TagIDs      []uuid.UUID `json:"tag_ids"`
}

// UpdateBookmarkRequest defines the payload for bookmark updates. Nil
// fields are left unchanged; a non-nil TagIDs replaces the tag set.
type UpdateBookmarkRequest struct {
	URL         *string      `json:"url"         validate:"omitempty,max=2000"`
	Title       *string      `json:"title"       validate:"omitempty,min=1,max=255"`
	Description *string      `json:"description"`
	FaviconURL  *string      `json:"favicon_url" validate:"omitempty,max=2000"`
	IsFavorite  *bool        `json:"is_favorite"`
	IsPinned    *bool        `json:"is_pinned"`
	TagIDs      *[]uuid.UUID `json:"tag_ids"`
}

// BookmarkTagRequest identifies a tag to attach or detach, by ID or name.
type BookmarkTagRequest struct {
	TagID   *uuid.UUID `json:"tag_id"`
	TagName string     `json:"tag_name" validate:"omitempty,max=50"`
}

// FetchMetadataRequest defines the payload for the URL metadata endpoint.
type FetchMetadataRequest struct {
	URL string `json:"url" validate:"required,max=2000"`
}

// MetadataResponse is the scraped page metadata. Title and description are
// null when they could not be determined.
type MetadataResponse struct {
	URL         string  `json:"url"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Error       string  `json:"error,omitempty"`
}

// NewMetadataResponse builds a MetadataResponse from a fetch result.
func NewMetadataResponse(meta *fetch.Metadata) MetadataResponse {
	resp := MetadataResponse{URL: meta.URL, Error: meta.Error}
	if meta.Title != "" {
		resp.Title = &meta.Title
	}
	if meta.Description != "" {
		resp.Description = &meta.Description
	}
	return resp
}

// TagResponse is the public representation of a tag. BookmarkCount is
// present when the endpoint computes it.
type TagResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	IsAutoGenerated bool      `json:"is_auto_generated"`
	CreatedAt       time.Time `json:"created_at"`
	BookmarkCount   *int64    `json:"bookmark_count,omitempty"`
}

// NewTagResponse builds a TagResponse from a domain tag.
func NewTagResponse(tag *domain.Tag) TagResponse {
	return TagResponse{
		ID:              tag.ID,
		Name:            tag.Name,
		IsAutoGenerated: tag.IsAutoGenerated,
		CreatedAt:       tag.CreatedAt,
	}
}

// NewTagResponsesWithCount maps a page of counted tags, optionally
// exposing the counts.
func NewTagResponsesWithCount(tags []*store.TagWithCount, includeCount bool) []TagResponse {
	responses := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		resp := NewTagResponse(&tag.Tag)
		if includeCount {
			count := tag.BookmarkCount
			resp.BookmarkCount = &count
		}
		responses = append(responses, resp)
	}
	return responses
}

// CreateTagRequest defines the payload for tag creation.
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// UpdateTagRequest defines the payload for renaming a tag.
type UpdateTagRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// BulkDeleteTagsRequest defines the payload for bulk tag deletion.
type BulkDeleteTagsRequest struct {
	TagIDs []uuid.UUID `json:"tag_ids" validate:"required,min=1"`
}

// BulkDeleteTagsResponse reports what a bulk deletion removed.
type BulkDeleteTagsResponse struct {
	Detail              string `json:"detail"`
	DeletedTags         int    `json:"deleted_tags"`
	RemovedAssociations int64  `json:"removed_associations"`
}

// MergeTagsRequest defines the payload for merging tags.
type MergeTagsRequest struct {
	SourceTagIDs []uuid.UUID `json:"source_tag_ids" validate:"required,min=1"`
	TargetTagID  uuid.UUID   `json:"target_tag_id"  validate:"required"`
}

// MergeTagsResponse reports what a merge did.
type MergeTagsResponse struct {
	Detail            string `json:"detail"`
	DeletedTags       int    `json:"deleted_tags"`
	MovedAssociations int64  `json:"moved_associations"`
}

// TagDetailsResponse is a tag plus usage statistics.
type TagDetailsResponse struct {
	TagResponse
	TotalBookmarks  int64              `json:"total_bookmarks"`
	RecentBookmarks []BookmarkResponse `json:"recent_bookmarks"`
}

// MessageResponse carries a human-readable detail message.
type MessageResponse struct {
	Detail string `json:"detail"`
}
