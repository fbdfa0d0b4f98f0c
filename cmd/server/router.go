package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/planky/planky-api/internal/api"
	apiMiddleware "github.com/planky/planky-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(
		app.userStore,
		app.tokenStore,
		app.jwtService,
		app.passwordVerifier,
		app.config.Auth,
	)
	userHandler := api.NewUserHandler(app.userStore)
	bookmarkHandler := api.NewBookmarkHandler(app.bookmarkStore, app.bookmarkService)
	tagHandler := api.NewTagHandler(app.tagStore, app.bookmarkStore, app.tagService)
	metadataHandler := api.NewMetadataHandler(app.fetcher)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/me", userHandler.Me)

			// User profile endpoints
			r.Get("/users/me", userHandler.Me)
			r.Patch("/users/me", userHandler.UpdateMe)

			// Bookmark endpoints. Fixed paths register before /{id} so chi
			// does not swallow them as IDs.
			r.Get("/bookmarks", bookmarkHandler.List)
			r.Post("/bookmarks", bookmarkHandler.Create)
			r.Get("/bookmarks/favorites", bookmarkHandler.ListFavorites)
			r.Get("/bookmarks/pinned", bookmarkHandler.ListPinned)
			r.Post("/bookmarks/metadata", metadataHandler.Fetch)
			r.Get("/bookmarks/{id}", bookmarkHandler.Get)
			r.Put("/bookmarks/{id}", bookmarkHandler.Update)
			r.Patch("/bookmarks/{id}", bookmarkHandler.Update)
			r.Delete("/bookmarks/{id}", bookmarkHandler.Delete)
			r.Post("/bookmarks/{id}/tags", bookmarkHandler.AddTag)
			r.Delete("/bookmarks/{id}/tags", bookmarkHandler.RemoveTag)

			// Tag endpoints
			r.Get("/tags", tagHandler.List)
			r.Post("/tags", tagHandler.Create)
			r.Get("/tags/popular", tagHandler.Popular)
			r.Get("/tags/unused", tagHandler.ListUnused)
			r.Post("/tags/bulk-delete", tagHandler.BulkDelete)
			r.Post("/tags/merge", tagHandler.Merge)
			r.Get("/tags/{id}", tagHandler.Get)
			r.Put("/tags/{id}", tagHandler.Update)
			r.Patch("/tags/{id}", tagHandler.Update)
			r.Delete("/tags/{id}", tagHandler.Delete)
			r.Get("/tags/{id}/bookmarks", tagHandler.Bookmarks)
			r.Get("/tags/{id}/details", tagHandler.Details)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
