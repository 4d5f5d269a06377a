package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"socialnet/internal/handler"
	"socialnet/internal/httputil"
	authmw "socialnet/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler       *handler.AuthHandler
	UserHandler       *handler.UserHandler
	FollowHandler     *handler.FollowHandler
	FriendshipHandler *handler.FriendshipHandler
	PostHandler       *handler.PostHandler
	CommentHandler    *handler.CommentHandler
	GroupHandler      *handler.GroupHandler
	StoryHandler      *handler.StoryHandler
	PhotoHandler      *handler.PhotoHandler
	RateLimiter       *authmw.RateLimiter
	JWTSecret         string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(authmw.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Handler)
	}

	// Ops endpoints
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/refresh", cfg.AuthHandler.Refresh)
	})

	// Public reads with optional authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.OptionalAuthMiddleware(cfg.JWTSecret))

		r.Get("/users/search", cfg.UserHandler.Search)
		r.Get("/users/{id}", cfg.UserHandler.GetProfile)
		r.Get("/posts", cfg.PostHandler.List)
		r.Get("/posts/{id}", cfg.PostHandler.GetByID)
		r.Get("/comments", cfg.CommentHandler.List)
		r.Get("/comments/{id}", cfg.CommentHandler.GetByID)
		r.Get("/groups", cfg.GroupHandler.List)
		r.Get("/groups/{id}", cfg.GroupHandler.GetByID)
		r.Get("/photos", cfg.PhotoHandler.List)
		r.Get("/photos/{id}", cfg.PhotoHandler.GetByID)
	})

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		// Current user
		r.Get("/me", cfg.UserHandler.Me)
		r.Put("/me", cfg.UserHandler.UpdateMe)

		// Auth actions that require authentication
		r.Post("/auth/logout", cfg.AuthHandler.Logout)
		r.Post("/auth/logout-all", cfg.AuthHandler.LogoutAll)

		// Follow graph
		r.Post("/follow", cfg.FollowHandler.Follow)
		r.Delete("/unfollow", cfg.FollowHandler.Unfollow)
		r.Get("/followers", cfg.FollowHandler.GetFollowers)
		r.Get("/following", cfg.FollowHandler.GetFollowing)

		// Friendships
		r.Route("/friends", func(r chi.Router) {
			r.Get("/", cfg.FriendshipHandler.ListFriends)
			r.Get("/pending", cfg.FriendshipHandler.ListPending)
			r.Post("/", cfg.FriendshipHandler.Request)
			r.Put("/{id}", cfg.FriendshipHandler.Respond)
			r.Delete("/{id}", cfg.FriendshipHandler.Delete)
		})

		// Posts
		r.Post("/posts", cfg.PostHandler.Create)
		r.Put("/posts/{id}", cfg.PostHandler.Update)
		r.Delete("/posts/{id}", cfg.PostHandler.Delete)
		r.Put("/posts/{id}/like", cfg.PostHandler.ToggleLike)

		// Comments
		r.Post("/comments", cfg.CommentHandler.Create)
		r.Put("/comments/{id}", cfg.CommentHandler.Update)
		r.Delete("/comments/{id}", cfg.CommentHandler.Delete)

		// Groups
		r.Post("/groups", cfg.GroupHandler.Create)
		r.Put("/groups/{id}", cfg.GroupHandler.Update)
		r.Delete("/groups/{id}", cfg.GroupHandler.Delete)

		// Stories
		r.Post("/stories/upload", cfg.StoryHandler.Upload)
		r.Get("/stories/active", cfg.StoryHandler.ListActive)
		r.Delete("/stories/{id}", cfg.StoryHandler.Delete)

		// Photos
		r.Post("/photos", cfg.PhotoHandler.Create)
		r.Put("/photos/{id}", cfg.PhotoHandler.Update)
		r.Delete("/photos/{id}", cfg.PhotoHandler.Delete)
	})

	return r
}
