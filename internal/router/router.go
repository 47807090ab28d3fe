package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-auth-service/internal/config"
	"go-auth-service/internal/handler"
	"go-auth-service/internal/middleware"
	"go-auth-service/internal/model"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	User   *handler.UserHandler
	Health *handler.HealthHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, handlers Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	// The gate runs on every request and only attaches identity; the
	// Require* wrappers below are what actually reject.
	r.Use(authMiddleware.Authenticate)

	r.Get("/health", handlers.Health.Check)

	r.Route("/auth", func(auth chi.Router) {
		auth.Post("/login", handlers.Auth.Login)
		auth.Post("/register", handlers.Auth.Register)
	})

	r.Route("/users", func(users chi.Router) {
		users.With(authMiddleware.RequireAuth).Get("/me", handlers.User.Me)
		users.With(authMiddleware.RequireRoles(model.RoleAdmin)).Get("/", handlers.User.List)
	})

	return r
}
