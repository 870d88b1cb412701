package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jenfranx30/savemate-backend/internal/auth"
	"github.com/jenfranx30/savemate-backend/internal/service"
	"github.com/jenfranx30/savemate-backend/pkg/health"
	"github.com/jenfranx30/savemate-backend/pkg/middleware"
)

// Services groups everything the router dispatches to.
type Services struct {
	Authenticator *auth.Authenticator
	Users         *service.UserService
	Businesses    *service.BusinessService
	Deals         *service.DealService
	Reviews       *service.ReviewService
	Favorites     *service.FavoriteService
	Categories    *service.CategoryService
}

// RouterConfig holds the HTTP-level settings of the router.
type RouterConfig struct {
	ServiceName string
	CORS        middleware.CORSConfig
	// AuthRateLimit applies to /api/v1/auth. A zero rate disables it.
	AuthRateLimit middleware.RateLimitConfig
}

// NewRouter creates a chi router with all SaveMate routes registered. ctx
// bounds background work owned by the router, such as rate limiter eviction.
func NewRouter(
	ctx context.Context,
	svc Services,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	authn := requireAuth(svc.Authenticator, logger)
	businessOwner := requireGate(auth.RequireBusinessOwner, logger)
	admin := requireGate(auth.RequireAdmin, logger)

	authHandler := NewAuthHandler(svc.Users, logger)
	userHandler := NewUserHandler(svc.Users, logger)
	businessHandler := NewBusinessHandler(svc.Businesses, logger)
	dealHandler := NewDealHandler(svc.Deals, logger)
	reviewHandler := NewReviewHandler(svc.Reviews, logger)
	favoriteHandler := NewFavoriteHandler(svc.Favorites, logger)
	categoryHandler := NewCategoryHandler(svc.Categories, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Route("/auth", func(r chi.Router) {
			if cfg.AuthRateLimit.RequestsPerSecond > 0 {
				r.Use(middleware.RateLimit(ctx, cfg.AuthRateLimit, logger))
			}

			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.With(authn).Post("/logout", authHandler.Logout)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authn)

			r.Get("/me", userHandler.GetMe)
			r.Put("/me", userHandler.UpdateMe)
			r.Put("/me/password", userHandler.ChangePassword)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authn, admin)

			r.Get("/users", userHandler.ListUsers)
			r.Patch("/users/{id}/status", userHandler.UpdateStatus)
		})

		r.Route("/businesses", func(r chi.Router) {
			r.Get("/", businessHandler.List)
			r.Get("/{id}", businessHandler.Get)

			r.With(authn).Get("/mine", businessHandler.ListMine)
			r.With(authn, businessOwner).Post("/", businessHandler.Create)
			r.With(authn).Put("/{id}", businessHandler.Update)
			r.With(authn).Delete("/{id}", businessHandler.Delete)
		})

		r.Route("/deals", func(r chi.Router) {
			r.Get("/", dealHandler.List)
			r.Get("/{id}", dealHandler.Get)
			r.Get("/{id}/reviews", reviewHandler.ListByDeal)
			r.Get("/{id}/reviews/stats", reviewHandler.Stats)

			r.With(authn).Get("/mine", dealHandler.ListMine)
			r.With(authn, businessOwner).Post("/", dealHandler.Create)
			r.With(authn).Put("/{id}", dealHandler.Update)
			r.With(authn).Delete("/{id}", dealHandler.Delete)
			r.With(authn).Post("/{id}/reviews", reviewHandler.Create)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/user/{userId}", reviewHandler.ListByUser)

			r.Group(func(r chi.Router) {
				r.Use(authn)

				r.Get("/user/me/reviews", reviewHandler.ListMine)
				r.Put("/{id}", reviewHandler.Update)
				r.Delete("/{id}", reviewHandler.Delete)
				r.Post("/{id}/helpful", reviewHandler.MarkHelpful)
			})
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Use(authn)

			r.Get("/", favoriteHandler.List)
			r.Get("/{dealId}", favoriteHandler.Check)
			r.Post("/{dealId}", favoriteHandler.Add)
			r.Delete("/{dealId}", favoriteHandler.Remove)
		})

		// {key} is an ID or a slug for reads and an ID for admin writes.
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.List)
			r.Get("/featured", categoryHandler.Featured)
			r.Get("/stats/overview", categoryHandler.Stats)
			r.Get("/{key}", categoryHandler.Get)

			r.With(authn, admin).Post("/", categoryHandler.Create)
			r.With(authn, admin).Put("/{key}", categoryHandler.Update)
			r.With(authn, admin).Delete("/{key}", categoryHandler.Delete)
		})
	})

	return r
}
