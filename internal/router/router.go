package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pinstack-dev/pinstack/internal/middleware/metrics"
	"github.com/pinstack-dev/pinstack/internal/setup"
)

// New configures the chi router with all routes. Reads are public (with
// optional identity); every mutating route requires authentication before the
// core is invoked.
func New(deps *setup.Dependencies) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{deps.Config.Public.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	// Stored image variants are served directly when the media base URL is a
	// local path. An absolute URL means a CDN or separate server fronts them.
	if base := deps.Config.Public.MediaBaseURL; strings.HasPrefix(base, "/") {
		prefix := strings.TrimSuffix(base, "/")
		fs := http.StripPrefix(prefix, http.FileServer(http.Dir(deps.Config.Public.MediaRoot)))
		r.Handle(prefix+"/*", fs)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)
		r.Post("/auth/logout", h.Logout)

		// Public reads
		r.Group(func(r chi.Router) {
			r.Use(authMw.OptionalAuth())
			r.Get("/pins", h.ListPins)
			r.Get("/pins/{pin}", h.GetPin)
			r.Get("/pins/{pin}/comments", h.ListComments)
			r.Get("/users/{username}", h.GetProfile)
			r.Get("/users/{user}/boards", h.ListBoards)
		})

		// Authenticated mutations
		r.Group(func(r chi.Router) {
			r.Use(authMw.NeedAuth())

			r.Post("/boards", h.CreateBoard)
			r.Delete("/boards/{board}", h.DeleteBoard)

			r.Post("/pins", h.CreatePin)
			r.Put("/pins/{pin}", h.UpdatePin)
			r.Delete("/pins/{pin}", h.DeletePin)

			r.Post("/pins/{pin}/comments", h.CreateComment)
			r.Delete("/comments/{comment}", h.DeleteComment)

			r.Put("/users/{user}", h.UpdateProfile)
			r.Delete("/users/{user}", h.DeleteUser)
			r.Post("/users/{user}/follow", h.Follow)
			r.Delete("/users/{user}/follow", h.Unfollow)
		})
	})

	return r
}
