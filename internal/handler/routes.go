package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ugmi/ugmi/internal/metrics"
	"github.com/ugmi/ugmi/internal/middleware"
	"github.com/ugmi/ugmi/internal/pipeline"
)

// RouterDeps are the collaborators NewRouter wires together.
type RouterDeps struct {
	Logger   *slog.Logger
	API      *Handler
	Health   *HealthHandler
	Tokens   pipeline.TokenVerifier
	Recorder metrics.Recorder
	// Metrics serves /metrics when non-nil.
	Metrics   http.Handler
	RateLimit middleware.RateLimitConfig
	Security  middleware.SecurityConfig
	// CORSOrigins lists origins allowed to call the API from browsers.
	CORSOrigins        []string
	MaxRequestBodySize int64
}

// NewRouter builds the chi router with global middleware and all routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.Security(deps.Security))
	r.Use(middleware.MaxBodySize(deps.MaxRequestBodySize))
	r.Use(middleware.CORS(deps.CORSOrigins))

	if deps.Health != nil {
		r.Get("/healthz", deps.Health.Healthz)
		r.Get("/readyz", deps.Health.Readyz)
	}
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	requireToken := pipeline.RequireToken(deps.Tokens, deps.Logger, deps.Recorder)
	h := deps.API

	r.Route("/api", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.With(middleware.RateLimitIP(deps.RateLimit, "register")).
				Method(http.MethodPost, "/register", pipeline.Handler(h.Register,
					pipeline.Shape(
						pipeline.String("username"),
						pipeline.String("name"),
						pipeline.String("email"),
						pipeline.String("password"),
					),
				))

			r.Method(http.MethodPost, "/info", pipeline.Handler(h.Info,
				pipeline.Shape(pipeline.String("username")),
				requireToken,
			))

			r.With(middleware.RateLimitIP(deps.RateLimit, "login")).
				Method(http.MethodPost, "/login", pipeline.Handler(h.Login,
					pipeline.Shape(
						pipeline.String("username"),
						pipeline.String("password"),
					),
				))
		})

		r.Route("/comment", func(r chi.Router) {
			r.Method(http.MethodPost, "/add", pipeline.Handler(h.AddComment,
				pipeline.Shape(
					pipeline.Int("stars"),
					pipeline.String("body"),
					pipeline.Int("mark_id"),
				),
				requireToken,
			))

			r.Method(http.MethodPost, "/get", pipeline.Handler(h.GetComments,
				pipeline.Shape(
					pipeline.Int("mark_id"),
					pipeline.Int("start"),
					pipeline.Int("cnt"),
				),
			))
		})
	})

	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	return r
}
