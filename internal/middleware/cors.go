package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// corsMaxAge is the preflight cache lifetime in seconds.
const corsMaxAge = 86400

// CORS allows cross-origin calls from allowedOrigins only. With no origins
// configured, no CORS headers are added and browsers refuse cross-origin
// responses.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodPost, http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Accept", RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader, "Retry-After"},
		AllowCredentials: false,
		MaxAge:           corsMaxAge,
	}
	if len(allowedOrigins) == 0 {
		// An empty list means "any origin" to the cors package.
		opts.AllowOriginFunc = func(*http.Request, string) bool { return false }
	}
	return cors.Handler(opts)
}
