// internal/api/middleware.go
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/cors"

	"github.com/selfquiz/backend/internal/id"
	"github.com/selfquiz/backend/internal/metrics"
)

const requestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging assigns each request an ID (reusing a client-supplied
// X-Request-ID) and logs method, path, status and duration once the
// handler returns. rec may be nil.
func Logging(logger *slog.Logger, rec *metrics.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = id.NewRequestID()
			}
			w.Header().Set(requestIDHeader, requestID)
			ctx := id.WithRequestID(r.Context(), requestID)

			sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sr, r.WithContext(ctx))

			rec.HTTPRequest(r.Method, sr.status)
			logger.InfoContext(ctx, "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sr.status,
				"duration", time.Since(start),
			)
		})
	}
}

// CORS allows browser clients from the given origins.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	})
}
