// Package middleware provides the HTTP middleware stack: request logging,
// CORS, and Prometheus instrumentation.  Request IDs and panic recovery come
// from chi's stock middleware.
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
)

// LoggingConfig tunes the request logging middleware.
type LoggingConfig struct {
	// SkipPaths are high-frequency paths that should not be logged.
	SkipPaths []string

	// SlowThreshold marks requests logged at Warn level.
	SlowThreshold time.Duration
}

// DefaultLoggingConfig skips health and metrics endpoints.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		SkipPaths:     []string{"/healthz", "/readyz", "/metrics"},
		SlowThreshold: 3 * time.Second,
	}
}

// statusWriter captures the status code and bytes written.
type statusWriter struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += int64(n)
	return n, err
}

// RequestLogging logs one line per request with method, path, status,
// duration, and the chi request id.
func RequestLogging(log logging.Logger, cfg LoggingConfig) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}
	log = log.Named("http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(sw, r)
			elapsed := time.Since(start)

			fields := []logging.Field{
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Int("status", sw.status),
				logging.Duration("duration", elapsed),
				logging.Int64("bytes", sw.bytes),
				logging.String("request_id", chimw.GetReqID(r.Context())),
			}

			switch {
			case sw.status >= 500:
				log.Error("request failed", fields...)
			case sw.status >= 400 || (cfg.SlowThreshold > 0 && elapsed > cfg.SlowThreshold):
				log.Warn("request completed", fields...)
			default:
				log.Info("request completed", fields...)
			}
		})
	}
}
