package middleware

import (
	"net/http"
	"time"

	"loanapproval/pkg/logger"

	"github.com/gorilla/mux"
)

// HTTPObserver receives one observation per served request.
type HTTPObserver interface {
	ObserveHTTP(method, path string, status int, elapsed time.Duration)
}

// LoggingMiddleware logs every request and reports it to an optional observer.
type LoggingMiddleware struct {
	logger   logger.Logger
	observer HTTPObserver
}

// NewLoggingMiddleware constructs a LoggingMiddleware. observer may be nil.
func NewLoggingMiddleware(log logger.Logger, observer HTTPObserver) *LoggingMiddleware {
	return &LoggingMiddleware{logger: log, observer: observer}
}

func (m *LoggingMiddleware) Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		elapsed := time.Since(start)

		fields := map[string]interface{}{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      wrapped.statusCode,
			"duration_ms": elapsed.Milliseconds(),
			"ip":          r.RemoteAddr,
			"request_id":  RequestIDFromContext(r.Context()),
		}
		if wrapped.statusCode >= http.StatusInternalServerError {
			m.logger.Error("HTTP Request", fields)
		} else {
			m.logger.Info("HTTP Request", fields)
		}

		if m.observer != nil {
			m.observer.ObserveHTTP(r.Method, routeTemplate(r), wrapped.statusCode, elapsed)
		}
	})
}

// routeTemplate returns the matched mux route template, or "unmatched".
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
