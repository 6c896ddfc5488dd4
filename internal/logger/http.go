package logger

import (
	"log/slog"
	"net/http"
	"time"
)

// statusWriter captures the status code and byte count written by a handler.
// Handlers that never call WriteHeader are recorded as 200.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// AccessMiddleware logs one "http_access" line per request.
// Background: wraps the whole mux inside the rate limiter, so 429s from the
// limiter are not logged here; fields are method, path, status, bytes,
// duration_ms and the raw remote address.
// Constraints: server errors log at warn, everything else at debug, so
// LOG_LEVEL=info keeps only failures. Request bodies and query strings are
// never logged.
func AccessMiddleware(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(sw, r)
			lvl := slog.LevelDebug
			if sw.status >= http.StatusInternalServerError {
				lvl = slog.LevelWarn
			}
			l.Log(r.Context(), lvl, "http_access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"bytes", sw.bytes,
				"duration_ms", time.Since(start).Milliseconds(),
				"ip", r.RemoteAddr,
			)
		})
	}
}
