package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"expense-api/internal/log"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestID returns the inbound X-Request-ID or a fresh UUID
func RequestID(r *http.Request) string {
	if id := r.Header.Get(RequestIDHeader); id != "" {
		return id
	}
	return uuid.NewString()
}

// LoggingMiddleware logs each HTTP request with a request-scoped logger.
// 4xx responses log at Warn and 5xx at Error.
func LoggingMiddleware(logger *log.Logger) func(http.Handler) http.Handler {
	httpLogger := logger.WithComponent(log.ComponentHTTP)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := RequestID(r)
			w.Header().Set(RequestIDHeader, requestID)

			reqLogger := logger.With(log.FieldRequestID, requestID)
			ctx := log.NewContext(r.Context(), reqLogger)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(ctx))

			level := slog.LevelInfo
			if rec.status >= 500 {
				level = slog.LevelError
			} else if rec.status >= 400 {
				level = slog.LevelWarn
			}

			fields := log.NewFields().
				WithRequestID(requestID).
				WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.UserAgent(), clientIP(r)).
				WithHTTPResponse(rec.status, time.Since(start).Milliseconds())
			httpLogger.Log(ctx, level, "HTTP request completed", fields.ToSlice()...)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
