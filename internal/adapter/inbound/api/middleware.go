package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"upstreamproxy/internal/application/common/logging"
	"upstreamproxy/internal/application/common/slogger"
	"upstreamproxy/internal/domain/failure"
	"upstreamproxy/internal/port/outbound"

	"github.com/google/uuid"
)

// MiddlewareFunc defines the middleware function signature
type MiddlewareFunc func(http.Handler) http.Handler

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// NewLoggingMiddleware assigns every request an id and logs it once it completes.
func NewLoggingMiddleware() MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			r = r.WithContext(logging.WithRequestID(r.Context(), requestID))
			w.Header().Set(RequestIDHeader, requestID)

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			fields := slogger.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      wrapped.statusCode,
				"duration_ms": time.Since(start).Milliseconds(),
				"user_agent":  r.Header.Get("User-Agent"),
			}
			if r.URL.RawQuery != "" {
				fields["query"] = r.URL.RawQuery
			}
			slogger.Info(r.Context(), "HTTP request completed", fields)
		})
	}
}

// NewCORSMiddleware adds CORS headers and answers preflight requests.
func NewCORSMiddleware() MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

			allowedHeaders := "Content-Type, Authorization"
			if requestedHeaders := r.Header.Get("Access-Control-Request-Headers"); requestedHeaders != "" {
				allowedHeaders += ", " + requestedHeaders
			}
			w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Max-Age", "86400")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// NewPanicRecoveryMiddleware answers requests whose handler panicked with the
// envelope of an opaque internal failure.
func NewPanicRecoveryMiddleware(rc *Recovery) MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if p == http.ErrAbortHandler {
					panic(p)
				}
				slogger.Error(r.Context(), "Panic recovered in HTTP handler", slogger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
					"panic":  fmt.Sprint(p),
				})
				rc.Recover(w, r, fmt.Errorf("panic: %v", p))
			}()

			next.ServeHTTP(w, r)
		})
	}
}

type sessionKey struct{}

// SessionFromContext returns the session attached by RequireSession.
func SessionFromContext(ctx context.Context) (outbound.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(outbound.Session)
	return s, ok
}

// RequireSession rejects requests made while no session exists with a NoSessionError.
func RequireSession(provider outbound.SessionProvider, rc *Recovery) MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := provider.CurrentSession(r.Context())
			if !ok {
				rc.Recover(w, r, &failure.NoSessionError{})
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, s)))
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
