package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/example/calendar-copilot/internal/application"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "copilot_session"

// Middleware wraps an http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares to handler in declaration order: the first
// middleware in the list is the outermost wrapper.
func Chain(handler http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

// SessionValidator resolves a session token to a principal.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (application.Principal, error)
}

// RequireSession authenticates every request outside the public surface.
// The token is read from the session cookie or an Authorization bearer
// header; failures answer 401 without reaching the wrapped handler.
func RequireSession(validator SessionValidator, logger *slog.Logger) Middleware {
	resp := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if isPublicRoute(req) {
				next.ServeHTTP(w, req)
				return
			}

			token := sessionToken(req)
			if token == "" {
				resp.writeJSON(req.Context(), w, http.StatusUnauthorized, errorResponse{Message: "Unauthorized"})
				return
			}

			principal, err := validator.ValidateSession(req.Context(), token)
			if err != nil {
				resp.handleServiceError(req.Context(), w, err)
				return
			}

			ctx := ContextWithPrincipal(req.Context(), principal)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// isPublicRoute reports whether the route is reachable without a session.
func isPublicRoute(req *http.Request) bool {
	switch {
	case req.Method == http.MethodPost && req.URL.Path == "/api/auth/login":
		return true
	case req.Method == http.MethodPost && req.URL.Path == "/api/auth/register":
		return true
	case req.Method == http.MethodGet && req.URL.Path == "/api/templates":
		return true
	}
	return false
}

// sessionToken extracts the opaque token from the cookie or, failing that,
// from an Authorization bearer header.
func sessionToken(req *http.Request) string {
	if cookie, err := req.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authorization := req.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authorization, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

var requestCounter atomic.Uint64

// RequestLogger assigns each request a sequential id, stores a request-scoped
// logger in the context, and records the outcome with timing.
func RequestLogger(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			requestID := requestCounter.Add(1)
			requestLogger := logger.With(
				"request_id", requestID,
				"method", req.Method,
				"path", req.URL.Path,
			)

			ctx := ContextWithLogger(req.Context(), requestLogger)
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			start := time.Now()
			next.ServeHTTP(recorder, req.WithContext(ctx))

			requestLogger.InfoContext(ctx, "request completed",
				"status", recorder.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
