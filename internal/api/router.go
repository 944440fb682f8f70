package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/obilearn/obi/internal/api/handlers"
	"github.com/obilearn/obi/internal/api/middleware"
)

// Router wraps the HTTP multiplexer with middleware and handlers
type Router struct {
	mux      *http.ServeMux
	app      *App
	auth     *handlers.AuthHandler
	activity *handlers.ActivityHandler
	next     *handlers.NextActivityHandler
	progress *handlers.ProgressHandler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(app *App) http.Handler {
	r := &Router{
		mux: http.NewServeMux(),
		app: app,
	}

	r.auth = handlers.NewAuthHandler(app.Auth, !app.Config.Debug, app.Config.SessionMaxAge)
	r.activity = handlers.NewActivityHandler(app.Catalog, app.Completion)
	r.next = handlers.NewNextActivityHandler(app.Resolver)
	r.progress = handlers.NewProgressHandler(app.Stats)

	r.registerRoutes()

	return r.buildMiddlewareChain(r.mux)
}

func (r *Router) registerRoutes() {
	// Health check
	r.mux.HandleFunc("GET /health", r.handleHealth)
	r.mux.HandleFunc("GET /ready", r.handleReady)

	// Auth
	r.mux.HandleFunc("POST /api/v1/auth/register", r.auth.Register)
	r.mux.HandleFunc("POST /api/v1/auth/login", r.auth.Login)
	r.mux.HandleFunc("POST /api/v1/auth/logout", r.auth.Logout)
	r.mux.HandleFunc("GET /api/v1/auth/me", r.auth.Me)

	// Activities (public read; submissions carry their own auth status)
	r.mux.HandleFunc("GET /api/v1/activities/{id}", r.activity.Get)
	r.mux.Handle("POST /api/v1/activities/{id}/complete",
		r.submissionLimiter()(r.optionalAuth(r.activity.Complete)))

	// Next-activity resolution (anonymous allowed)
	r.mux.HandleFunc("GET /api/v1/next-activity", r.optionalAuth(r.next.Get))

	// Progress chart (requires auth)
	r.mux.HandleFunc("GET /api/v1/progress/chart", r.optionalAuth(r.progress.Chart))
}

func (r *Router) buildMiddlewareChain(handler http.Handler) http.Handler {
	// Apply middleware in reverse order (last applied = first executed)
	handler = middleware.Recovery(handler)
	handler = middleware.Logger(handler)

	// Skip rate limiting in debug mode for easier development
	if !r.app.Config.Debug {
		cfg := middleware.DefaultRateLimitConfig()
		if r.app.Config.RateLimitPerMinute > 0 {
			cfg.RequestsPerMinute = r.app.Config.RateLimitPerMinute
		}
		handler = middleware.RateLimitMiddleware(cfg)(handler)
	}

	handler = middleware.RequestID(handler)
	handler = middleware.CORS(handler)

	return handler
}

func (r *Router) submissionLimiter() func(http.Handler) http.Handler {
	if r.app.Config.Debug {
		return func(next http.Handler) http.Handler { return next }
	}
	return middleware.SubmissionRateLimitMiddleware(middleware.DefaultRateLimitConfig())
}

// optionalAuth resolves the session if one is presented and stores the
// learner in the request context. Requests without a valid session proceed
// anonymously; handlers that require auth check for the learner themselves.
func (r *Router) optionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		token := r.sessionToken(req)
		if token == "" {
			next(w, req)
			return
		}

		learner, _, err := r.app.Auth.ValidateSession(req.Context(), token)
		if err != nil {
			slog.Warn("invalid session",
				"error", err,
				"request_id", middleware.GetRequestID(req.Context()),
			)
			next(w, req)
			return
		}

		ctx := context.WithValue(req.Context(), handlers.ContextKeyLearner, learner)
		next(w, req.WithContext(ctx))
	}
}

// sessionToken reads the session cookie, falling back to a bearer token
func (r *Router) sessionToken(req *http.Request) string {
	if cookie, err := req.Cookie("session"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if header := req.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// Health check handlers
func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (r *Router) handleReady(w http.ResponseWriter, req *http.Request) {
	if r.app.Ping != nil {
		if err := r.app.Ping(req.Context()); err != nil {
			slog.Error("storage health check failed",
				"error", err,
				"request_id", middleware.GetRequestID(req.Context()),
			)
			WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "not ready",
				"checks": map[string]string{
					"storage": "unhealthy",
				},
			})
			return
		}
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
		"checks": map[string]string{
			"storage": "healthy",
		},
	})
}
