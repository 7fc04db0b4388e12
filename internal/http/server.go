// Package http exposes the expense store and analytics as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"outlay/internal/middleware/trace"
	"outlay/internal/services"
)

type Server struct {
	http.Server
	svc *services.ExpenseService
	now func() time.Time

	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// Option customizes a Server.
type Option func(*Server)

// WithClock overrides the time source used for windowing, bucketing, and the
// budget month. Tests pin it; production uses time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, svc *services.ExpenseService, opts ...Option) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server:      http.Server{Addr: addr},
		svc:         svc,
		now:         time.Now,
		rateLimiter: newRateLimiter(),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/api/expenses", s.guard(s.handleExpenses))
	mux.HandleFunc("/api/expenses/", s.guard(s.handleExpenseByID))
	mux.HandleFunc("/api/categories", s.guard(s.handleCategories))
	mux.HandleFunc("/api/analytics/summary", s.guard(s.handleAnalyticsSummary))
	mux.HandleFunc("/api/analytics/series", s.guard(s.handleAnalyticsSeries))
	mux.HandleFunc("/api/analytics/categories", s.guard(s.handleAnalyticsCategories))
	mux.HandleFunc("/api/budget", s.guard(s.handleBudget))

	tracer := trace.NewMiddleware(extractClientIP)
	s.Handler = tracer.Wrap(mux)
	return s
}

// Shutdown stops the rate limiter's cleanup goroutine and then drains the
// HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// guard applies rate limiting to mutating requests and sets the common
// response headers.
func (s *Server) guard(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if isMutating(r.Method) && !s.rateLimiter.allow(extractClientIP(r)) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		next(w, r)
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// extractClientIP resolves the client address, preferring proxy headers.
func extractClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
