// Package http is the JSON API boundary. Handlers speak primitives and JSON
// only; all domain rules live in the services.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/log"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
	"fintrack/internal/session"
)

type Server struct {
	http.Server

	auth         *services.AuthService
	categories   *services.CategoryService
	transactions *services.TransactionService
	goals        *services.GoalService
	reports      *services.ReportService
	sessions     *session.Manager

	rateLimiter *rateLimiter
	tracer      *trace.Middleware
	logger      *log.Logger

	// reportCache holds rendered report bodies keyed
	// "reports:<userID>:<kind>:<window>". Ledger writes drop the user's
	// whole prefix.
	reportCache *cache.LRUCache[json.RawMessage]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(
	addr string,
	auth *services.AuthService,
	categories *services.CategoryService,
	transactions *services.TransactionService,
	goals *services.GoalService,
	reports *services.ReportService,
	sessions *session.Manager,
	logger *log.Logger,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		auth:             auth,
		categories:       categories,
		transactions:     transactions,
		goals:            goals,
		reports:          reports,
		sessions:         sessions,
		rateLimiter:      newRateLimiter(),
		tracer:           trace.NewMiddleware(extractClientIP),
		logger:           logger.WithComponent(log.ComponentHTTP),
		reportCache:      cache.NewLRUCache[json.RawMessage](200, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/register", s.guard(s.handleRegister))
	mux.HandleFunc("POST /api/login", s.guard(s.handleLogin))
	mux.HandleFunc("POST /api/logout", s.guard(s.handleLogout))

	mux.HandleFunc("GET /api/categories", s.guard(s.withUser(s.handleListCategories)))

	mux.HandleFunc("POST /api/transactions", s.guard(s.withUser(s.handleCreateTransaction)))
	mux.HandleFunc("GET /api/transactions", s.guard(s.withUser(s.handleListTransactions)))
	mux.HandleFunc("GET /api/transactions/{id}", s.guard(s.withUser(s.handleGetTransaction)))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.guard(s.withUser(s.handleDeleteTransaction)))
	mux.HandleFunc("POST /api/transactions/bulk-delete", s.guard(s.withUser(s.handleBulkDeleteTransactions)))

	mux.HandleFunc("POST /api/goals", s.guard(s.withUser(s.handleCreateGoal)))
	mux.HandleFunc("GET /api/goals", s.guard(s.withUser(s.handleListGoals)))
	mux.HandleFunc("GET /api/goals/{id}", s.guard(s.withUser(s.handleGetGoal)))
	mux.HandleFunc("DELETE /api/goals/{id}", s.guard(s.withUser(s.handleDeleteGoal)))
	mux.HandleFunc("POST /api/goals/{id}/progress", s.guard(s.withUser(s.handleGoalProgress)))
	mux.HandleFunc("POST /api/goals/{id}/complete", s.guard(s.withUser(s.handleGoalComplete)))
	mux.HandleFunc("POST /api/goals/{id}/reactivate", s.guard(s.withUser(s.handleGoalReactivate)))
	mux.HandleFunc("GET /api/goals/{id}/percentage", s.guard(s.withUser(s.handleGoalPercentage)))

	mux.HandleFunc("GET /api/reports/daily", s.guard(s.withUser(s.handleDailyReport)))
	mux.HandleFunc("GET /api/reports/weekly", s.guard(s.withUser(s.handleWeeklyReport)))
	mux.HandleFunc("GET /api/reports/monthly", s.guard(s.withUser(s.handleMonthlyReport)))

	return s
}

// guard applies rate limiting and security headers, then hands off to the
// trace middleware.
func (s *Server) guard(next http.HandlerFunc) http.HandlerFunc {
	traced := s.tracer.Middleware(next)
	return func(w http.ResponseWriter, r *http.Request) {
		clientIP := extractClientIP(r)

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(r.Context(), "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		securityHeaders(w)
		traced.ServeHTTP(w, r)
	}
}

// withUser rejects requests without an active session and passes the user ID
// through.
func (s *Server) withUser(next func(http.ResponseWriter, *http.Request, int64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := s.sessions.UserID()
		if userID == 0 {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "not logged in"})
			return
		}
		next(w, r, userID)
	}
}

// invalidateReports drops every cached report for the user after a ledger
// write.
func (s *Server) invalidateReports(userID int64) {
	if n := s.reportCache.DeletePrefix(reportCachePrefix(userID)); n > 0 {
		s.logger.Debug("Invalidated report cache", log.FieldUserID, userID, "entries", n)
	}
}

func reportCachePrefix(userID int64) string {
	return fmt.Sprintf("reports:%d:", userID)
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.reportCache.CleanExpired(); cleaned > 0 {
				s.logger.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops the cleanup goroutines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
