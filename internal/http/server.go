// Package http exposes the budget engine over a JSON API.
package http

import (
	"context"
	"net/http"
	"time"

	"budgeteer/internal/core"
	"budgeteer/internal/log"
	"budgeteer/internal/service"
	"budgeteer/internal/state"
)

type Server struct {
	http.Server
	svc    *service.BudgetService
	app    *state.AppState
	logger *log.Logger
	now    func() time.Time
}

func NewServer(addr string, svc *service.BudgetService, app *state.AppState, logger *log.Logger) *Server {
	s := &Server{
		svc:    svc,
		app:    app,
		logger: logger.WithComponent(log.ComponentHTTP),
		now:    time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /v1/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /v1/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /v1/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /v1/goals", s.handleListGoals)
	mux.HandleFunc("POST /v1/goals", s.handleCreateGoal)
	mux.HandleFunc("DELETE /v1/goals/{id}", s.handleDeleteGoal)
	mux.HandleFunc("GET /v1/notifications", s.handleListNotifications)
	mux.HandleFunc("DELETE /v1/notifications/{id}", s.handleDeleteNotification)
	mux.HandleFunc("POST /v1/notifications/test", s.handleTestNotification)
	mux.HandleFunc("GET /v1/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /v1/settings", s.handleSaveSettings)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.withRequestLogging(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	s.logger.Info("http server listening", "addr", s.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.InfoContext(r.Context(), "request",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rec.status,
			log.FieldDuration, time.Since(start).Milliseconds())
	})
}

func (s *Server) identity() core.Identity {
	return s.app.Identity()
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
