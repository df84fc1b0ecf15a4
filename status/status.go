// Package status serves a small read-only HTTP API describing the running
// assistant.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"coco-assistant/history"
	"coco-assistant/scheduler"
	"coco-assistant/session"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type SessionSource interface {
	Snapshot() session.Snapshot
}

type TaskSource interface {
	Pending() []scheduler.Task
}

type HistorySource interface {
	Recent(ctx context.Context, limit int) ([]history.Interaction, error)
	Ping(ctx context.Context) error
}

type Config struct {
	Addr    string
	Session SessionSource
	Tasks   TaskSource
	// History is optional; without it /history returns 404.
	History HistorySource
	Logger  *slog.Logger
	Now     func() time.Time
}

type Server struct {
	cfg     Config
	log     *slog.Logger
	started time.Time
	router  chi.Router
}

type statusResponse struct {
	Session      session.Snapshot `json:"session"`
	PendingTasks []scheduler.Task `json:"pending_tasks"`
	Uptime       string           `json:"uptime"`
}

func New(cfg *Config) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Session == nil {
		return nil, fmt.Errorf("session is nil")
	}

	if cfg.Tasks == nil {
		return nil, fmt.Errorf("tasks is nil")
	}

	s := &Server{cfg: *cfg, log: cfg.Logger}

	if s.log == nil {
		s.log = slog.Default()
	}

	if s.cfg.Now == nil {
		s.cfg.Now = time.Now
	}

	s.started = s.cfg.Now()

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/health", s.health)
	r.Get("/status", s.status)
	r.Get("/history", s.history)
	r.Handle("/metrics", promhttp.Handler())

	s.router = r

	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		s.log.Info("status server listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if s.cfg.History != nil {
		if err := s.cfg.History.Ping(r.Context()); err != nil {
			s.log.Warn("history database unhealthy", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "error": err.Error()})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Session:      s.cfg.Session.Snapshot(),
		PendingTasks: s.cfg.Tasks.Pending(),
		Uptime:       s.cfg.Now().Sub(s.started).Truncate(time.Second).String(),
	})
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	if s.cfg.History == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	items, err := s.cfg.History.Recent(r.Context(), limit)
	if err != nil {
		s.log.Error("failed to read history", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read history")
		return
	}

	if items == nil {
		items = []history.Interaction{}
	}

	writeJSON(w, http.StatusOK, items)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
