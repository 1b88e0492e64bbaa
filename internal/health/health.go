// Package health содержит health check сервер.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server представляет health check сервер
type Server struct {
	server   *http.Server
	checkers map[string]Checker
	ready    func() bool
	logger   *zap.Logger
}

// NewServer создает новый health check сервер. gatherer может быть nil,
// тогда /metrics не регистрируется.
func NewServer(addr string, logger *zap.Logger, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		checkers: make(map[string]Checker),
		ready:    func() bool { return true },
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// Регистрируем маршруты
	r.Get("/health", s.healthHandler)
	r.Get("/ready", s.readyHandler)
	r.Get("/live", s.liveHandler)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	s.server = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// AddChecker регистрирует проверку компонента
func (s *Server) AddChecker(name string, checker Checker) {
	s.checkers[name] = checker
}

// SetReadiness задает функцию готовности к приему обновлений
func (s *Server) SetReadiness(ready func() bool) {
	s.ready = ready
}

// Handler возвращает HTTP обработчик сервера
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start запускает health check сервер и блокируется до остановки
func (s *Server) Start() error {
	s.logger.Info("Starting health check server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop останавливает health check сервер
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping health check server")
	return s.server.Shutdown(ctx)
}

type statusResponse struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Components map[string]string `json:"components,omitempty"`
}

// healthHandler обрабатывает запросы /health
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{Status: "healthy", Components: make(map[string]string)}
	code := http.StatusOK

	for name, checker := range s.checkers {
		if err := checker.Check(r.Context()); err != nil {
			resp.Status = "unhealthy"
			resp.Components[name] = err.Error()
			code = http.StatusServiceUnavailable
			s.logger.Error("Health check failed", zap.String("component", name), zap.Error(err))
			continue
		}
		resp.Components[name] = "ok"
	}

	s.writeJSON(w, code, resp)
}

// readyHandler обрабатывает запросы /ready
func (s *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	if !s.ready() {
		s.writeJSON(w, http.StatusServiceUnavailable, statusResponse{Status: "not ready"})
		return
	}
	s.writeJSON(w, http.StatusOK, statusResponse{Status: "ready"})
}

// liveHandler обрабатывает запросы /live
func (s *Server) liveHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, statusResponse{Status: "alive"})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, resp statusResponse) {
	resp.Timestamp = time.Now().Format(time.RFC3339)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("Failed to write health response", zap.Error(err))
	}
}
