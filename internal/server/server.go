// Package server exposes the assistant over a small JSON API: chat turns,
// session resume, session listing, health/readiness probes, and Prometheus
// metrics. The server is started by the `cskin serve` CLI command.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cskinhq/cskin-go/internal/assistant"
	"github.com/cskinhq/cskin-go/internal/logging"
)

// New constructs a Server fronting the given chatter. sessions may be nil
// when no listable history backend is configured.
func New(chat chatter, sessions sessionLister, cfg *Config) (*Server, error) {
	if chat == nil {
		return nil, fmt.Errorf("server: chatter must not be nil")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		// Generation against a cold local model can take a while.
		cfg.WriteTimeout = 2 * time.Minute
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.RateBurst == 0 {
		cfg.RateBurst = defaultRateBurst
	}
	log := cfg.Logger
	if log == nil {
		log = logging.New()
	}
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	s := &Server{
		chat:     chat,
		sessions: sessions,
		cfg:      cfg,
		log:      log,
		pingers:  cfg.Pingers,
		metrics:  newServerMetrics(registry),
	}

	if cfg.APIKey == "" {
		log.Warn("server: CSKIN_API_KEY not set — API authentication is disabled")
	}

	rl, stopRL := newRateLimiter(cfg.RateLimit, cfg.RateBurst, log)
	s.stopRL = stopRL

	mux := http.NewServeMux()
	mux.Handle("POST /api/chat", s.instrument("chat", s.handleChat))
	mux.Handle("POST /api/resume", s.instrument("resume", s.handleResume))
	mux.Handle("GET /api/sessions", s.instrument("sessions", s.handleSessions))
	mux.Handle("GET /api/health", s.instrument("health", s.handleHealth))
	mux.Handle("GET /api/ready", s.instrument("ready", s.handleReady))
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	handler := requestLogger(log, authMiddleware(cfg.APIKey, rl.middleware(mux)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s, nil
}

// Start begins listening and serving HTTP requests. It blocks until the
// context is cancelled, then performs a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.log.Info("server: listening", slog.String("addr", "http://"+s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.stopRL()
		return fmt.Errorf("server: listen error: %w", err)
	case <-ctx.Done():
		s.stopRL()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: graceful shutdown failed: %w", err)
		}
		return nil
	}
}

// handleChat handles POST /api/chat: run one consultation turn and return
// the typed outcome. Pipeline failures are embedded in the outcome, so the
// HTTP status is 200 whenever the request itself was well-formed.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		http.Error(w, "sessionId is required", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	s.metrics.chatActive.Inc()
	start := time.Now()

	out := s.chat.Handle(r.Context(), req.SessionID, req.Message)

	elapsed := time.Since(start)
	s.metrics.chatActive.Dec()
	s.metrics.chatRequestsTotal.WithLabelValues(string(out.Kind)).Inc()
	s.metrics.chatDurationSeconds.WithLabelValues(string(out.Kind)).Observe(elapsed.Seconds())

	s.writeJSON(w, r, http.StatusOK, chatResponse{
		Reply:   out.Reply,
		Outcome: string(out.Kind),
	})
}

// handleResume handles POST /api/resume: replay the assistant's prior
// replies, or greet a reset session.
func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	var req resumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	replies, reset, err := s.chat.Resume(r.Context(), req.SessionID)
	if err != nil {
		logging.FromContext(r.Context()).Error("server: resume failed", slog.String("error", err.Error()))
		http.Error(w, "could not restore session", http.StatusInternalServerError)
		return
	}

	resp := resumeResponse{Reset: reset, Messages: replies}
	if reset {
		resp.Welcome = assistant.WelcomeBackReply
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}

// handleSessions handles GET /api/sessions.
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	resp := sessionsResponse{Sessions: []sessionInfo{}}

	if s.sessions != nil {
		infos, err := s.sessions.Sessions(r.Context())
		if err != nil {
			logging.FromContext(r.Context()).Error("server: session listing failed", slog.String("error", err.Error()))
			http.Error(w, "could not list sessions", http.StatusInternalServerError)
			return
		}
		for _, info := range infos {
			resp.Sessions = append(resp.Sessions, sessionInfo{ID: info.ID, Turns: info.Turns})
		}
	}

	s.writeJSON(w, r, http.StatusOK, resp)
}

// handleHealth handles GET /api/health for liveness checks.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON encodes v with the given status, logging encode failures.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("server: response encode failed", slog.String("error", err.Error()))
	}
}

// instrument wraps a handler with per-endpoint request count and latency
// metrics, labeled by the logical handler name rather than the raw path.
func (s *Server) instrument(name string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		h(rw, r)
		elapsed := time.Since(start)

		s.metrics.httpRequestsTotal.WithLabelValues(r.Method, name, fmt.Sprintf("%d", rw.status)).Inc()
		s.metrics.httpDurationSeconds.WithLabelValues(r.Method, name).Observe(elapsed.Seconds())
	})
}
