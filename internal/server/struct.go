package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cskinhq/cskin-go/internal/assistant"
	"github.com/cskinhq/cskin-go/internal/session"
)

// Config holds the HTTP server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1).
	Host string
	// Port is the TCP port to listen on (default: 8080).
	Port int
	// ReadTimeout is the maximum duration for reading the request.
	ReadTimeout time.Duration
	// WriteTimeout is the maximum duration for writing the response.
	WriteTimeout time.Duration
	// ShutdownTimeout is the maximum duration for a graceful shutdown.
	ShutdownTimeout time.Duration
	// Logger is the structured logger used by the server and its handlers.
	// If nil, [logging.New] is used.
	Logger *slog.Logger
	// Pingers is the ordered list of dependency probes run by GET /api/ready.
	// If empty, /api/ready returns 200 with no checks (liveness-only mode).
	Pingers []Pinger
	// RateLimit is the sustained request rate allowed per IP on rate-limited
	// endpoints (requests/second). Defaults to 10 if zero.
	RateLimit float64
	// RateBurst is the maximum instantaneous burst per IP. Defaults to 20 if zero.
	RateBurst int
	// APIKey is the Bearer token required on all protected /api/* routes.
	// If empty, authentication is disabled (development mode).
	APIKey string
	// Registry receives the server's Prometheus metrics and backs GET /metrics.
	// If nil a private registry is created, which keeps tests hermetic.
	Registry *prometheus.Registry
}

// chatter is the interface handleChat and handleResume call into.
// *assistant.Assistant satisfies it; tests inject a fake.
type chatter interface {
	// Handle runs one consultation turn and reports its typed outcome.
	Handle(ctx context.Context, sessionID, message string) assistant.Outcome
	// Resume returns the assistant's prior replies for the session, or
	// reset=true when the session was unusable and its history was cleared.
	Resume(ctx context.Context, sessionID string) ([]string, bool, error)
}

// sessionLister is the slice of the session store the sessions endpoint needs.
type sessionLister interface {
	Sessions(ctx context.Context) ([]session.Info, error)
}

// Server is the HTTP server that fronts the assistant.
type Server struct {
	// chat handles consultation turns and session resumes.
	chat chatter
	// sessions lists stored sessions for GET /api/sessions. May be nil, in
	// which case the endpoint reports an empty list.
	sessions sessionLister
	// cfg holds the resolved server configuration.
	cfg *Config
	// httpServer is the underlying net/http server.
	httpServer *http.Server
	// log is the structured logger for this server instance.
	log *slog.Logger
	// pingers is the ordered list of dependency probes for GET /api/ready.
	pingers []Pinger
	// metrics holds the server's Prometheus instruments.
	metrics *serverMetrics
	// stopRL stops the rate limiter's background eviction goroutine on shutdown.
	stopRL func()
}

// chatRequest is the JSON body for POST /api/chat.
type chatRequest struct {
	// SessionID identifies the consultation session.
	SessionID string `json:"sessionId"`
	// Message is the patient's question.
	Message string `json:"message"`
}

// chatResponse is the JSON response for POST /api/chat.
type chatResponse struct {
	// Reply is the user-presentable Indonesian text.
	Reply string `json:"reply"`
	// Outcome classifies the turn: answer, no_results, generation_failed,
	// or internal_error.
	Outcome string `json:"outcome"`
}

// resumeRequest is the JSON body for POST /api/resume.
type resumeRequest struct {
	// SessionID identifies the session to restore.
	SessionID string `json:"sessionId"`
}

// resumeResponse is the JSON response for POST /api/resume.
type resumeResponse struct {
	// Reset is true when the session was unusable and a fresh one started.
	Reset bool `json:"reset"`
	// Welcome carries the greeting shown after a reset.
	Welcome string `json:"welcome,omitempty"`
	// Messages holds the assistant's prior replies in order.
	Messages []string `json:"messages,omitempty"`
}

// sessionInfo is one entry of the GET /api/sessions response.
type sessionInfo struct {
	// ID is the session identifier.
	ID string `json:"id"`
	// Turns is the number of retained turns.
	Turns int `json:"turns"`
}

// sessionsResponse is the JSON response for GET /api/sessions.
type sessionsResponse struct {
	Sessions []sessionInfo `json:"sessions"`
}
