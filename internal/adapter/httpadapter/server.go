package httpadapter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/covid19-tracker-bot/internal/bot"
)

const maxCommandBytes = 4 << 10

// CommandHandler answers chat command text.
type CommandHandler interface {
	Handle(ctx context.Context, text string) (bot.Command, string, error)
}

// Server exposes health, readiness, metrics and command HTTP endpoints.
type Server struct {
	httpServer *http.Server
	commands   CommandHandler
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and
// POST /commands routes. A nil commands handler leaves /commands unrouted.
func NewServer(addr string, ready sharedobs.ReadinessChecker, commands CommandHandler, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		commands: commands,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	if commands != nil {
		mux.HandleFunc("POST /commands", s.handleCommand)
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleCommand takes a plain-text command such as "/comparemohfw site" and
// responds with the report text.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCommandBytes))
	if err != nil {
		sharedobs.WriteJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "command too large"})
		return
	}

	cmd, text, err := s.commands.Handle(r.Context(), strings.TrimSpace(string(body)))
	if errors.Is(err, bot.ErrNotACommand) {
		sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "expected a /command"})
		return
	}
	if err != nil {
		s.logger.Error("command failed", "error", err)
		sharedobs.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	s.logger.Info("command answered", "command", cmd.Name, "transport", "http")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Command", cmd.Name)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, text)
}
