// Package httpserver exposes the publishing pipeline over HTTP: the
// generation endpoint, the OAuth legs, publish dispatch, drafts, scheduling,
// and the event stream.
package httpserver

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dinoai/omnicast/internal/config"
	"github.com/dinoai/omnicast/internal/domain"
	"github.com/dinoai/omnicast/internal/events"
	"github.com/dinoai/omnicast/internal/linkedin"
)

// Server is the HTTP server brokering generation and publish calls.
type Server struct {
	cfg      *config.Config
	gen      domain.Generator
	registry *domain.Registry
	auth     *linkedin.SessionManager
	drafts   domain.DraftRepository
	schedule domain.ScheduleRepository
	hub      *events.Hub
	store    *composerStore
	logger   *slog.Logger

	httpServer *http.Server
}

// NewServer wires the handler surface. drafts, schedule, auth, and hub may
// be nil in reduced setups (tests); the corresponding endpoints then report
// failure without panicking.
func NewServer(
	cfg *config.Config,
	gen domain.Generator,
	registry *domain.Registry,
	auth *linkedin.SessionManager,
	drafts domain.DraftRepository,
	schedule domain.ScheduleRepository,
	hub *events.Hub,
	logger *slog.Logger,
) *Server {
	s := &Server{
		cfg:      cfg,
		gen:      gen,
		registry: registry,
		auth:     auth,
		drafts:   drafts,
		schedule: schedule,
		hub:      hub,
		store:    newComposerStore(),
		logger:   logger,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      withLogging(logger, s.withCORS(s.routes())),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/ai/generate", s.handleGenerate)

	mux.HandleFunc("GET /auth/linkedin", s.handleAuthStart)
	mux.HandleFunc("GET /auth/linkedin/callback", s.handleAuthCallback)
	mux.HandleFunc("POST /api/linkedin/post", s.handleLinkedInPost)

	mux.HandleFunc("POST /api/publish", s.handlePublish)

	mux.HandleFunc("GET /api/drafts", s.handleListDrafts)
	mux.HandleFunc("POST /api/drafts", s.handleCreateDraft)
	mux.HandleFunc("DELETE /api/drafts/{id}", s.handleDeleteDraft)

	mux.HandleFunc("POST /api/schedule", s.handleCreateSchedule)

	mux.HandleFunc("POST /api/compose", s.handleComposeCreate)
	mux.HandleFunc("GET /api/compose/{id}", s.handleComposeGet)
	mux.HandleFunc("DELETE /api/compose/{id}", s.handleComposeDelete)
	mux.HandleFunc("POST /api/compose/{id}/update", s.handleComposeUpdate)
	mux.HandleFunc("POST /api/compose/{id}/assist", s.handleComposeAssist)
	mux.HandleFunc("POST /api/compose/{id}/publish", s.handleComposePublish)
	mux.HandleFunc("POST /api/compose/{id}/connect", s.handleComposeConnect)

	if s.hub != nil {
		mux.HandleFunc("GET /api/events", s.hub.Handler())
	}

	mux.HandleFunc("GET /health", s.handleHealth)

	return mux
}

// Start begins listening for HTTP requests. It blocks until the server is
// shut down or an error occurs.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the full middleware-wrapped handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// withCORS restricts browser access to the configured origins. Non-browser
// requests (no Origin header) pass through untouched.
func (s *Server) withCORS(next http.Handler) http.Handler {
	allowed := make(map[string]bool)
	for _, o := range s.cfg.Origins() {
		allowed[o] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AllowedOrigin reports whether a websocket upgrade from origin is allowed.
func (s *Server) AllowedOrigin(origin string) bool {
	for _, o := range s.cfg.Origins() {
		if o == origin {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func withLogging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration", time.Since(start),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Hijack passes through to the underlying writer so the websocket upgrade
// works behind the logging middleware.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}
