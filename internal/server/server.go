package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"lingokit/internal/config"
	"lingokit/internal/jobs"
	"lingokit/internal/logging"
	"lingokit/internal/media"
	"lingokit/internal/pipeline"
)

// Server is the HTTP API front end.
type Server struct {
	cfg        *config.Config
	store      *jobs.Store
	pipeline   *pipeline.Manager
	normalizer *media.Normalizer
	logger     *slog.Logger

	handler  http.Handler
	listener net.Listener
	server   *http.Server
}

// New wires the API routes. The pipeline manager supplies the engine registry
// for synchronous translation and gets woken on every submission.
func New(cfg *config.Config, store *jobs.Store, pl *pipeline.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	srv := &Server{
		cfg:        cfg,
		store:      store,
		pipeline:   pl,
		normalizer: media.NewNormalizer(cfg, logger),
		logger:     logging.NewComponentLogger(logger, "api-server"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", srv.handleHealth)
	mux.HandleFunc("/api/status", srv.requireKey(srv.handleStatus))
	mux.HandleFunc("/api/translate/audio", srv.requireKey(srv.handleSubmitAudio))
	mux.HandleFunc("/api/translate/video", srv.requireKey(srv.handleSubmitVideo))
	mux.HandleFunc("/api/translate/video-url", srv.requireKey(srv.handleSubmitVideoURL))
	mux.HandleFunc("/api/translate", srv.requireKey(srv.handleTranslateText))
	mux.HandleFunc("/api/jobs", srv.requireKey(srv.handleJobs))
	mux.HandleFunc("/api/jobs/", srv.requireKey(srv.handleJob))
	mux.HandleFunc("/api/keys", srv.requireKey(srv.handleKeys))
	mux.HandleFunc("/api/keys/", srv.requireKey(srv.handleKey))
	mux.HandleFunc("/api/vocab", srv.requireKey(srv.handleVocab))
	mux.HandleFunc("/api/workflows", srv.requireKey(srv.handleWorkflows))
	mux.HandleFunc("/api/accessibility/tts", srv.requireKey(srv.handleTTS))
	mux.HandleFunc("/api/accessibility/stt", srv.requireKey(srv.handleSTT))
	mux.Handle("/media/", srv.requireKey(srv.handleMedia().ServeHTTP))

	srv.handler = mux
	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Handler returns the routed handler (used by tests).
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins serving on the configured bind address. Serving stops when ctx
// is canceled.
func (s *Server) Start(ctx context.Context) error {
	bind := strings.TrimSpace(s.cfg.Paths.APIBind)
	if bind == "" {
		return errors.New("api bind address not configured")
	}
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down and closes the listener.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr returns the bound listen address, or empty before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
