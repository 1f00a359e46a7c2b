// Package server exposes resume reviews over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/spigell/resume-reviewer/internal/feedback"
)

const (
	defaultPort        = 8000
	defaultUploadDir   = "uploads"
	defaultMaxUploadMB = 10
	shutdownTimeout    = 10 * time.Second
)

// Config contains the HTTP server settings.
type Config struct {
	Port        int
	UploadDir   string
	SSLCert     string
	SSLKey      string
	MaxUploadMB int64
	// JobDescription is used for uploads that carry none.
	JobDescription string
}

// TLS reports whether both certificate and key are configured.
func (c Config) TLS() bool {
	return c.SSLCert != "" && c.SSLKey != ""
}

// Reviewer reviews a stored file.
type Reviewer interface {
	Review(ctx context.Context, path, jobDesc string) (*feedback.Result, error)
}

type Server struct {
	cfg      Config
	reviewer Reviewer
	logger   *zap.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

// New prepares the upload directory and returns a server ready to route requests.
func New(cfg Config, reviewer Reviewer, logger *zap.Logger) (*Server, error) {
	if reviewer == nil {
		return nil, errors.New("reviewer is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = defaultUploadDir
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = defaultMaxUploadMB
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir %q: %w", cfg.UploadDir, err)
	}

	return &Server{cfg: cfg, reviewer: reviewer, logger: logger}, nil
}

// Routes returns the router serving all endpoints.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/upload", s.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/uploads/{name}", s.handleStored).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(s.cfg.Port),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting the server",
			zap.String("addr", srv.Addr),
			zap.Bool("tls", s.cfg.TLS()),
			zap.String("upload_dir", s.cfg.UploadDir),
		)

		var err error
		if s.cfg.TLS() {
			err = srv.ListenAndServeTLS(s.cfg.SSLCert, s.cfg.SSLKey)
		} else {
			err = srv.ListenAndServe()
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Info("stopping the server", zap.String("reason", ctx.Err().Error()))
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		s.logger.Warn("encoding response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}
