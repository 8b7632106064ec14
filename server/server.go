// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/poiesic/resumatch/core"
	"github.com/poiesic/resumatch/metrics"
)

// DefaultMaxUploadBytes bounds the size of one upload request.
const DefaultMaxUploadBytes = 50 << 20

// Service is the resume engine behind the HTTP API.
type Service interface {
	Ingest(ctx context.Context, dir string) (*core.IngestReport, error)
	Rank(ctx context.Context, jobText string) ([]core.MatchResult, error)
	Explain(ctx context.Context, identifier, jobText string) (*core.Analysis, error)
	Stats() core.Stats
}

// Config holds the server settings.
type Config struct {
	// ResumeDir receives uploaded files and is ingested after each upload.
	ResumeDir string

	// MaxUploadBytes bounds the body of an upload request.
	MaxUploadBytes int64

	// Extensions lists the accepted upload extensions, such as ".pdf".
	Extensions []string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server is the HTTP API over a Service.
type Server struct {
	service       Service
	config        Config
	logger        *slog.Logger
	router        chi.Router
	errorHandlers []errorHandler
}

// New creates a server. The resume directory is required.
func New(service Service, config Config, logger *slog.Logger) (*Server, error) {
	if service == nil {
		return nil, ErrServiceRequired
	}
	if config.ResumeDir == "" {
		return nil, ErrResumeDirRequired
	}
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if len(config.Extensions) == 0 {
		config.Extensions = []string{".pdf", ".docx"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		service: service,
		config:  config,
		logger:  logger.With("component", "server"),
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(core.ErrInvalidInput, http.StatusBadRequest, ""),
		sentinelHandler(core.ErrNoCandidates, http.StatusNotFound, "No resumes in database. Please upload resumes first."),
		sentinelHandler(core.ErrDocumentNotFound, http.StatusNotFound, "Resume not found"),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(metrics.Middleware())

	r.Route("/api", func(r chi.Router) {
		r.Post("/rank", s.Rank)
		r.Post("/analyze/{identifier}", s.Analyze)
		r.Post("/upload", s.Upload)
		r.Get("/stats", s.Stats)
	})
	r.Get("/metrics", s.Metrics)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Page not found")
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// within the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", addr)
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

	s.logger.Info("received shutdown signal")
	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("error during shutdown", "err", err)
		return err
	}
	s.logger.Info("server stopped gracefully")
	return <-errCh
}
