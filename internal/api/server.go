// Package api serves rubric extraction, scoring and grade storage over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/abhisek/penilai/internal/config"
	"github.com/abhisek/penilai/internal/docimport"
	"github.com/abhisek/penilai/internal/grading"
	"github.com/abhisek/penilai/internal/rubric"
	"github.com/abhisek/penilai/internal/store"
)

// Server is the penilai HTTP API.
type Server struct {
	cfg      config.ServerConfig
	parser   *rubric.Parser
	importer *docimport.Importer
	docs     store.DocumentRepo
	rubrics  store.RubricRepo
	grades   store.GradeRepo
	grading  *grading.Service
	validate *requestValidator
	metrics  *metrics
	logger   *slog.Logger
	router   chi.Router
}

// New builds the server and its routes. A nil logger uses slog.Default.
func New(cfg config.ServerConfig, kw rubric.Keywords, st *store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		parser:   rubric.NewParser(kw),
		importer: docimport.NewImporter(),
		docs:     st.DocumentRepo(),
		rubrics:  st.RubricRepo(),
		grades:   st.GradeRepo(),
		grading:  grading.NewService(st.ScoreRepo(), st.GradeRepo(), logger),
		validate: newValidator(),
		metrics:  newMetrics(),
		logger:   logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, s.logRequests, middleware.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length", "X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(s.metrics.instrument)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/rubrics/extract", s.handleExtract)
		r.Post("/scores/final", s.handleFinalScore)

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", s.handleListDocuments)
			r.Post("/", s.handleCreateDocument)
			r.Get("/{id}", s.handleGetDocument)
			r.Get("/{id}/rubric", s.handleGetRubric)
		})

		r.Get("/grades", s.handleListGrades)
		r.Post("/grades", s.handleCreateGrades)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// ListenAndServe serves on cfg.Addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("api shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
