// Package api exposes the solver over HTTP.
//
// The surface is small: submit a graph for solving, fetch or delete a
// persisted verdict, and the usual health and version probes. Solves run
// synchronously in the request handler; the graphs the solver accepts are
// bounded, so a request is at worst a few seconds of CPU.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pursuitlab/copnumber/pkg/config"
	"github.com/pursuitlab/copnumber/pkg/solver"
	"github.com/pursuitlab/copnumber/pkg/store"
)

const shutdownTimeout = 5 * time.Second

// Server hosts the solver API.
type Server struct {
	httpServer *http.Server
	router     chi.Router
	store      store.Store
	solverCfg  config.SolverConfig
	logger     *log.Logger
}

// New assembles the server. The store holds solved verdicts so repeated
// submissions of the same graph return without re-solving.
func New(addr string, cfg config.Config, st store.Store, logger *log.Logger) *Server {
	s := &Server{
		store:     st,
		solverCfg: cfg.Solver,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
		r.Get("/results/{key}", s.handleGetResult)
		r.Delete("/results/{key}", s.handleDeleteResult)
	})

	s.router = r
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the routing tree, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting api server", "addr", s.httpServer.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("stopping api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// requestLogger logs one line per request with the chi request ID.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func (s *Server) solveOptions() solver.Options {
	return solver.Options{
		Workers:        s.solverCfg.Workers,
		BatchSize:      s.solverCfg.BatchSize,
		LowMemory:      s.solverCfg.LowMemory,
		CSRBudgetBytes: s.solverCfg.CSRBudgetBytes,
		Logger:         s.logger,
	}
}
