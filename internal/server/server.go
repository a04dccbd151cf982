// Package server exposes the identification pipeline over HTTP.
//
// Routes:
//
//	POST /v1/identify    run id, gz or z2 on an inline graph
//	POST /v1/districts   districts, consolidated districts and SCCs
//	POST /v1/apt-order   an apt-order, or a check of a supplied order
//	GET  /healthz        liveness and build information
//	GET  /metrics        Prometheus metrics
//
// Every response carries an X-Request-ID header, taken from the request when
// the client supplied one. Errors are JSON bodies whose code comes from
// pkg/errors and whose status follows [y0errors.HTTPStatus].
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Aryan-Seth/y0/pkg/observability"
	"github.com/Aryan-Seth/y0/pkg/pipeline"
)

const (
	// maxBodyBytes caps request bodies.
	maxBodyBytes = 1 << 20

	shutdownTimeout = 10 * time.Second
)

// Server routes API requests to a pipeline runner.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	gatherer prometheus.Gatherer
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithGatherer sets the source for /metrics. The default is
// prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// New builds a server around runner.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:   runner,
		logger:   log.Default(),
		gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", observability.Handler(s.gatherer))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/identify", s.handleIdentify)
		r.Post("/districts", s.handleDistricts)
		r.Post("/apt-order", s.handleAptOrder)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
