// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz     liveness probe
//	POST /v1/layout   graph document -> layout JSON
//	POST /v1/render   graph document -> artifact (?format=svg|png|pdf|dot|json)
//	GET  /v1/stats    pipeline, cache and request counters
//
// Every response carries an X-Request-ID header. Requests beyond the
// configured rate receive 429 with code RATE_LIMITED. Errors are JSON bodies
// {code, message, request_id} with the status derived from the code.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/matzehuels/harmonic/pkg/observability"
	"github.com/matzehuels/harmonic/pkg/pipeline"
)

// Defaults applied by New for zero Config fields.
const (
	DefaultAddr            = ":8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultRequestTimeout  = 30 * time.Second

	// DefaultMaxNodes bounds the dense N×N system a request may build
	// (about 200 MB of float64 at the limit).
	DefaultMaxNodes = 5000
)

// Config configures a Server.
type Config struct {
	Addr string

	// RateLimit is the sustained request rate per second across all
	// clients. Zero disables limiting.
	RateLimit float64
	Burst     int

	MaxBodyBytes   int64
	RequestTimeout time.Duration

	// MaxNodes rejects documents whose node count exceeds it before any
	// matrix is allocated. Zero selects DefaultMaxNodes.
	MaxNodes int

	Runner   *pipeline.Runner
	Counters *observability.Counters
	Logger   *log.Logger
}

// Server is the HTTP API.
type Server struct {
	cfg     Config
	runner  *pipeline.Runner
	stats   *observability.Counters
	limiter *rate.Limiter
	logger  *log.Logger
	router  chi.Router
}

// New creates a server. A nil Runner gets an uncached runner.
//
// Counters is what /v1/stats reports. It only sees events once registered
// with observability.SetPipelineHooks, SetCacheHooks and SetHTTPHooks,
// which the serve command does at startup.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxNodes <= 0 {
		cfg.MaxNodes = DefaultMaxNodes
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Counters == nil {
		cfg.Counters = observability.NewCounters()
	}

	s := &Server{
		cfg:    cfg,
		runner: cfg.Runner,
		stats:  cfg.Counters,
		logger: cfg.Logger,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleMethodNotAllowed)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
		r.Get("/stats", s.handleStats)
	})

	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on the configured address until ctx ends, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx ends.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
