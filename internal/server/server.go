package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	gqlruntime "github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tournevent/booking/internal/actor"
	"github.com/tournevent/booking/internal/graphql"
	"github.com/tournevent/booking/internal/telemetry"
	"github.com/tournevent/booking/pkg/booking"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const requestIDHeader = "X-Request-ID"

// Server is the HTTP server for the event booking service.
type Server struct {
	port       int
	playground bool
	store      booking.Store
	defaults   *actor.Default
	logger     *otelzap.Logger
	registry   *prometheus.Registry
	executor   *graphql.Executor
}

// Config holds server configuration.
type Config struct {
	Port              int
	PlaygroundEnabled bool
	SaltRounds        int
}

// New creates a new server instance.
func New(cfg Config, store booking.Store, defaults *actor.Default, logger *otelzap.Logger) (*Server, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := telemetry.NewMetrics(registry)

	resolver := graphql.NewResolver(store, defaults, cfg.SaltRounds, logger, metrics)
	executor, err := graphql.NewExecutor(resolver, logger)
	if err != nil {
		return nil, err
	}

	return &Server{
		port:       cfg.Port,
		playground: cfg.PlaygroundEnabled,
		store:      store,
		defaults:   defaults,
		logger:     logger,
		registry:   registry,
		executor:   executor,
	}, nil
}

// Handler returns the HTTP routes of the service.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(actor.Middleware(s.defaults))

	// Health check
	r.Get("/health", s.handleHealth)

	// Prometheus metrics
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	// GraphQL endpoint
	r.HandleFunc("/graphql", s.handleGraphQL)

	if s.playground {
		r.Handle("/", playground.Handler("Event Booking", "/graphql"))
	}
	return r
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Starting server", zap.Int("port", s.port), zap.Bool("playground", s.playground))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Ctx(r.Context()).Warn("Health check failed", zap.Error(err))
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeResponse(w, http.StatusMethodNotAllowed, &gqlruntime.Response{
			Errors: gqlerror.List{gqlerror.Errorf("method not allowed, use POST")},
		})
		return
	}

	var params gqlruntime.RawParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeResponse(w, http.StatusBadRequest, &gqlruntime.Response{
			Errors: gqlerror.List{gqlerror.Errorf("invalid JSON: %s", err.Error())},
		})
		return
	}

	ctx := r.Context()
	s.logger.Ctx(ctx).Debug("GraphQL request",
		zap.String("request_id", middleware.GetReqID(ctx)),
		zap.String("operation_name", params.OperationName),
	)

	resp := s.executor.Execute(ctx, &params)
	writeResponse(w, http.StatusOK, resp)
}

func writeResponse(w http.ResponseWriter, status int, resp *gqlruntime.Response) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// requestID keeps an incoming X-Request-ID or assigns a new one, and exposes
// it through middleware.GetReqID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Ctx(r.Context()).Debug("HTTP request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
