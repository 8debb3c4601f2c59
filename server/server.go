package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/tradeflowhq/tradeflow/logger"
	"github.com/tradeflowhq/tradeflow/observability"
	"github.com/tradeflowhq/tradeflow/server/endpoint"
	"github.com/tradeflowhq/tradeflow/server/middleware"
)

// Server is the HTTP server backed by Gin, with HTTP/2 cleartext support so
// reverse proxies can multiplex requests on a single port.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	mux        *http.ServeMux
	config     Config
	log        *logger.Logger
}

// New creates a new Server. No middleware is applied yet; call
// ApplyMiddleware after construction.
func New(cfg Config, log *logger.Logger) *Server {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	mux := http.NewServeMux()

	// Gin is the fallback handler on the root mux; extra http.Handlers can
	// be mounted beside it.
	mux.Handle("/", engine)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      wrapH2C(mux),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		engine:     engine,
		mux:        mux,
		config:     cfg,
		log:        log.WithComponent("server"),
	}
}

// wrapH2C enables HTTP/2 cleartext on the given handler.
func wrapH2C(h http.Handler) http.Handler {
	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          120 * time.Second,
	}
	return h2c.NewHandler(h, h2s)
}

// GinEngine returns the underlying Gin engine for route registration.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// Handler returns the full request handler including applied middleware.
// Useful for driving the server with httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Handle mounts an http.Handler at the given pattern on the root ServeMux,
// beside the Gin engine.
func (s *Server) Handle(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, handler)
	s.log.Debug("Handler mounted", map[string]any{"pattern": pattern})
}

// ApplyMiddleware wraps the server handler with the standard stack:
// recovery, request id, request logging, CORS, rate limiting, and body size
// limiting. Request metrics are recorded on the Gin engine when metrics is
// non-nil, so the route template is available as a label.
func (s *Server) ApplyMiddleware(metrics *observability.Metrics) {
	mws := []middleware.Middleware{
		middleware.Recovery(s.log),
		middleware.RequestID(),
		middleware.RequestLogger(s.log),
		middleware.CORS(&s.config.CORS),
	}
	if s.config.RateLimitPerMin > 0 {
		mws = append(mws, middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerMinute: s.config.RateLimitPerMin,
		}))
	}
	if s.config.MaxBodySize != "" {
		mws = append(mws, middleware.BodySizeLimit(s.config.MaxBodySize))
	}

	s.httpServer.Handler = wrapH2C(middleware.Chain(mws...)(s.mux))

	if metrics != nil {
		s.engine.Use(middleware.GinMetrics(metrics))
	}
}

// RegisterDefaultEndpoints registers the service banner and the standard
// /health, /info, and /metrics endpoints.
func (s *Server) RegisterDefaultEndpoints(serviceName, environment, description string, checker endpoint.HealthChecker) {
	s.engine.GET("/", endpoint.Root(serviceName, description))
	s.engine.GET("/health", endpoint.Health(serviceName, checker))
	s.engine.GET("/info", endpoint.Info(serviceName, environment))
	s.engine.GET("/metrics", endpoint.Metrics())
}

// Start binds the port and begins serving. It returns once the listener is
// bound so the caller knows the port is ready; serving continues in a
// goroutine.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("Starting HTTP server", map[string]any{"addr": s.httpServer.Addr})

	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("Server error", map[string]any{"error": err.Error()})
		}
	}()

	s.log.Info("HTTP server started", map[string]any{"addr": listener.Addr().String()})
	return nil
}

// Stop gracefully shuts down the server with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.log.Info("HTTP server shut down")
	return nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
