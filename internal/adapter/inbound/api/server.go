// Package api exposes the bracket checker and settings search over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"promptcheck/internal/application/common/logging"
	"promptcheck/internal/config"
	"promptcheck/internal/port/inbound"
)

var errPanic = errors.New("handler panicked")

// Server represents the HTTP API server
type Server struct {
	config          *config.Config
	httpServer      *http.Server
	routeRegistry   *RouteRegistry
	listener        net.Listener
	isRunning       bool
	mu              sync.RWMutex
	middlewareCount int
}

// ServerBuilder provides a fluent interface for building Server instances
type ServerBuilder struct {
	config          *config.Config
	healthService   inbound.HealthService
	checkService    inbound.PromptCheckService
	settingsService inbound.SettingsSearchService
	errorHandler    ErrorHandler
	logger          logging.ApplicationLogger
	middleware      []MiddlewareFunc
}

// MiddlewareFunc defines the middleware function signature
type MiddlewareFunc func(http.Handler) http.Handler

// NewServerBuilder creates a new ServerBuilder
func NewServerBuilder(config *config.Config) *ServerBuilder {
	return &ServerBuilder{
		config:     config,
		middleware: make([]MiddlewareFunc, 0),
	}
}

// WithHealthService sets the health service
func (b *ServerBuilder) WithHealthService(service inbound.HealthService) *ServerBuilder {
	b.healthService = service
	return b
}

// WithCheckService sets the prompt check service
func (b *ServerBuilder) WithCheckService(service inbound.PromptCheckService) *ServerBuilder {
	b.checkService = service
	return b
}

// WithSettingsService sets the settings search service
func (b *ServerBuilder) WithSettingsService(service inbound.SettingsSearchService) *ServerBuilder {
	b.settingsService = service
	return b
}

// WithErrorHandler sets the error handler
func (b *ServerBuilder) WithErrorHandler(handler ErrorHandler) *ServerBuilder {
	b.errorHandler = handler
	return b
}

// WithLogger sets the logger used by the default middleware
func (b *ServerBuilder) WithLogger(logger logging.ApplicationLogger) *ServerBuilder {
	b.logger = logger
	return b
}

// WithMiddleware adds middleware to the chain
func (b *ServerBuilder) WithMiddleware(middleware MiddlewareFunc) *ServerBuilder {
	b.middleware = append(b.middleware, middleware)
	return b
}

// WithDefaultMiddleware adds the standard middleware chain. Request logging
// is skipped when api.enable_logging is false.
func (b *ServerBuilder) WithDefaultMiddleware() *ServerBuilder {
	logger := b.logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	b.WithMiddleware(NewRecoveryMiddleware(logger))
	if b.config == nil || b.config.API.LoggingEnabled() {
		b.WithMiddleware(NewLoggingMiddleware(logger))
	}
	return b.WithMiddleware(NewCORSMiddleware())
}

// Build creates the Server instance
func (b *ServerBuilder) Build() (*Server, error) {
	if err := b.validate(); err != nil {
		return nil, fmt.Errorf("server builder validation failed: %w", err)
	}

	if err := validateServerConfig(b.config); err != nil {
		return nil, err
	}

	registry := NewRouteRegistry()
	registry.RegisterAPIRoutes(
		NewHealthHandler(b.healthService, b.errorHandler),
		NewCheckHandler(b.checkService, b.errorHandler),
		NewSettingsHandler(b.settingsService, b.errorHandler),
	)

	// Apply middleware chain in reverse so the first added runs outermost.
	var handler http.Handler = registry.BuildServeMux()
	for i := len(b.middleware) - 1; i >= 0; i-- {
		handler = b.middleware[i](handler)
	}

	return &Server{
		config:          b.config,
		httpServer:      b.createHTTPServer(handler),
		routeRegistry:   registry,
		middlewareCount: len(b.middleware),
	}, nil
}

// validate ensures all required dependencies are set
func (b *ServerBuilder) validate() error {
	if b.config == nil {
		return errors.New("config is required")
	}
	if b.healthService == nil {
		return errors.New("health service is required")
	}
	if b.checkService == nil {
		return errors.New("check service is required")
	}
	if b.settingsService == nil {
		return errors.New("settings service is required")
	}
	if b.errorHandler == nil {
		return errors.New("error handler is required")
	}
	return nil
}

func (b *ServerBuilder) createHTTPServer(handler http.Handler) *http.Server {
	host := b.config.API.Host
	if host == "" {
		host = config.DefaultAPIHost
	}

	return &http.Server{
		Addr:              net.JoinHostPort(host, b.config.API.Port),
		Handler:           handler,
		ReadTimeout:       b.config.API.ReadTimeout,
		ReadHeaderTimeout: b.config.API.ReadTimeout,
		WriteTimeout:      b.config.API.WriteTimeout,
	}
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return errors.New("server is already running")
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	s.listener = listener
	s.httpServer.Addr = listener.Addr().String()
	s.isRunning = true

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.isRunning = false
	return s.httpServer.Shutdown(ctx)
}

// Address returns the server's listening address
func (s *Server) Address() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.httpServer.Addr
}

// Handler returns the root handler including middleware
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ReadTimeout returns the server's read timeout
func (s *Server) ReadTimeout() time.Duration {
	return s.config.API.ReadTimeout
}

// WriteTimeout returns the server's write timeout
func (s *Server) WriteTimeout() time.Duration {
	return s.config.API.WriteTimeout
}

// IsRunning returns whether the server is currently running
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// MiddlewareCount returns the number of registered middleware
func (s *Server) MiddlewareCount() int {
	return s.middlewareCount
}

// HasRoute checks if a specific route is registered
func (s *Server) HasRoute(pattern string) bool {
	return s.routeRegistry.HasRoute(pattern)
}

// RouteCount returns the number of registered routes
func (s *Server) RouteCount() int {
	return s.routeRegistry.RouteCount()
}

// validateServerConfig validates the server configuration
func validateServerConfig(config *config.Config) error {
	if config.API.Port != "" && config.API.Port != "0" {
		if port, err := strconv.Atoi(config.API.Port); err != nil || port < 0 || port > 65535 {
			return errors.New("invalid port")
		}
	}

	if config.API.ReadTimeout < 0 || config.API.WriteTimeout < 0 {
		return errors.New("invalid timeout")
	}

	return nil
}
