package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"upstreamproxy/internal/config"
	"upstreamproxy/internal/port/outbound"
)

// Server represents the HTTP API server
type Server struct {
	config        *config.Config
	httpServer    *http.Server
	routeRegistry *RouteRegistry
	listener      net.Listener
	isRunning     bool
	mu            sync.RWMutex
}

// ServerBuilder provides a fluent interface for building Server instances
type ServerBuilder struct {
	config     *config.Config
	recovery   *Recovery
	browser    outbound.SourceBrowser
	sessions   outbound.SessionStore
	middleware []MiddlewareFunc
}

// NewServerBuilder creates a new ServerBuilder
func NewServerBuilder(config *config.Config) *ServerBuilder {
	return &ServerBuilder{config: config}
}

// WithRecovery sets the failure recovery used by every route
func (b *ServerBuilder) WithRecovery(rc *Recovery) *ServerBuilder {
	b.recovery = rc
	return b
}

// WithSourceBrowser sets the repository browser behind the source routes
func (b *ServerBuilder) WithSourceBrowser(browser outbound.SourceBrowser) *ServerBuilder {
	b.browser = browser
	return b
}

// WithSessionStore sets the store behind the session routes
func (b *ServerBuilder) WithSessionStore(store outbound.SessionStore) *ServerBuilder {
	b.sessions = store
	return b
}

// WithMiddleware adds middleware to the chain
func (b *ServerBuilder) WithMiddleware(middleware MiddlewareFunc) *ServerBuilder {
	b.middleware = append(b.middleware, middleware)
	return b
}

// WithDefaultMiddleware adds the standard middleware chain. It needs the recovery, so
// call WithRecovery first.
func (b *ServerBuilder) WithDefaultMiddleware() *ServerBuilder {
	b.WithMiddleware(NewLoggingMiddleware())
	if b.config != nil && b.config.API.CORSEnabled() {
		b.WithMiddleware(NewCORSMiddleware())
	}
	return b.WithMiddleware(NewPanicRecoveryMiddleware(b.recovery))
}

// Build creates the Server instance
func (b *ServerBuilder) Build() (*Server, error) {
	if err := b.validate(); err != nil {
		return nil, fmt.Errorf("server builder validation failed: %w", err)
	}

	registry, err := b.registerRoutes()
	if err != nil {
		return nil, fmt.Errorf("failed to build server: %w", err)
	}

	var handler http.Handler = registry.BuildServeMux()
	for i := len(b.middleware) - 1; i >= 0; i-- {
		handler = b.middleware[i](handler)
	}

	return &Server{
		config: b.config,
		httpServer: &http.Server{
			Addr:         b.config.API.Address(),
			Handler:      handler,
			ReadTimeout:  b.config.API.ReadTimeout,
			WriteTimeout: b.config.API.WriteTimeout,
		},
		routeRegistry: registry,
	}, nil
}

func (b *ServerBuilder) validate() error {
	if b.config == nil {
		return errors.New("config is required")
	}
	if b.recovery == nil {
		return errors.New("recovery is required")
	}
	if b.browser == nil {
		return errors.New("source browser is required")
	}
	if b.sessions == nil {
		return errors.New("session store is required")
	}
	for _, m := range b.middleware {
		if m == nil {
			return errors.New("middleware cannot be nil")
		}
	}
	return nil
}

func (b *ServerBuilder) registerRoutes() (*RouteRegistry, error) {
	rc := b.recovery
	registry := NewRouteRegistry()

	health := NewHealthHandler()
	source := NewSourceHandler(b.browser)
	session := NewSessionHandler(b.sessions)

	routes := []struct {
		pattern string
		handler http.Handler
	}{
		{"GET /health", rc.Handle(health.GetHealth)},
		{"GET /v1/session", RequireSession(b.sessions, rc)(rc.Handle(session.GetSession))},
		{"POST /v1/session", rc.Handle(session.CreateSession)},
		{"GET /v1/source/branches/{project}", rc.Handle(source.ListBranches)},
		{"GET /v1/source/blob/{project}", rc.Handle(source.GetBlob)},
	}
	for _, route := range routes {
		if err := registry.RegisterRoute(route.pattern, route.handler); err != nil {
			return nil, err
		}
	}

	registry.SetFallback(rc.NotFound())
	return registry, nil
}

// Handler returns the root handler of the server, middleware included
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return errors.New("server is already running")
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
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
	return s.httpServer.Addr
}

// IsRunning returns whether the server is currently running
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// HasRoute checks if a specific route is registered
func (s *Server) HasRoute(pattern string) bool {
	return s.routeRegistry.HasRoute(pattern)
}

// RouteCount returns the number of registered routes
func (s *Server) RouteCount() int {
	return s.routeRegistry.RouteCount()
}
