package api

import (
	"fmt"
	"net/http"
	"strings"
)

// RouteRegistry manages HTTP route registration using Go 1.22+ ServeMux patterns
type RouteRegistry struct {
	routes   map[string]http.Handler
	patterns []string
	mux      *http.ServeMux
	fallback bool
}

// NewRouteRegistry creates a new RouteRegistry
func NewRouteRegistry() *RouteRegistry {
	return &RouteRegistry{
		routes: make(map[string]http.Handler),
		mux:    http.NewServeMux(),
	}
}

var validMethods = map[string]bool{
	http.MethodGet: true, http.MethodPost: true, http.MethodPut: true, http.MethodDelete: true,
	http.MethodPatch: true, http.MethodHead: true, http.MethodOptions: true,
}

// RegisterRoute registers handler for a "METHOD /path" pattern.
func (r *RouteRegistry) RegisterRoute(pattern string, handler http.Handler) error {
	if err := validatePattern(pattern); err != nil {
		return err
	}
	if _, exists := r.routes[pattern]; exists {
		return fmt.Errorf("route conflict detected: pattern '%s' is already registered", pattern)
	}

	r.mux.Handle(pattern, handler)
	r.routes[pattern] = handler
	r.patterns = append(r.patterns, pattern)
	return nil
}

// SetFallback registers the handler for every request no route matches, whatever its
// method or path.
func (r *RouteRegistry) SetFallback(handler http.Handler) {
	if r.fallback {
		panic("route registry: fallback registered twice")
	}
	r.mux.Handle("/", handler)
	r.fallback = true
}

// BuildServeMux returns the configured ServeMux
func (r *RouteRegistry) BuildServeMux() *http.ServeMux {
	return r.mux
}

// HasRoute checks if a route pattern is registered
func (r *RouteRegistry) HasRoute(pattern string) bool {
	_, exists := r.routes[pattern]
	return exists
}

// RouteCount returns the number of registered routes
func (r *RouteRegistry) RouteCount() int {
	return len(r.routes)
}

// GetPatterns returns all registered route patterns
func (r *RouteRegistry) GetPatterns() []string {
	return append([]string(nil), r.patterns...)
}

func validatePattern(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return fmt.Errorf("route pattern cannot be empty")
	}

	method, path, ok := strings.Cut(pattern, " ")
	if !ok {
		return fmt.Errorf("invalid route pattern '%s': must have format 'METHOD /path' (e.g., 'GET /users')", pattern)
	}
	method, path = strings.TrimSpace(method), strings.TrimSpace(path)

	if !validMethods[method] {
		return fmt.Errorf("invalid HTTP method '%s' in pattern '%s'", method, pattern)
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("path '%s' in pattern '%s' must start with '/'", path, pattern)
	}
	if strings.Contains(path, "//") {
		return fmt.Errorf("path '%s' in pattern '%s' contains double slashes", path, pattern)
	}
	if strings.Count(path, "{") != strings.Count(path, "}") {
		return fmt.Errorf("invalid parameter syntax in pattern '%s': unbalanced braces", pattern)
	}
	return nil
}
