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
}

// NewRouteRegistry creates a new RouteRegistry
func NewRouteRegistry() *RouteRegistry {
	return &RouteRegistry{
		routes:   make(map[string]http.Handler),
		patterns: make([]string, 0),
		mux:      http.NewServeMux(),
	}
}

// RegisterAPIRoutes registers all API routes with their handlers
func (r *RouteRegistry) RegisterAPIRoutes(
	healthHandler *HealthHandler,
	checkHandler *CheckHandler,
	settingsHandler *SettingsHandler,
) {
	if err := r.RegisterRoute("GET /health", http.HandlerFunc(healthHandler.GetHealth)); err != nil {
		panic(fmt.Errorf("failed to register health route: %w", err))
	}
	if err := r.RegisterRoute("POST /check", http.HandlerFunc(checkHandler.CheckPrompt)); err != nil {
		panic(fmt.Errorf("failed to register check route: %w", err))
	}
	if err := r.RegisterRoute("POST /settings/search", http.HandlerFunc(settingsHandler.Search)); err != nil {
		panic(fmt.Errorf("failed to register settings search route: %w", err))
	}
}

// RegisterRoute registers a single route with the given pattern and handler
func (r *RouteRegistry) RegisterRoute(pattern string, handler http.Handler) error {
	if err := r.validatePattern(pattern); err != nil {
		return err
	}

	if _, exists := r.routes[pattern]; exists {
		return fmt.Errorf("route conflict: pattern '%s' is already registered", pattern)
	}

	r.mux.Handle(pattern, handler)
	r.routes[pattern] = handler
	r.patterns = append(r.patterns, pattern)

	return nil
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
	return r.patterns
}

//nolint:gochecknoglobals // Static method set.
var validMethods = map[string]bool{
	http.MethodGet: true, http.MethodPost: true, http.MethodPut: true, http.MethodDelete: true,
	http.MethodPatch: true, http.MethodHead: true, http.MethodOptions: true,
}

// validatePattern checks that pattern has the form "METHOD /path".
func (r *RouteRegistry) validatePattern(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return fmt.Errorf("route pattern cannot be empty")
	}

	parts := strings.SplitN(pattern, " ", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid route pattern '%s': must have format 'METHOD /path' (e.g., 'GET /users')", pattern)
	}

	method, path := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if !validMethods[strings.ToUpper(method)] {
		return fmt.Errorf("invalid HTTP method '%s' in pattern '%s'", method, pattern)
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("path '%s' in pattern '%s' must start with '/'", path, pattern)
	}
	if strings.Contains(path, "//") {
		return fmt.Errorf("path '%s' in pattern '%s' contains double slashes", path, pattern)
	}

	return nil
}
