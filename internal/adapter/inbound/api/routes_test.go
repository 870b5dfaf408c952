package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
}

func TestRouteRegistry_RegisterRoute(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		wantErr string
	}{
		{name: "valid", pattern: "GET /v1/session"},
		{name: "path parameter", pattern: "GET /v1/source/blob/{project}"},
		{name: "empty", pattern: "  ", wantErr: "cannot be empty"},
		{name: "no method", pattern: "/v1/session", wantErr: "must have format"},
		{name: "unknown method", pattern: "FETCH /v1/session", wantErr: "invalid HTTP method"},
		{name: "relative path", pattern: "GET v1/session", wantErr: "must start with '/'"},
		{name: "double slash", pattern: "GET /v1//session", wantErr: "double slashes"},
		{name: "unbalanced braces", pattern: "GET /v1/source/{project", wantErr: "unbalanced braces"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRouteRegistry().RegisterRoute(tt.pattern, okHandler())
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRouteRegistry_Duplicate(t *testing.T) {
	r := NewRouteRegistry()
	require.NoError(t, r.RegisterRoute("GET /health", okHandler()))

	err := r.RegisterRoute("GET /health", okHandler())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
	assert.Equal(t, 1, r.RouteCount())
	assert.Equal(t, []string{"GET /health"}, r.GetPatterns())
}

func TestRouteRegistry_Fallback(t *testing.T) {
	r := NewRouteRegistry()
	require.NoError(t, r.RegisterRoute("GET /health", okHandler()))
	r.SetFallback(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodPost, "/health", http.StatusNotFound},
		{http.MethodGet, "/v2/anything", http.StatusNotFound},
		{http.MethodPut, "/", http.StatusNotFound},
	}

	mux := r.BuildServeMux()
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.want, rec.Code, "%s %s", tt.method, tt.path)
	}

	assert.False(t, r.HasRoute("/"))
	assert.Panics(t, func() { r.SetFallback(okHandler()) })
}
