package api

import (
	"net/http"
	"time"

	"upstreamproxy/internal/version"
)

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthHandler serves the liveness endpoint.
type HealthHandler struct{}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// GetHealth handles GET /health.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, _ *http.Request) error {
	return WriteJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   version.GetVersion().Version,
		Timestamp: time.Now().UTC(),
	})
}
