package api

import (
	"net/http"

	"upstreamproxy/internal/domain/failure"
	"upstreamproxy/internal/port/outbound"
)

// CreateSessionQuery is the query string of the create-session endpoint.
type CreateSessionQuery struct {
	Owner string `query:"owner"`
}

// SessionHandler serves the active session.
type SessionHandler struct {
	store outbound.SessionStore
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(store outbound.SessionStore) *SessionHandler {
	return &SessionHandler{store: store}
}

// GetSession handles GET /v1/session. It runs behind RequireSession.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) error {
	s, ok := SessionFromContext(r.Context())
	if !ok {
		s, ok = h.store.CurrentSession(r.Context())
	}
	if !ok {
		return &failure.NoSessionError{}
	}
	return WriteJSON(w, http.StatusOK, s)
}

// CreateSession handles POST /v1/session?owner=<urn>.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) error {
	var q CreateSessionQuery
	if err := BindQuery(r, &q); err != nil {
		return err
	}

	s, err := h.store.CreateSession(r.Context(), q.Owner)
	if err != nil {
		return err
	}
	return WriteJSON(w, http.StatusCreated, s)
}
