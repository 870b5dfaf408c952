package api

import (
	"net/http"

	"upstreamproxy/internal/port/outbound"
)

// BlobQuery is the query string of the blob endpoint.
type BlobQuery struct {
	Path     string  `query:"path"`
	Revision *string `query:"revision"`
}

// SourceHandler serves repository contents of projects.
type SourceHandler struct {
	browser outbound.SourceBrowser
}

// NewSourceHandler creates a new SourceHandler.
func NewSourceHandler(browser outbound.SourceBrowser) *SourceHandler {
	return &SourceHandler{browser: browser}
}

// ListBranches handles GET /v1/source/branches/{project}.
func (h *SourceHandler) ListBranches(w http.ResponseWriter, r *http.Request) error {
	branches, err := h.browser.Branches(r.Context(), r.PathValue("project"))
	if err != nil {
		return err
	}
	return WriteJSON(w, http.StatusOK, branches)
}

// GetBlob handles GET /v1/source/blob/{project}?path=<path>[&revision=<rev>].
func (h *SourceHandler) GetBlob(w http.ResponseWriter, r *http.Request) error {
	var q BlobQuery
	if err := BindQuery(r, &q); err != nil {
		return err
	}

	revision := ""
	if q.Revision != nil {
		revision = *q.Revision
	}

	blob, err := h.browser.Blob(r.Context(), r.PathValue("project"), revision, q.Path)
	if err != nil {
		return err
	}
	return WriteJSON(w, http.StatusOK, blob)
}
