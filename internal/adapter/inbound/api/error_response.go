package api

import (
	"net/http"

	"upstreamproxy/internal/application/classify"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
	Variant string `json:"variant"`
}

// NewErrorResponse builds the envelope for a classification.
func NewErrorResponse(c classify.Classification) ErrorResponse {
	return ErrorResponse{Message: c.Message, Variant: string(c.Variant)}
}

// WriteError writes the envelope for c with c's status.
func WriteError(w http.ResponseWriter, c classify.Classification) error {
	status := c.Status
	if status < http.StatusBadRequest || status > 599 {
		status = http.StatusInternalServerError
	}
	return WriteJSON(w, status, NewErrorResponse(c))
}
