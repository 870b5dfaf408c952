package api

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"upstreamproxy/internal/application/diagnostics"

	"github.com/stretchr/testify/require"
)

type recordingEmitter struct {
	mu      sync.Mutex
	records []diagnostics.Record
}

func (e *recordingEmitter) Emit(_ context.Context, rec diagnostics.Record) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.records = append(e.records, rec)
}

func (e *recordingEmitter) Records() []diagnostics.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]diagnostics.Record(nil), e.records...)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
