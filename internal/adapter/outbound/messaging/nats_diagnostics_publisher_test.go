package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"upstreamproxy/internal/application/common/logging/loggingtest"
	"upstreamproxy/internal/application/common/retry"
	"upstreamproxy/internal/application/common/slogger"
	"upstreamproxy/internal/application/diagnostics"
	"upstreamproxy/internal/config"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu       sync.Mutex
	subjects []string
	payloads [][]byte
	err      error
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return nil
}

func TestNewNATSDiagnosticsPublisher_ValidatesConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.NATSConfig
		wantErr string
	}{
		{name: "empty url", cfg: config.NATSConfig{Subject: "s"}, wantErr: "NATS URL cannot be empty"},
		{name: "wrong scheme", cfg: config.NATSConfig{URL: "http://nats:4222", Subject: "s"}, wantErr: "invalid NATS URL scheme"},
		{name: "empty subject", cfg: config.NATSConfig{URL: "nats://nats:4222"}, wantErr: "NATS subject cannot be empty"},
		{
			name:    "negative reconnect wait",
			cfg:     config.NATSConfig{URL: "nats://nats:4222", Subject: "s", ReconnectWait: -time.Second},
			wantErr: "reconnect wait cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewNATSDiagnosticsPublisher(tt.cfg)
			require.EqualError(t, err, tt.wantErr)
			assert.Nil(t, p)
		})
	}
}

func TestNATSDiagnosticsPublisher_EmitPublishesJSON(t *testing.T) {
	fake := &fakePublisher{}
	p := NewNATSDiagnosticsPublisherWithConn("upstream.diagnostics.failures", fake)

	rec := diagnostics.Record{
		Time:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		RequestID: "req-7",
		Method:    "GET",
		Path:      "/v1/session",
		Status:    400,
		Variant:   "SESSION_IN_USE",
		Message:   "the current session is in use by `rad:git:abc`",
		Error:     "the current session is in use by `rad:git:abc`",
	}
	p.Emit(context.Background(), rec)

	require.Len(t, fake.payloads, 1)
	assert.Equal(t, "upstream.diagnostics.failures", fake.subjects[0])

	var got diagnostics.Record
	require.NoError(t, json.Unmarshal(fake.payloads[0], &got))
	assert.Equal(t, rec, got)
	assert.Equal(t, PublisherMetrics{PublishedCount: 1}, p.Metrics())
}

func TestNATSDiagnosticsPublisher_EmitSwallowsPublishErrors(t *testing.T) {
	rec := loggingtest.NewRecorder()
	slogger.SetGlobalLogger(rec)

	p := NewNATSDiagnosticsPublisherWithConn("failures", &fakePublisher{err: errors.New("nats: connection closed")})

	assert.NotPanics(t, func() {
		p.Emit(context.Background(), diagnostics.Record{Variant: "INTERNAL_ERROR"})
	})

	assert.Equal(t, PublisherMetrics{FailedCount: 1}, p.Metrics())
	warns := rec.EntriesAt("WARN")
	require.Len(t, warns, 1)
	assert.Equal(t, "nats: connection closed", warns[0].Fields["error"])
}

func TestNATSDiagnosticsPublisher_CloseWithoutOwnedConnection(t *testing.T) {
	p := NewNATSDiagnosticsPublisherWithConn("failures", &fakePublisher{})
	assert.NoError(t, p.Close())
}

func TestIsTransientConnectError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"no servers", nats.ErrNoServers, true},
		{"timeout", fmt.Errorf("connect: %w", nats.ErrTimeout), true},
		{"authorization", nats.ErrAuthorization, false},
		{"plain", errors.New("invalid NATS URL scheme"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransientConnectError(tt.err))
		})
	}
}

func TestConnectNATSDiagnosticsPublisher_InvalidConfigIsNotRetried(t *testing.T) {
	start := time.Now()

	_, err := ConnectNATSDiagnosticsPublisher(context.Background(), config.NATSConfig{
		URL:     "localhost:4222",
		Subject: "upstream.diagnostics.failures",
	}, retry.Policy{MaxRetries: 5, InitialDelay: time.Second})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid NATS URL scheme")
	assert.Less(t, time.Since(start), time.Second)
}

func TestLogAsyncError(t *testing.T) {
	rec := loggingtest.NewRecorder()
	slogger.SetGlobalLogger(rec)

	logAsyncError(nil, nil, nats.ErrPermissionViolation)
	logAsyncError(nil, &nats.Subscription{Subject: "diagnostics.failures"}, nats.ErrSlowConsumer)

	errs := rec.EntriesAt("ERROR")
	require.Len(t, errs, 2)
	assert.Equal(t, "NATS diagnostics async error", errs[0].Message)
	assert.Equal(t, nats.ErrPermissionViolation.Error(), errs[0].Fields["error"])
	assert.NotContains(t, errs[0].Fields, "subject")
	assert.Equal(t, "diagnostics.failures", errs[1].Fields["subject"])
}
