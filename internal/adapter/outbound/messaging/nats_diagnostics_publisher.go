package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"upstreamproxy/internal/application/common/retry"
	"upstreamproxy/internal/application/common/slogger"
	"upstreamproxy/internal/application/diagnostics"
	"upstreamproxy/internal/config"

	"github.com/nats-io/nats.go"
)

// NATS connection timeout.
const natsConnectionTimeoutSeconds = 5

// Publisher is the subset of *nats.Conn the diagnostics publisher needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// PublisherMetrics tracks diagnostic publishing outcomes.
type PublisherMetrics struct {
	PublishedCount int64 `json:"published_count"`
	FailedCount    int64 `json:"failed_count"`
}

// NATSDiagnosticsPublisher publishes every diagnostic record to a NATS subject as JSON.
// Core NATS publishing only buffers the message in the client, so Emit never waits on
// the network.
type NATSDiagnosticsPublisher struct {
	subject   string
	publisher Publisher
	conn      *nats.Conn
	published atomic.Int64
	failed    atomic.Int64
}

// NewNATSDiagnosticsPublisher connects to NATS and returns a publisher for cfg.Subject.
func NewNATSDiagnosticsPublisher(cfg config.NATSConfig) (*NATSDiagnosticsPublisher, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	opts := []nats.Option{
		nats.Name("upstreamproxy-diagnostics"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(natsConnectionTimeoutSeconds * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slogger.WarnNoCtx("NATS diagnostics connection lost", slogger.Fields{"error": err.Error()})
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slogger.InfoNoCtx("NATS diagnostics connection restored", slogger.Fields{"url": c.ConnectedUrl()})
		}),
		nats.ErrorHandler(logAsyncError),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, err
	}

	p := NewNATSDiagnosticsPublisherWithConn(cfg.Subject, conn)
	p.conn = conn
	return p, nil
}

// ConnectNATSDiagnosticsPublisher is NewNATSDiagnosticsPublisher retried under policy while
// no server is reachable.
func ConnectNATSDiagnosticsPublisher(
	ctx context.Context,
	cfg config.NATSConfig,
	policy retry.Policy,
) (*NATSDiagnosticsPublisher, error) {
	var publisher *NATSDiagnosticsPublisher
	err := retry.NewExecutor(policy, IsTransientConnectError).Execute(ctx, func(context.Context) error {
		p, err := NewNATSDiagnosticsPublisher(cfg)
		if err != nil {
			return err
		}
		publisher = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return publisher, nil
}

// IsTransientConnectError reports whether a failed connection attempt may succeed later.
func IsTransientConnectError(err error) bool {
	return errors.Is(err, nats.ErrNoServers) || errors.Is(err, nats.ErrTimeout) || retry.IsTransient(err)
}

// logAsyncError logs errors the client reports outside of a call, such as a slow consumer
// or a permissions violation on publish.
func logAsyncError(_ *nats.Conn, sub *nats.Subscription, err error) {
	fields := slogger.Fields{"error": err.Error()}
	if sub != nil {
		fields["subject"] = sub.Subject
	}
	slogger.ErrorNoCtx("NATS diagnostics async error", fields)
}

// NewNATSDiagnosticsPublisherWithConn returns a publisher sending through an existing connection.
func NewNATSDiagnosticsPublisherWithConn(subject string, publisher Publisher) *NATSDiagnosticsPublisher {
	return &NATSDiagnosticsPublisher{subject: subject, publisher: publisher}
}

func validateConfig(cfg config.NATSConfig) error {
	if cfg.URL == "" {
		return errors.New("NATS URL cannot be empty")
	}
	if !strings.HasPrefix(cfg.URL, "nats://") {
		return errors.New("invalid NATS URL scheme")
	}
	if cfg.Subject == "" {
		return errors.New("NATS subject cannot be empty")
	}
	if cfg.ReconnectWait < 0 {
		return errors.New("reconnect wait cannot be negative")
	}
	return nil
}

// Emit publishes rec. Failures are logged and counted, never returned.
func (n *NATSDiagnosticsPublisher) Emit(ctx context.Context, rec diagnostics.Record) {
	data, err := json.Marshal(rec)
	if err == nil {
		err = n.publisher.Publish(n.subject, data)
	}
	if err != nil {
		n.failed.Add(1)
		slogger.Warn(ctx, "Failed to publish diagnostic record", slogger.Fields{
			"subject": n.subject,
			"error":   err.Error(),
		})
		return
	}
	n.published.Add(1)
}

// Metrics returns the publishing counters.
func (n *NATSDiagnosticsPublisher) Metrics() PublisherMetrics {
	return PublisherMetrics{
		PublishedCount: n.published.Load(),
		FailedCount:    n.failed.Load(),
	}
}

// Close flushes buffered records and closes the connection it owns.
func (n *NATSDiagnosticsPublisher) Close() error {
	if n.conn == nil {
		return nil
	}
	err := n.conn.Drain()
	n.conn = nil
	return err
}

var _ diagnostics.Emitter = (*NATSDiagnosticsPublisher)(nil)
