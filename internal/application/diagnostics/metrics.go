package diagnostics

import (
	"context"
	"errors"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Metric and attribute names.
const (
	FailureCounterName = "http_failures_total"
	AttrStatus         = "status"
	AttrVariant        = "variant"
	AttrMethod         = "method"
)

// MetricsConfig holds configuration for failure metrics.
type MetricsConfig struct {
	ServiceName    string
	ServiceVersion string
}

// FailureMetrics counts failed requests by status and variant.
type FailureMetrics struct {
	failures metric.Int64Counter
}

// NewFailureMetrics creates FailureMetrics on a private SDK meter provider.
func NewFailureMetrics(config MetricsConfig) (*FailureMetrics, error) {
	provider, err := NewMeterProvider(config)
	if err != nil {
		return nil, err
	}
	return NewFailureMetricsWithProvider(provider)
}

// NewMeterProvider builds an SDK meter provider tagged with the service identity.
func NewMeterProvider(config MetricsConfig, readers ...sdkmetric.Reader) (*sdkmetric.MeterProvider, error) {
	if config.ServiceName == "" {
		return nil, errors.New("service name cannot be empty")
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", config.ServiceName),
			attribute.String("service.version", config.ServiceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}
	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, r := range readers {
		opts = append(opts, sdkmetric.WithReader(r))
	}
	return sdkmetric.NewMeterProvider(opts...), nil
}

// NewFailureMetricsWithProvider creates FailureMetrics on the given meter provider.
func NewFailureMetricsWithProvider(provider metric.MeterProvider) (*FailureMetrics, error) {
	if provider == nil {
		return nil, errors.New("meter provider cannot be nil")
	}

	meter := provider.Meter("upstreamproxy/diagnostics")
	failures, err := meter.Int64Counter(FailureCounterName,
		metric.WithDescription("Total number of requests answered with a failure envelope"),
	)
	if err != nil {
		return nil, err
	}

	return &FailureMetrics{failures: failures}, nil
}

func (m *FailureMetrics) Emit(ctx context.Context, rec Record) {
	m.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrStatus, strconv.Itoa(rec.Status)),
		attribute.String(AttrVariant, rec.Variant),
		attribute.String(AttrMethod, rec.Method),
	))
}
