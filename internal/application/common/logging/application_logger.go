// Package logging provides the structured application logger used across the proxy.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"
)

// ApplicationLogger defines the interface for structured application logging
type ApplicationLogger interface {
	Debug(ctx context.Context, message string, fields Fields)
	Info(ctx context.Context, message string, fields Fields)
	Warn(ctx context.Context, message string, fields Fields)
	Error(ctx context.Context, message string, fields Fields)
	ErrorWithError(ctx context.Context, err error, message string, fields Fields)
	WithComponent(component string) ApplicationLogger
}

// Fields represents structured logging fields
type Fields map[string]interface{}

// Config represents logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, text
	Output string // stdout, stderr
}

// Context keys for correlation ID management
type contextKey string

const (
	CorrelationIDKey contextKey = "correlation_id"
	RequestIDKey     contextKey = "request_id"
)

type applicationLogger struct {
	logger    *slog.Logger
	component string
}

// NewApplicationLogger creates a logger writing to the configured output.
func NewApplicationLogger(config Config) (ApplicationLogger, error) {
	var w io.Writer
	switch strings.ToLower(config.Output) {
	case "", "stdout":
		w = os.Stdout
	case "stderr":
		w = os.Stderr
	default:
		return nil, fmt.Errorf("invalid log output: %s", config.Output)
	}
	return NewApplicationLoggerWithWriter(config, w)
}

// NewApplicationLoggerWithWriter creates a logger writing to w. Output is ignored.
func NewApplicationLoggerWithWriter(config Config, w io.Writer) (ApplicationLogger, error) {
	level, err := ParseLevel(config.Level)
	if err != nil {
		return nil, err
	}

	var handler slog.Handler
	switch strings.ToLower(config.Format) {
	case "", "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case "text":
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.RFC3339,
		})
	default:
		return nil, fmt.Errorf("invalid log format: %s", config.Format)
	}

	return &applicationLogger{logger: slog.New(handler)}, nil
}

// ParseLevel maps a configured level name onto a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "", "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", level)
	}
}

func (l *applicationLogger) Debug(ctx context.Context, message string, fields Fields) {
	l.log(ctx, slog.LevelDebug, message, nil, fields)
}

func (l *applicationLogger) Info(ctx context.Context, message string, fields Fields) {
	l.log(ctx, slog.LevelInfo, message, nil, fields)
}

func (l *applicationLogger) Warn(ctx context.Context, message string, fields Fields) {
	l.log(ctx, slog.LevelWarn, message, nil, fields)
}

func (l *applicationLogger) Error(ctx context.Context, message string, fields Fields) {
	l.log(ctx, slog.LevelError, message, nil, fields)
}

func (l *applicationLogger) ErrorWithError(ctx context.Context, err error, message string, fields Fields) {
	l.log(ctx, slog.LevelError, message, err, fields)
}

func (l *applicationLogger) WithComponent(component string) ApplicationLogger {
	return &applicationLogger{logger: l.logger, component: component}
}

func (l *applicationLogger) log(ctx context.Context, level slog.Level, message string, err error, fields Fields) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.logger.Enabled(ctx, level) {
		return
	}

	attrs := make([]slog.Attr, 0, len(fields)+4)
	component := l.component
	if component == "" {
		component = "default"
	}
	attrs = append(attrs,
		slog.String("component", component),
		slog.String("correlation_id", getOrGenerateCorrelationID(ctx)),
	)
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		attrs = append(attrs, slog.String("request_id", requestID))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	if len(fields) > 0 {
		metadata := make([]any, 0, len(fields))
		for k, v := range fields {
			metadata = append(metadata, slog.Any(k, v))
		}
		attrs = append(attrs, slog.Group("metadata", metadata...))
	}

	l.logger.LogAttrs(ctx, level, message, attrs...)
}

// getOrGenerateCorrelationID gets correlation ID from context or generates a new one
func getOrGenerateCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(CorrelationIDKey).(string); ok && id != "" {
		return id
	}
	if id := RequestIDFromContext(ctx); id != "" {
		return id
	}
	return uuid.New().String()
}

// WithCorrelationID returns a context carrying the correlation id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, id)
}

// WithRequestID returns a context carrying the request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestIDFromContext returns the request id stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
