// Package slogger is the process-wide logging facade. Packages log through it instead of
// carrying a logger around; tests and the CLI swap the backing logger with SetGlobalLogger.
package slogger

import (
	"context"
	"sync"

	"upstreamproxy/internal/application/common/logging"
)

// Fields is an alias for logging.Fields for convenience.
type Fields = logging.Fields

var (
	mu     sync.RWMutex              //nolint:gochecknoglobals // singleton logging infrastructure
	logger logging.ApplicationLogger //nolint:gochecknoglobals // singleton logging infrastructure
	once   sync.Once                 //nolint:gochecknoglobals // lazy default initialization
)

func getLogger() logging.ApplicationLogger {
	once.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		if logger != nil {
			return
		}
		l, err := logging.NewApplicationLogger(logging.Config{Level: "INFO", Format: "json", Output: "stdout"})
		if err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
		logger = l
	})

	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// SetGlobalLogger replaces the process-wide logger.
func SetGlobalLogger(l logging.ApplicationLogger) {
	once.Do(func() {})
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// Debug logs a debug message with context.
func Debug(ctx context.Context, msg string, fields Fields) {
	getLogger().Debug(ctx, msg, fields)
}

// Info logs an info message with context.
func Info(ctx context.Context, msg string, fields Fields) {
	getLogger().Info(ctx, msg, fields)
}

// Warn logs a warning message with context.
func Warn(ctx context.Context, msg string, fields Fields) {
	getLogger().Warn(ctx, msg, fields)
}

// Error logs an error message with context.
func Error(ctx context.Context, msg string, fields Fields) {
	getLogger().Error(ctx, msg, fields)
}

// ErrorWithError logs an error message with an error object and context.
func ErrorWithError(ctx context.Context, err error, msg string, fields Fields) {
	getLogger().ErrorWithError(ctx, err, msg, fields)
}

// InfoNoCtx logs an info message without context (uses background context).
func InfoNoCtx(msg string, fields Fields) {
	getLogger().Info(context.Background(), msg, fields)
}

// WarnNoCtx logs a warning message without context (uses background context).
func WarnNoCtx(msg string, fields Fields) {
	getLogger().Warn(context.Background(), msg, fields)
}

// ErrorNoCtx logs an error message without context (uses background context).
func ErrorNoCtx(msg string, fields Fields) {
	getLogger().Error(context.Background(), msg, fields)
}

// WithComponent returns a logger with a specific component name.
func WithComponent(component string) logging.ApplicationLogger {
	return getLogger().WithComponent(component)
}
