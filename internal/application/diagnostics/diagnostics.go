// Package diagnostics carries the record emitted once for every failed request.
//
// Emitters are fire-and-forget: they never return errors and must not block the request
// that produced the record. Sinks that can fail report the failure through the logger.
package diagnostics

import (
	"context"
	"time"

	"upstreamproxy/internal/application/common/logging"
	"upstreamproxy/internal/application/common/slogger"
)

// Record describes one failed request.
type Record struct {
	Time      time.Time `json:"time"`
	RequestID string    `json:"request_id,omitempty"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Status    int       `json:"status"`
	Variant   string    `json:"variant"`
	Message   string    `json:"message"`
	// Error is the full text of the failure, including detail withheld from the caller.
	Error string `json:"error"`
}

// Emitter receives diagnostic records.
type Emitter interface {
	Emit(ctx context.Context, rec Record)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(ctx context.Context, rec Record)

func (f EmitterFunc) Emit(ctx context.Context, rec Record) { f(ctx, rec) }

// Multi fans a record out to every emitter in order. A panicking emitter does not stop
// the ones after it.
type Multi []Emitter

func (m Multi) Emit(ctx context.Context, rec Record) {
	for _, e := range m {
		SafeEmit(ctx, e, rec)
	}
}

// SafeEmit hands rec to e and contains any panic raised by it.
func SafeEmit(ctx context.Context, e Emitter, rec Record) {
	if e == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			slogger.Error(ctx, "Diagnostic emitter panicked", slogger.Fields{
				"panic":   p,
				"variant": rec.Variant,
			})
		}
	}()
	e.Emit(ctx, rec)
}

// LogEmitter writes each record as one error-level log entry.
type LogEmitter struct {
	logger logging.ApplicationLogger
}

// NewLogEmitter returns a LogEmitter. A nil logger uses the process-wide one.
func NewLogEmitter(logger logging.ApplicationLogger) *LogEmitter {
	if logger == nil {
		logger = slogger.WithComponent("recovery")
	}
	return &LogEmitter{logger: logger}
}

func (l *LogEmitter) Emit(ctx context.Context, rec Record) {
	l.logger.Error(ctx, "Request failed", logging.Fields{
		"method":  rec.Method,
		"path":    rec.Path,
		"status":  rec.Status,
		"variant": rec.Variant,
		"message": rec.Message,
		"error":   rec.Error,
	})
}
