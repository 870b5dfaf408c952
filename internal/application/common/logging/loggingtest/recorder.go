// Package loggingtest provides an in-memory ApplicationLogger for tests.
package loggingtest

import (
	"context"
	"sync"

	"upstreamproxy/internal/application/common/logging"
)

// Entry is one recorded log call.
type Entry struct {
	Level     string
	Message   string
	Component string
	Err       error
	Fields    logging.Fields
}

// Recorder records every log call made through it or its component loggers.
type Recorder struct {
	mu        *sync.Mutex
	entries   *[]Entry
	component string
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{mu: &sync.Mutex{}, entries: &[]Entry{}}
}

// Entries returns a copy of the recorded entries.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), (*r.entries)...)
}

// EntriesAt returns the recorded entries with the given level.
func (r *Recorder) EntriesAt(level string) []Entry {
	var out []Entry
	for _, e := range r.Entries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

func (r *Recorder) record(level, message string, err error, fields logging.Fields) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.entries = append(*r.entries, Entry{
		Level:     level,
		Message:   message,
		Component: r.component,
		Err:       err,
		Fields:    fields,
	})
}

func (r *Recorder) Debug(_ context.Context, message string, fields logging.Fields) {
	r.record("DEBUG", message, nil, fields)
}

func (r *Recorder) Info(_ context.Context, message string, fields logging.Fields) {
	r.record("INFO", message, nil, fields)
}

func (r *Recorder) Warn(_ context.Context, message string, fields logging.Fields) {
	r.record("WARN", message, nil, fields)
}

func (r *Recorder) Error(_ context.Context, message string, fields logging.Fields) {
	r.record("ERROR", message, nil, fields)
}

func (r *Recorder) ErrorWithError(_ context.Context, err error, message string, fields logging.Fields) {
	r.record("ERROR", message, err, fields)
}

func (r *Recorder) WithComponent(component string) logging.ApplicationLogger {
	return &Recorder{mu: r.mu, entries: r.entries, component: component}
}
