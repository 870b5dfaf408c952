package api

import (
	"net/http"
	"time"

	"upstreamproxy/internal/application/classify"
	"upstreamproxy/internal/application/common/logging"
	"upstreamproxy/internal/application/common/slogger"
	"upstreamproxy/internal/application/diagnostics"
	"upstreamproxy/internal/domain/failure"
)

// HandlerFunc handles a request and returns the failure, if any, instead of writing it.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Recovery turns failures returned by handlers into error envelopes.
type Recovery struct {
	emitter diagnostics.Emitter
	now     func() time.Time
}

// NewRecovery returns a Recovery that reports every failure to emitter.
func NewRecovery(emitter diagnostics.Emitter) *Recovery {
	if emitter == nil {
		emitter = diagnostics.NewLogEmitter(nil)
	}
	return &Recovery{emitter: emitter, now: time.Now}
}

// Handle adapts fn to an http.Handler that recovers the failures it returns. A failure
// returned after fn started the response is reported but no envelope is written.
func (rc *Recovery) Handle(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cw := &commitWriter{ResponseWriter: w}
		err := fn(cw, r)
		if err == nil {
			return
		}
		if cw.committed {
			c := rc.report(r, err)
			slogger.Warn(r.Context(), "Failure returned after response was committed", slogger.Fields{
				"path":    r.URL.Path,
				"variant": string(c.Variant),
			})
			return
		}
		rc.Recover(w, r, err)
	})
}

// Recover classifies err, emits one diagnostic record for it and writes the envelope.
func (rc *Recovery) Recover(w http.ResponseWriter, r *http.Request, err error) {
	c := rc.report(r, err)

	if werr := WriteError(w, c); werr != nil {
		slogger.ErrorWithError(r.Context(), werr, "Failed to write error response", slogger.Fields{
			"path":    r.URL.Path,
			"variant": string(c.Variant),
		})
	}
}

// NotFound reports every request it receives as unmatched by dispatch.
func (rc *Recovery) NotFound() http.Handler {
	return rc.Handle(func(http.ResponseWriter, *http.Request) error {
		return failure.ErrRouteNotFound
	})
}

func (rc *Recovery) report(r *http.Request, err error) classify.Classification {
	c := classify.Classify(err)
	diagnostics.SafeEmit(r.Context(), rc.emitter, rc.record(r, c, err))
	return c
}

func (rc *Recovery) record(r *http.Request, c classify.Classification, err error) diagnostics.Record {
	rec := diagnostics.Record{
		Time:      rc.now().UTC(),
		RequestID: logging.RequestIDFromContext(r.Context()),
		Method:    r.Method,
		Path:      r.URL.Path,
		Status:    c.Status,
		Variant:   string(c.Variant),
		Message:   c.Message,
	}
	if !failure.IsNil(err) {
		rec.Error = err.Error()
	}
	return rec
}

// commitWriter notes whether the response has been started.
type commitWriter struct {
	http.ResponseWriter
	committed bool
}

func (cw *commitWriter) WriteHeader(code int) {
	cw.committed = true
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *commitWriter) Write(b []byte) (int, error) {
	cw.committed = true
	return cw.ResponseWriter.Write(b)
}

func (cw *commitWriter) Unwrap() http.ResponseWriter { return cw.ResponseWriter }
