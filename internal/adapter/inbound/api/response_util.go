package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"
)

// Pool both encoders and their underlying buffers for maximum efficiency.
type pooledEncoder struct {
	buf     *bytes.Buffer
	encoder *json.Encoder
}

func (pe *pooledEncoder) reset() {
	pe.buf.Reset()
}

var encoderPool = sync.Pool{
	New: func() interface{} {
		buf := bytes.NewBuffer(make([]byte, 0, 512))
		encoder := json.NewEncoder(buf)
		// Messages reach the client verbatim; only JSON string escaping applies.
		encoder.SetEscapeHTML(false)
		return &pooledEncoder{
			buf:     buf,
			encoder: encoder,
		}
	},
}

// WriteJSON encodes data as the JSON body of a response with the given status.
// Nothing is written when encoding fails.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	if statusCode == 0 {
		statusCode = http.StatusOK
	}

	pe := encoderPool.Get().(*pooledEncoder)
	defer func() {
		pe.reset()
		encoderPool.Put(pe)
	}()

	if err := pe.encoder.Encode(data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	_, err := w.Write(pe.buf.Bytes())
	return err
}
