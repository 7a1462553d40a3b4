package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"promptcheck/internal/application/common/slogger"
	"promptcheck/internal/domain/errors/domain"
)

// maxRequestBodyBytes caps any JSON request body.
const maxRequestBodyBytes = 4 << 20

// errResponseWrite marks a failure after the status line was sent.
var errResponseWrite = errors.New("failed to write response body")

// Pool both encoders and their underlying buffers.
type pooledEncoder struct {
	buf     *bytes.Buffer
	encoder *json.Encoder
}

var encoderPool = sync.Pool{
	New: func() interface{} {
		buf := bytes.NewBuffer(make([]byte, 0, 512))
		return &pooledEncoder{
			buf:     buf,
			encoder: json.NewEncoder(buf),
		}
	},
}

// WriteJSON encodes data and writes it with statusCode. Nothing is written
// when encoding fails. Errors from writing the body wrap errResponseWrite.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	if statusCode == 0 {
		statusCode = http.StatusOK
	}

	pe := encoderPool.Get().(*pooledEncoder)
	defer func() {
		pe.buf.Reset()
		encoderPool.Put(pe)
	}()

	if err := pe.encoder.Encode(data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if _, err := w.Write(pe.buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", errResponseWrite, err)
	}
	return nil
}

// writeResponse writes data as JSON. An encoding failure leaves the response
// untouched and goes to errorHandler; once the header is sent a failure can
// only be logged.
func writeResponse(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}, errorHandler ErrorHandler) {
	err := WriteJSON(w, statusCode, data)
	if err == nil {
		return
	}
	if errors.Is(err, errResponseWrite) || errorHandler == nil {
		slogger.ErrorWithError(r.Context(), err, "Failed to write response", slogger.Fields{
			"path":   r.URL.Path,
			"status": statusCode,
		})
		return
	}
	errorHandler.HandleServiceError(w, r, err)
}

// decodeJSON decodes a single JSON object from the request body into dst.
// Decoding failures wrap domain.ErrInvalidInput; oversized bodies wrap
// domain.ErrTextTooLong.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("%w: request body is required", domain.ErrInvalidInput)
	}
	body := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	decoder := json.NewDecoder(body)
	if err := decoder.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return fmt.Errorf("%w: request body exceeds %d bytes", domain.ErrTextTooLong, tooLarge.Limit)
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: request body is required", domain.ErrInvalidInput)
		default:
			return fmt.Errorf("%w: invalid JSON: %s", domain.ErrInvalidInput, err.Error())
		}
	}
	if decoder.More() {
		return fmt.Errorf("%w: request body must contain a single JSON object", domain.ErrInvalidInput)
	}
	return nil
}
