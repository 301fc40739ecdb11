package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/harmonic/pkg/errors"
)

// RequestIDHeader carries the per-request identifier.
const RequestIDHeader = "X-Request-ID"

// ErrorBody is the JSON body written for failed requests.
type ErrorBody struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteBytes writes a raw payload with the given content type.
func WriteBytes(w http.ResponseWriter, status int, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// WriteError writes err as an ErrorBody. Errors without a code are reported
// as INTERNAL_ERROR and their message is not exposed.
func WriteError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	body := ErrorBody{
		Code:      errors.GetCode(err),
		Message:   errors.UserMessage(err),
		RequestID: w.Header().Get(RequestIDHeader),
	}
	if body.Code == "" {
		body.Code = errors.ErrCodeInternal
		body.Message = http.StatusText(status)
	}
	WriteJSON(w, status, body)
}
