package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/deepsyllabus/backend/internal/services"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	logger *zap.Logger
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response
func (h *BaseHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// respondError sends an error JSON response
func (h *BaseHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError maps a service error to a response.
//
// Not found errors become 404 and validation errors 400. Everything else is logged and answered
// with a 500 carrying the generic message, so upstream details never reach the client.
func (h *BaseHandler) respondServiceError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, services.ErrSyllabusNotFound):
		h.respondError(w, http.StatusNotFound, "Syllabus not found")
	case errors.Is(err, services.ErrComponentNotFound):
		h.respondError(w, http.StatusNotFound, "Component not found")
	case errors.Is(err, services.ErrNotFound):
		h.respondError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrValidation):
		h.respondError(w, http.StatusBadRequest, validationMessage(err))
	default:
		h.logger.Error(message, zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, message)
	}
}

// validationMessage extracts the field message of an error wrapping services.ErrValidation,
// e.g. "validation failed: file name is required" becomes "File name is required".
func validationMessage(err error) string {
	msg := err.Error()
	idx := strings.LastIndex(msg, services.ErrValidation.Error()+": ")
	if idx < 0 {
		return "Invalid request"
	}
	msg = strings.TrimSpace(msg[idx+len(services.ErrValidation.Error())+2:])
	if msg == "" {
		return "Invalid request"
	}
	r, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(r)) + msg[size:]
}

// decodeJSON decodes the request body into dst. An empty body decodes as an empty object.
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		body = []byte("{}")
	}
	return json.Unmarshal(body, dst)
}

// stringField reads a JSON value that must be a string
func stringField(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// boolField reads a JSON value that must be a boolean
func boolField(raw json.RawMessage) (bool, bool) {
	switch string(bytes.TrimSpace(raw)) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

// respondDecodeError answers a request whose body could not be read or parsed
func (h *BaseHandler) respondDecodeError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		h.respondError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	h.respondError(w, http.StatusBadRequest, "Invalid request body")
}
