package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

type errorResponse struct {
	Error string `json:"error"`
}

// mutationResponse carries the saved record and, when the durable write
// failed, a warning that the change may be lost on restart.
type mutationResponse struct {
	Data           any    `json:"data,omitempty"`
	PersistWarning string `json:"persist_warning,omitempty"`
}

var validationErrors = []error{
	core.ErrInvalidDate,
	core.ErrFutureDate,
	core.ErrInvalidAmount,
	core.ErrInvalidKind,
	core.ErrEmptyDescription,
	core.ErrDescriptionTooLong,
	core.ErrUnknownCategory,
	core.ErrCategoryKindMismatch,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= 500 {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed", log.FieldError, err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return http.StatusUnprocessableEntity
		}
	}
	switch {
	case errors.Is(err, core.ErrNotFound), errors.Is(err, services.ErrNoPendingAction):
		return http.StatusNotFound
	case errors.Is(err, services.ErrPeriodInFuture):
		return http.StatusConflict
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeMutation answers a write. A persistence failure still reports the
// change as applied, with the warning attached.
func writeMutation(w http.ResponseWriter, r *http.Request, status int, data any, err error) {
	if err != nil && !errors.Is(err, services.ErrPersistence) {
		writeError(w, r, err)
		return
	}
	resp := mutationResponse{Data: data}
	if err != nil {
		resp.PersistWarning = err.Error()
	}
	writeJSON(w, status, resp)
}

var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return badRequest("decode body: %v", err)
	}
	return nil
}

// queryInt reads a positive integer query parameter, falling back to def.
func queryInt(r *http.Request, key string, def int) int {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// sanitizeInput strips control characters other than tab and newlines.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
