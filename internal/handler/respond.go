package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/templui/objectives/internal/ctxkeys"
	"github.com/templui/objectives/internal/ledger"
	"github.com/templui/objectives/internal/repository"
	"github.com/templui/objectives/internal/service"
	"github.com/templui/objectives/internal/service/generation"
)

const maxJSONBody = 1 << 20

var errMalformedBody = errors.New("invalid request body")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decodeJSON reads a single JSON value from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(v)
	if err != nil {
		return errMalformedBody
	}
	if dec.Decode(&struct{}{}) != io.EOF {
		return errMalformedBody
	}
	return nil
}

// statusFor maps domain errors to HTTP status codes. Anything unknown is
// an internal error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errMalformedBody):
		return http.StatusBadRequest

	case errors.Is(err, repository.ErrGoalNotFound),
		errors.Is(err, repository.ErrMilestoneNotFound),
		errors.Is(err, repository.ErrDocumentNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrProfileNotFound),
		errors.Is(err, service.ErrNoFile):
		return http.StatusNotFound

	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrEmptyDescription),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidCurrentPassword),
		errors.Is(err, ledger.ErrUnsupportedCurrency),
		errors.Is(err, ledger.ErrInvalidRateSnapshot),
		errors.Is(err, ledger.ErrNegativeAmount):
		return http.StatusUnprocessableEntity

	case errors.Is(err, service.ErrEmailAlreadyExists),
		errors.Is(err, repository.ErrDuplicateEmail),
		errors.Is(err, service.ErrChecklistNotEmpty):
		return http.StatusConflict

	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}

// writeServiceError answers with the mapped status. Client errors carry
// the error text; internal errors are logged and answered generically.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	status := statusFor(err)
	if status != http.StatusInternalServerError {
		writeError(w, status, err.Error())
		return
	}

	attrs := []any{"error", err, "path", r.URL.Path, "request_id", ctxkeys.RequestID(r.Context())}
	if user := ctxkeys.User(r.Context()); user != nil {
		attrs = append(attrs, "user_id", user.ID)
	}

	switch {
	case errors.Is(err, generation.ErrMissingCredential):
		slog.Warn("failed to "+action, attrs...)
		writeError(w, status, generation.ErrMissingCredential.Error())
	case errors.Is(err, generation.ErrUpstreamGeneration):
		slog.Warn("failed to "+action, attrs...)
		writeError(w, status, generation.ErrUpstreamGeneration.Error())
	default:
		slog.Error("failed to "+action, attrs...)
		writeError(w, status, "internal server error")
	}
}
