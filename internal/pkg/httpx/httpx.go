// Package httpx writes JSON responses and maps domain errors onto HTTP
// statuses. Handlers keep their own decoding and validation.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"dispatch/internal/pkg/apperr"
	"dispatch/pkg/logger"
)

// RetryAfter is advertised on upstream failures, in seconds.
const RetryAfter = 5

type responseLogger interface {
	Error(msg string, fields ...logger.Field)
}

type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, log responseLogger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("encode JSON response", logger.ErrorField(err))
	}
}

// WriteError answers with the status of err's kind. Unclassified errors are
// logged and hidden behind a 500.
func WriteError(w http.ResponseWriter, log responseLogger, err error) {
	status, code := Classify(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("request failed", logger.ErrorField(err))
		message = "internal error"
	}
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", strconv.Itoa(RetryAfter))
	}

	WriteJSON(w, log, status, ErrorBody{Error: ErrorDetail{Code: code, Message: message}})
}

// WriteBadRequest is for input rejected before it reaches a service.
func WriteBadRequest(w http.ResponseWriter, log responseLogger, message string) {
	WriteJSON(w, log, http.StatusBadRequest, ErrorBody{Error: ErrorDetail{Code: "VALIDATION", Message: message}})
}

func Classify(err error) (status int, code string) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest, "VALIDATION"
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict, "CONFLICT"
	case errors.Is(err, apperr.ErrDomainState):
		return http.StatusUnprocessableEntity, "INVALID_STATE"
	case errors.Is(err, apperr.ErrUpstream):
		return http.StatusServiceUnavailable, "UPSTREAM"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

// PathID reads a positive int64 route variable.
func PathID(vars map[string]string, key string) (int64, error) {
	id, err := strconv.ParseInt(vars[key], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return id, nil
}

// QueryUint reads an optional non-negative integer query parameter.
func QueryUint(r *http.Request, key string) (uint64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}
