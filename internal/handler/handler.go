package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mostafayousef44200444-rgb/backend/internal/model"

	"github.com/rs/zerolog"
)

// maxJSONBody caps JSON request bodies. Image uploads have their own
// multipart ceiling; everything else is small.
const maxJSONBody = 1 << 20

// messageResponse is the envelope for responses carrying only an outcome.
type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// decodeJSON decodes a size-capped JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already written, nothing left to report to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

// writeServiceError maps a service error onto an HTTP status. Domain errors
// carry their own message; anything else becomes a generic 500.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error().Err(err).Msg("internal error")
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Error: "Internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch domainErr.Code {
	case model.ErrCodeInvalidRequest, model.ErrCodeConflict, model.ErrCodeInvalidState:
		status = http.StatusBadRequest
	case model.ErrCodeUnauthorised:
		status = http.StatusUnauthorized
	case model.ErrCodeForbidden:
		status = http.StatusForbidden
	case model.ErrCodeNotFound:
		status = http.StatusNotFound
	case model.ErrCodeWriteConflict:
		status = http.StatusConflict
	}

	writeError(w, status, domainErr.Message, logger)
}
