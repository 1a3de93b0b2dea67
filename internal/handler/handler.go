package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"souq-kart/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// The status line is already written; nothing useful can be
		// sent to the client at this point.
		return
	}
}

// writeError writes a plain error response with the given status code.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// domainStatus maps a domain error code to its HTTP status.
func domainStatus(code string) int {
	switch code {
	case model.ErrCodeOrderNotFound, model.ErrCodeProductNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidTransition:
		return http.StatusConflict
	case model.ErrCodeOrderCreateFailed, model.ErrCodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// asDomainError unwraps err into a DomainError, or nil.
func asDomainError(err error) *model.DomainError {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}
