package utils

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"tripwise/apperr"
	"tripwise/logging"
)

// Response is the envelope every JSON endpoint answers with.
type Response struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Code    string   `json:"code,omitempty"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("encode response")
	}
}

func RespondOK(w http.ResponseWriter, data any) {
	RespondWithJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

func RespondCreated(w http.ResponseWriter, data any, msg string) {
	RespondWithJSON(w, http.StatusCreated, Response{Success: true, Data: data, Message: msg})
}

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, Response{Success: false, Message: msg, Errors: []string{msg}})
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithDomainError writes err using its kind and code. Unclassified
// errors are logged and hidden behind a generic message.
func RespondWithDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		logging.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		RespondWithError(w, status, "An unexpected error occurred")
		return
	}
	resp := Response{Success: false, Message: err.Error(), Errors: []string{err.Error()}}
	if e, ok := apperr.As(err); ok {
		resp.Code = e.Code
	}
	RespondWithJSON(w, status, resp)
}

type M map[string]interface{}
