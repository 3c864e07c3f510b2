package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/emarketbank/jimmy-agent/internal/domain"
)

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, domain.ErrEmptyMessages):
		return http.StatusBadRequest, "EMPTY_MESSAGES"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbiddenOrigin):
		return http.StatusForbidden, "FORBIDDEN_ORIGIN"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrMissingConfiguration):
		return http.StatusServiceUnavailable, "MISSING_CONFIGURATION"
	case errors.Is(err, domain.ErrMissingPromptRules):
		return http.StatusServiceUnavailable, "MISSING_PROMPT_RULES"
	case errors.Is(err, domain.ErrProviderUnavailable):
		return http.StatusServiceUnavailable, "PROVIDER_UNAVAILABLE"
	case errors.Is(err, domain.ErrAllProvidersFailed):
		return http.StatusServiceUnavailable, "ALL_PROVIDERS_FAILED"
	}
	return http.StatusInternalServerError, "INTERNAL"
}

// writeError renders the admin-surface error envelope. The chat surface has
// its own error shape (a displayable chat payload) handled in ChatHandler.
func writeError(w http.ResponseWriter, err error, details interface{}) {
	code, codeStr := statusFor(err)
	writeJSON(w, code, errorEnvelope{Error: apiError{Code: codeStr, Message: err.Error(), Details: details}})
}
