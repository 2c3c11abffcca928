package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/readstack/readstack-auth/internal/logger"
	"github.com/readstack/readstack-auth/internal/model"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// handleError maps domain errors to HTTP responses. OAuth protocol errors use
// the RFC 6749 error codes; token verification failures collapse into one
// 401 regardless of cause.
func handleError(w http.ResponseWriter, log *logger.Logger, err error) {
	var status int
	var code string
	var message string

	switch {
	case errors.Is(err, model.ErrUnauthenticated),
		errors.Is(err, model.ErrInvalidSignature),
		errors.Is(err, model.ErrTokenExpired),
		errors.Is(err, model.ErrWrongTokenKind),
		errors.Is(err, model.ErrTokenMalformed),
		errors.Is(err, model.ErrRefreshRevoked),
		errors.Is(err, model.ErrRefreshMismatch):
		status, code, message = http.StatusUnauthorized, "unauthenticated", "missing or invalid credentials"
	case errors.Is(err, model.ErrInvalidClient):
		status, code, message = http.StatusUnauthorized, "invalid_client", "invalid client credentials"
	case errors.Is(err, model.ErrInvalidGrant):
		status, code, message = http.StatusBadRequest, "invalid_grant", "authorization code is invalid, expired or already used"
	case errors.Is(err, model.ErrUnsupportedGrantType):
		status, code, message = http.StatusBadRequest, "unsupported_grant_type", "only grant_type=authorization_code is supported"
	case errors.Is(err, model.ErrUnsupportedResponseType):
		status, code, message = http.StatusBadRequest, "unsupported_response_type", "only response_type=code is supported"
	case errors.Is(err, model.ErrUnknownClient):
		status, code, message = http.StatusBadRequest, "unauthorized_client", "unknown client"
	case errors.Is(err, model.ErrInvalidRedirectURI):
		status, code, message = http.StatusBadRequest, "invalid_request", "redirect_uri is not acceptable"
	case errors.Is(err, model.ErrValidation):
		status, code, message = http.StatusBadRequest, "validation_error", err.Error()
	case errors.Is(err, model.ErrNotFound):
		status, code, message = http.StatusNotFound, "not_found", "resource not found"
	default:
		log.Error("handler: internal error", "error", err.Error())
		status, code, message = http.StatusInternalServerError, "internal_error", "internal server error"
	}

	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
