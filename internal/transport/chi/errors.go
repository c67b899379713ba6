package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovp-platform/ovpsearch/internal/domain"
)

// ErrorCode is the machine readable part of an error response.
type ErrorCode string

// Error codes returned by the API.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeInvalidAddress   ErrorCode = "invalid_address"
	ErrorCodeNotFound         ErrorCode = "not_found"
	ErrorCodeNotAuthenticated ErrorCode = "not_authenticated"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodePermissionDenied ErrorCode = "permission_denied"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

var errorHandlers = []errorHandler{
	sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
	sentinelHandler(domain.ErrInvalidAddress, http.StatusBadRequest, ErrorCodeInvalidAddress),
	sentinelHandler(domain.ErrInvalidParameter, http.StatusBadRequest, ErrorCodeBadRequest),
	sentinelHandler(domain.ErrNotAuthenticated, http.StatusUnauthorized, ErrorCodeNotAuthenticated),
	sentinelHandler(domain.ErrPermissionDenied, http.StatusForbidden, ErrorCodePermissionDenied),
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrInvalidAddress,
		domain.ErrInvalidParameter,
		domain.ErrNotAuthenticated,
		domain.ErrPermissionDenied,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)
	for _, h := range errorHandlers {
		if h(w, err, msg) {
			s.logger.Warn("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
