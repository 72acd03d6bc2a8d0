package transport

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	errors "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/pkg/logger"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
	// Debug exposes the cause of internal errors in responses. Only set in
	// development.
	Debug bool
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes a bare error envelope for failures that have no AppError.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.WriteAppError(w, &errors.AppError{
		Type:       errorTypeFor(status),
		Code:       errors.ErrorCode(strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))),
		Message:    message,
		StatusCode: status,
	})
}

// WriteAppError renders err using its status code and JSON envelope.
func (h *BaseHandler) WriteAppError(w http.ResponseWriter, err *errors.AppError) {
	status, body := err.ToHTTPResponse()
	h.WriteJSON(w, status, body)
}

// HandleError converts any error returned by a service into a response.
// Errors that are not AppErrors are treated as internal failures and their
// cause is hidden unless Debug is set.
func (h *BaseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.From(r.Context())

	appErr, ok := errors.IsAppError(err)
	if !ok {
		appErr = errors.NewInternalError("Internal server error", err)
	}

	switch {
	case appErr.StatusCode >= http.StatusInternalServerError:
		log.Error("request failed", "path", r.URL.Path, "error", err)
	default:
		log.Warn("request rejected", "path", r.URL.Path, "status", appErr.StatusCode, "code", appErr.Code)
	}

	if appErr.Type == errors.ErrorTypeInternal {
		msg := "Internal server error"
		if h.Debug && appErr.Cause != nil {
			msg = fmt.Sprintf("%s: %v", msg, appErr.Cause)
		}
		appErr = appErr.WithMessage(msg)
	}

	h.WriteAppError(w, appErr)
}

// DecodeJSON reads the request body into dst, rejecting malformed JSON with
// a validation error.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errors.NewValidationError("Request body is required", errors.ErrCodeRequired)
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.NewValidationError("Invalid request body", errors.ErrCodeValidationFailed).WithCause(err)
	}
	return nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	return BearerToken(r.Header.Get("Authorization"))
}

// BearerToken returns the credential of an "Authorization: Bearer <token>"
// header value, or "" when the scheme is missing.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func errorTypeFor(status int) errors.ErrorType {
	switch status {
	case http.StatusBadRequest:
		return errors.ErrorTypeValidation
	case http.StatusUnauthorized:
		return errors.ErrorTypeUnauthorized
	case http.StatusForbidden:
		return errors.ErrorTypeForbidden
	case http.StatusNotFound:
		return errors.ErrorTypeNotFound
	case http.StatusConflict:
		return errors.ErrorTypeConflict
	case http.StatusTooManyRequests:
		return errors.ErrorTypeRateLimited
	default:
		return errors.ErrorTypeInternal
	}
}
