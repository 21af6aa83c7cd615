package helpers

import (
	"encoding/json"
	"net/http"

	"collegeevents/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest      = "bad_request"
	ErrCodeUnauthorized    = "unauthorized"
	ErrCodeForbidden       = "forbidden"
	ErrCodeNotFound        = "not_found"
	ErrCodeConflict        = "conflict"
	ErrCodePayloadTooLarge = "payload_too_large"
	ErrCodeInternalError   = "internal_error"
)

// APIError is the error object in the standardized API response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// Notices carries user-facing messages raised while serving the request.
// swagger:model APIResponse
type APIResponse struct {
	Data    any             `json:"data"`
	Error   *APIError       `json:"error"`
	Notices []domain.Notice `json:"notices,omitempty"`
}

// WriteJSONSuccess writes statusCode and an envelope with data and any notices.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any, notices ...domain.Notice) {
	writeJSON(w, statusCode, APIResponse{Data: data, Notices: notices})
}

// WriteJSONError writes statusCode and an envelope with data nil and the given error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string, notices ...domain.Notice) {
	writeJSON(w, statusCode, APIResponse{
		Error:   &APIError{Code: code, Message: message},
		Notices: notices,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
