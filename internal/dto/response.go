// Package dto holds the JSON envelopes of the HTTP API.
package dto

import (
	"net/http"
	"time"
)

const (
	// ErrCodeInvalidRequest indicates a malformed or rejected job.
	ErrCodeInvalidRequest = "invalid_request"
	// ErrCodeUnprocessable indicates a valid job that could not be packed.
	ErrCodeUnprocessable = "unprocessable"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal = "internal_error"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound = "not_found"
	// ErrCodeTimeout indicates a request timeout.
	ErrCodeTimeout = "timeout"
)

// SuccessResponse wraps successful API responses with metadata.
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ErrorResponse represents a standardized error response for the API.
type ErrorResponse struct {
	Error     string            `json:"error"`
	Message   string            `json:"message,omitempty"`
	Details   map[string]string `json:"details,omitempty"` // per-group failures
	RequestID string            `json:"request_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewError creates a new ErrorResponse with the given code and message.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WithRequestID adds a request ID to the error response.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// WithDetails attaches per-field or per-group messages.
func (e ErrorResponse) WithDetails(details map[string]string) ErrorResponse {
	e.Details = details
	return e
}

// ErrCodeFromStatus returns the appropriate error code for an HTTP status.
func ErrCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return ErrCodeInvalidRequest
	case http.StatusUnprocessableEntity:
		return ErrCodeUnprocessable
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return ErrCodeTimeout
	default:
		return ErrCodeInternal
	}
}

// ScenarioSummary is the headline result of one what-if scenario.
type ScenarioSummary struct {
	Name          string  `json:"name"`
	Kerf          int     `json:"kerf"`
	AllowRotation bool    `json:"allow_rotation"`
	SheetsUsed    int     `json:"sheets_used"`
	PiecesPlaced  int     `json:"pieces_placed"`
	WastePercent  float64 `json:"waste_percent"`
	FailedGroups  int     `json:"failed_groups"`
	Error         string  `json:"error,omitempty"`
}
