package dto

import (
	"net/http"
	"strings"
)

// Error codes surfaced by the HTTP layer itself. Domain error codes pass
// through unchanged; these cover failures before a request reaches a service.
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "INVALID_JSON"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeRequestTooLarge is used when the body exceeds the size limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// Resource errors
	"NOT_FOUND":      http.StatusNotFound,
	"ALREADY_EXISTS": http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	"INSUFFICIENT_STOCK":   http.StatusUnprocessableEntity,
	"INSUFFICIENT_PAYMENT": http.StatusUnprocessableEntity,
	"EMPTY_CART":           http.StatusUnprocessableEntity,
	"INVALID_TRANSITION":   http.StatusUnprocessableEntity,

	// Persistence failures
	"STORE_FAILURE": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code. Codes with
// an INVALID_ prefix (malformed values caught by the services) map to 400;
// anything unknown maps to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
