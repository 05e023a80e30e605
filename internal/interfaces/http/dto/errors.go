package dto

import "net/http"

// HTTP-boundary error codes. Domain errors carry their own codes; the
// constants here cover failures raised by the transport layer itself.
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used when request binding or validation fails
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "FORBIDDEN"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeRequestTooLarge is used when the request body exceeds the size limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
// Codes missing from the map fall back to 500.
var ErrorCodeHTTPStatus = map[string]int{
	// Transport errors
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeForbidden:       http.StatusForbidden,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// Domain validation -> 400 Bad Request
	"INVALID_INPUT":        http.StatusBadRequest,
	"INVALID_MESSAGE_BODY": http.StatusBadRequest,
	"INVALID_PARTICIPANT":  http.StatusBadRequest,
	"INVALID_ENVELOPE":     http.StatusBadRequest,
	"INVALID_USER_NAME":    http.StatusBadRequest,
	"INVALID_EMAIL":        http.StatusBadRequest,
	"INVALID_PASSWORD":     http.StatusBadRequest,
	"INVALID_PRODUCT_NAME": http.StatusBadRequest,
	"INVALID_PRICE":        http.StatusBadRequest,
	"INVALID_BUYER":        http.StatusBadRequest,
	"INVALID_SELLER":       http.StatusBadRequest,
	"INVALID_ORDER_ITEM":   http.StatusBadRequest,
	"INVALID_ORDER_STATUS": http.StatusBadRequest,

	// Missing resources -> 404 Not Found
	// ORDER_NOT_FOUND deliberately covers both "no such order" and
	// "order not owned by sender" so the two are indistinguishable.
	"ORDER_NOT_FOUND":   http.StatusNotFound,
	"PRODUCT_NOT_FOUND": http.StatusNotFound,

	// Authorization refusals
	"RECEIVER_MISMATCH": http.StatusForbidden,

	// Business rules -> 422 Unprocessable Entity
	"DISALLOWED_ORDER_STATE": http.StatusUnprocessableEntity,
	"PRODUCT_UNAVAILABLE":    http.StatusUnprocessableEntity,
	"SELF_PURCHASE":          http.StatusUnprocessableEntity,
	"INVALID_STATE":          http.StatusUnprocessableEntity,

	// Conflicts
	"ALREADY_EXISTS": http.StatusConflict,

	// Internal failures
	"STORAGE_ERROR":     http.StatusInternalServerError,
	"ENCRYPTION_FAILED": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
