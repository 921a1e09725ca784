package dto

import "net/http"

// Error codes used by the HTTP layer itself. Domain services produce their
// own codes; both families share the status map below.
const (
	ErrCodeInternal     = "INTERNAL"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,

	// Domain validation and business rules
	"VALIDATION":    http.StatusBadRequest,
	"BUSINESS_RULE": http.StatusUnprocessableEntity,
	"INVALID_STATE": http.StatusUnprocessableEntity,

	// Resources
	ErrCodeNotFound:        http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Auth
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	ErrCodeForbidden:      http.StatusForbidden,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"ACCOUNT_INACTIVE":    http.StatusForbidden,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"RATE_LIMITED":        http.StatusTooManyRequests,

	// Infrastructure
	"PERSISTENCE": http.StatusInternalServerError,
	"DELIVERY":    http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
