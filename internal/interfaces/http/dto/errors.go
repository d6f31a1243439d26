package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation = "ERR_VALIDATION"
	ErrCodeNoChanges  = "ERR_NO_CHANGES"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeDueNegative       = "ERR_DUE_NEGATIVE"
	ErrCodeDepositExceedsDue = "ERR_DEPOSIT_EXCEEDS_DUE"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation and no-op rejections -> 400 Bad Request
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeNoChanges:  http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	// Balance rule violations -> 422 Unprocessable Entity
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeDueNegative:       http.StatusUnprocessableEntity,
	ErrCodeDepositExceedsDue: http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the wire format
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"CONCURRENCY_CONFLICT": ErrCodeConflict,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"NO_CHANGES":           ErrCodeNoChanges,
	"DUE_NEGATIVE":         ErrCodeDueNegative,
	"DEPOSIT_EXCEEDS_DUE":  ErrCodeDepositExceedsDue,
	"STORAGE_FAILURE":      ErrCodeInternal,
	"INTERNAL_ERROR":       ErrCodeInternal,

	// Constructor validation failures
	"INVALID_CUSTOMER":    ErrCodeValidation,
	"INVALID_USER":        ErrCodeValidation,
	"INVALID_DATE":        ErrCodeValidation,
	"INVALID_AMOUNT":      ErrCodeValidation,
	"INVALID_DESCRIPTION": ErrCodeValidation,
	"INVALID_RECEIPT_URL": ErrCodeValidation,
	"INVALID_MODE":        ErrCodeValidation,
	"INVALID_TYPE":        ErrCodeValidation,
	"INVALID_BY_WHOM":     ErrCodeValidation,
	"INVALID_NAME":        ErrCodeValidation,
	"INVALID_OPERATION":   ErrCodeValidation,
	"INVALID_USERNAME":    ErrCodeValidation,
	"INVALID_PASSWORD":    ErrCodeValidation,
}

// NormalizeErrorCode converts a domain error code to the wire format. If the
// code is already in the wire format or unknown, returns it as-is.
func NormalizeErrorCode(code string) string {
	if wireCode, ok := DomainErrorCodeMapping[code]; ok {
		return wireCode
	}
	return code
}
