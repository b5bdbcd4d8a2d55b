package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies a class of application failure
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = iota
	ErrorCode_INTERNAL
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_INVALID_PAYLOAD
	ErrorCode_NOT_FOUND
	ErrorCode_UNAUTHENTICATED
	ErrorCode_VALIDATION_FAILED
	ErrorCode_EXTRACTION_FAILED
	ErrorCode_PARSE_FAILED
	ErrorCode_PERSISTENCE_FAILED
	ErrorCode_AUTH_OAUTH_FAILED
	ErrorCode_TRANSCRIPT_SOURCE_FAILED
	ErrorCode_EXPORT_FAILED
	ErrorCode_INTEGRATION_STORAGE_FAILED
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "HTTP_OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_UNAUTHENTICATED:            "UNAUTHENTICATED",
	ErrorCode_VALIDATION_FAILED:          "VALIDATION_FAILED",
	ErrorCode_EXTRACTION_FAILED:          "EXTRACTION_FAILED",
	ErrorCode_PARSE_FAILED:               "PARSE_FAILED",
	ErrorCode_PERSISTENCE_FAILED:         "PERSISTENCE_FAILED",
	ErrorCode_AUTH_OAUTH_FAILED:          "AUTH_OAUTH_FAILED",
	ErrorCode_TRANSCRIPT_SOURCE_FAILED:   "TRANSCRIPT_SOURCE_FAILED",
	ErrorCode_EXPORT_FAILED:              "EXPORT_FAILED",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// MarshalText renders the code by name in JSON bodies
func (c ErrorCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// AppError là custom error type cho application
type AppError struct {
	Raw      error             `json:"-"`
	HTTPCode int               `json:"-"`
	Code     ErrorCode         `json:"code"`
	Message  string            `json:"message"`
	Details  map[string]string `json:"details,omitempty"`
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying cause
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

// CodeOf returns the code of the first AppError in err's chain, or INTERNAL
func CodeOf(err error) ErrorCode {
	var appErr AppError
	if stdErrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrorCode_INTERNAL
}

// IsCode reports whether err carries the given code
func IsCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  message,
	}
}

func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_PAYLOAD,
		Message:  "Invalid payload",
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

func ErrUnauthenticated() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_UNAUTHENTICATED,
		Message:  "Authentication required",
	}
}

// Board Errors
func ErrActionItemNotFound(id string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  "Action item not found",
	}.WithDetail("id", id)
}

// ErrValidationFailed rejects user input before any mutation happens.
func ErrValidationFailed(field string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_VALIDATION_FAILED,
		Message:  fmt.Sprintf("Invalid value for %s", field),
	}.WithDetail("field", field)
}

// ErrPersistenceFailed means the board could not be written; memory state was kept as before.
func ErrPersistenceFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_PERSISTENCE_FAILED,
		Message:  fmt.Sprintf("Failed to persist board: %s", operation),
	}.WithDetail("operation", operation)
}

// AI Errors
func ErrExtractionFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_EXTRACTION_FAILED,
		Message:  "Action item extraction failed",
	}
}

// ErrParseFailed summarizes entries dropped from a model response.
func ErrParseFailed(dropped int) AppError {
	return AppError{
		HTTPCode: http.StatusUnprocessableEntity,
		Code:     ErrorCode_PARSE_FAILED,
		Message:  fmt.Sprintf("%d extracted entries did not match the expected schema", dropped),
	}.WithDetail("dropped", fmt.Sprintf("%d", dropped))
}

// Integration Errors
func ErrOAuthFailed(provider string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_AUTH_OAUTH_FAILED,
		Message:  fmt.Sprintf("OAuth authentication failed with %s", provider),
	}
}

func ErrTranscriptSourceFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_TRANSCRIPT_SOURCE_FAILED,
		Message:  fmt.Sprintf("Transcript source call failed: %s", operation),
	}
}

func ErrExportFailed(format string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_EXPORT_FAILED,
		Message:  "Failed to export board",
	}.WithDetail("format", format)
}

func ErrStorageFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTEGRATION_STORAGE_FAILED,
		Message:  fmt.Sprintf("Storage operation failed: %s", operation),
	}
}
