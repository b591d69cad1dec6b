package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorKind classifies an AppError independently of its HTTP status
type ErrorKind string

const (
	KindIngestionUnavailable ErrorKind = "INGESTION_UNAVAILABLE"
	KindIngestionMalformed   ErrorKind = "INGESTION_MALFORMED"
	KindIngestionEmpty       ErrorKind = "INGESTION_EMPTY"
	KindValidationFailed     ErrorKind = "VALIDATION_FAILED"
	KindNotFound             ErrorKind = "NOT_FOUND"
	KindInternal             ErrorKind = "INTERNAL"
)

// AppError represents a custom application error
type AppError struct {
	Kind    ErrorKind `json:"kind"`
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error constructors
func NewValidationError(message string) *AppError {
	return &AppError{
		Kind:    KindValidationFailed,
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Code:    http.StatusNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Kind:    KindInternal,
		Code:    http.StatusInternalServerError,
		Message: message,
		Err:     err,
	}
}

func NewBadRequestError(message string) *AppError {
	return &AppError{
		Kind:    KindValidationFailed,
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// NewIngestionUnavailableError reports that the extraction service could not be reached
func NewIngestionUnavailableError(err error) *AppError {
	return &AppError{
		Kind:    KindIngestionUnavailable,
		Code:    http.StatusBadGateway,
		Message: "Receipt extraction service is unavailable",
		Err:     err,
	}
}

// NewIngestionMalformedError reports a response that is not the expected receipt JSON
func NewIngestionMalformedError(details string, err error) *AppError {
	return &AppError{
		Kind:    KindIngestionMalformed,
		Code:    http.StatusUnprocessableEntity,
		Message: "Cannot read the receipt format",
		Details: details,
		Err:     err,
	}
}

// NewIngestionEmptyError reports a response without any text
func NewIngestionEmptyError() *AppError {
	return &AppError{
		Kind:    KindIngestionEmpty,
		Code:    http.StatusUnprocessableEntity,
		Message: "Receipt extraction returned no text",
	}
}

// KindOf returns the kind of the first AppError in err's chain, or
// KindInternal for any other non-nil error.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HandleError sends an appropriate HTTP response for an error
func HandleError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		body := gin.H{"error": appErr.Message, "kind": appErr.Kind}
		if appErr.Details != "" {
			body["details"] = appErr.Details
		}
		c.JSON(appErr.Code, body)
		return
	}

	// Default to internal server error
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "kind": KindInternal})
}

// HandleSuccess sends a success response
func HandleSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}
