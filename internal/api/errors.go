// errors.go - Structured error handling for API responses
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fieldquote/backend/internal/budget"
	"github.com/fieldquote/backend/internal/log"
	"github.com/fieldquote/backend/internal/models"
	"github.com/fieldquote/backend/internal/upload"
)

// Error codes returned in APIError.Code.
const (
	CodeBadRequest          = "BAD_REQUEST"
	CodeValidation          = "VALIDATION_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeInternal            = "INTERNAL_ERROR"
	CodeUnavailable         = "SERVICE_UNAVAILABLE"
	CodeUnsupportedFileType = "UNSUPPORTED_FILE_TYPE"
	CodeItemNotFound        = "ITEM_NOT_FOUND"
	CodeHTTP                = "HTTP_ERROR"
	CodeUnknown             = "UNKNOWN_ERROR"
)

// APIError represents a structured API error response
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    CodeBadRequest,
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewValidationError creates a 400 validation error for a specific field
func NewValidationError(field string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    CodeValidation,
		Message: fmt.Sprintf("validation failed for field: %s", field),
	}
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(resource string, id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// NewItemNotFoundError creates a 404 for a quote item id.
func NewItemNotFoundError(id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    CodeItemNotFound,
		Message: fmt.Sprintf("quote item not found: %s", id),
	}
}

// NewUnsupportedFileTypeError creates a 415 for a selection that is not a PDF.
func NewUnsupportedFileTypeError(name string) *APIError {
	return &APIError{
		Status:  http.StatusUnsupportedMediaType,
		Code:    CodeUnsupportedFileType,
		Message: "Please upload a PDF file",
		Details: name,
	}
}

// NewConflictError creates a 409 Conflict error
func NewConflictError(message string) *APIError {
	return &APIError{
		Status:  http.StatusConflict,
		Code:    CodeConflict,
		Message: message,
	}
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternal,
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewServiceUnavailableError creates a 503 Service Unavailable error
func NewServiceUnavailableError(message string) *APIError {
	return &APIError{
		Status:  http.StatusServiceUnavailable,
		Code:    CodeUnavailable,
		Message: message,
	}
}

// FromError maps a domain error onto the API taxonomy. resource and id name
// the thing being looked up for 404s.
func FromError(err error, resource, id string) *APIError {
	var apiErr *APIError
	var codeErr *budget.CodeError

	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.As(err, &codeErr):
		return &APIError{Status: http.StatusBadRequest, Code: CodeValidation, Message: codeErr.Message}
	case errors.Is(err, upload.ErrUnsupportedFileType):
		return NewUnsupportedFileTypeError(id)
	case errors.Is(err, upload.ErrItemNotFound):
		return NewItemNotFoundError(id)
	case errors.Is(err, upload.ErrInvalidItem), errors.Is(err, models.ErrNotValid):
		return &APIError{Status: http.StatusBadRequest, Code: CodeValidation, Message: err.Error()}
	case errors.Is(err, models.ErrNotFound):
		return NewNotFoundError(resource, id)
	case errors.Is(err, models.ErrAlreadyExists), errors.Is(err, upload.ErrSessionBusy):
		return NewConflictError(err.Error())
	case errors.Is(err, upload.ErrClosed):
		return NewServiceUnavailableError("upload pipeline is shutting down")
	}
	return NewInternalError("unexpected error", err)
}

// ErrorHandler returns an echo.HTTPErrorHandler rendering APIError JSON.
// Details of unknown errors are only exposed when exposeDetails is set.
func ErrorHandler(logger log.Logger, exposeDetails bool) echo.HTTPErrorHandler {
	if logger == nil {
		logger = log.Noop
	}

	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var apiErr *APIError
		var httpErr *echo.HTTPError

		switch {
		case errors.As(err, &apiErr):
		case errors.As(err, &httpErr):
			apiErr = &APIError{
				Status:  httpErr.Code,
				Code:    CodeHTTP,
				Message: fmt.Sprintf("%v", httpErr.Message),
			}
		default:
			apiErr = &APIError{
				Status:  http.StatusInternalServerError,
				Code:    CodeUnknown,
				Message: "An unexpected error occurred",
			}
			if exposeDetails {
				apiErr.Details = err.Error()
			}
		}

		if apiErr.Status >= http.StatusInternalServerError {
			logger.Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(apiErr.Status)
			return
		}
		_ = c.JSON(apiErr.Status, apiErr)
	}
}
