package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the caller
type Kind string

const (
	KindValidation   Kind = "validation"
	KindEmptyInvoice Kind = "empty_invoice"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindPersistence  Kind = "persistence"
	KindRender       Kind = "render"
	KindArtifact     Kind = "artifact"
	KindInternal     Kind = "internal"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    Kind         `json:"kind"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	Err     error        `json:"-"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any *AppError of the same Kind, so errors.Is(err, ErrEmptyInvoice)
// holds for every empty-invoice error regardless of message.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind != "" && t.Kind == e.Kind
}

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "Resource not found"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Kind: KindInternal, Message: "Internal server error"}
	ErrValidation     = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindValidation, Message: "Validation failed"}
	ErrEmptyInvoice   = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindEmptyInvoice, Message: "Invoice has no line items"}
	ErrPersistence    = &AppError{Code: http.StatusInternalServerError, Kind: KindPersistence, Message: "Invoice could not be saved"}
	ErrRender         = &AppError{Code: http.StatusInternalServerError, Kind: KindRender, Message: "Invoice document could not be rendered"}
	ErrArtifact       = &AppError{Code: http.StatusInternalServerError, Kind: KindArtifact, Message: "Invoice saved but document could not be published"}
)

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindValidation,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: message,
	}
}

// NewPersistenceError wraps a storage failure. Nothing was committed.
func NewPersistenceError(err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindPersistence,
		Message: ErrPersistence.Message,
		Err:     err,
	}
}

// NewRenderError wraps a document rendering failure.
func NewRenderError(err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindRender,
		Message: ErrRender.Message,
		Err:     err,
	}
}

// NewArtifactError reports an invoice that was committed while its document
// could not be moved into place.
func NewArtifactError(invoiceNumber string, err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindArtifact,
		Message: "Invoice " + invoiceNumber + " saved but document could not be published",
		Err:     err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    ErrInternalServer.Code,
		Kind:    KindInternal,
		Message: ErrInternalServer.Message,
		Err:     err,
	}
}
