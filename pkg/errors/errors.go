package errors

import (
	"errors"
	"net/http"
)

// Standard error types
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("resource conflict")
	ErrBusinessRule       = errors.New("business rule violation")
	ErrInternal           = errors.New("internal server error")
	ErrTemporaryFailure   = errors.New("temporary failure")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("timeout")
	ErrRateLimited        = errors.New("rate limited")
	ErrMethodNotAllowed   = errors.New("method not allowed")
)

// Response codes carried in the envelope's code field
const (
	CodeOK                  = "OK"
	CodeCreated             = "CREATED"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeTokenExpired        = "TOKEN_EXPIRED"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeAccountPending      = "ACCOUNT_PENDING"
	CodeAccountRejected     = "ACCOUNT_REJECTED"
	CodeAccountSuspended    = "ACCOUNT_SUSPENDED"
	CodeAccountInactive     = "ACCOUNT_INACTIVE"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeValidation          = "VALIDATION_ERROR"
	CodeDuplicateEmail      = "DUPLICATE_EMAIL"
	CodeInvalidPassword     = "INVALID_PASSWORD"
	CodeNotFound            = "NOT_FOUND"
	CodeCustomerNotFound    = "CUSTOMER_NOT_FOUND"
	CodeProductNotFound     = "PRODUCT_NOT_FOUND"
	CodeAlreadyExists       = "ALREADY_EXISTS"
	CodeHasRelatedData      = "HAS_RELATED_DATA"
	CodeInsufficientStock   = "INSUFFICIENT_STOCK"
	CodeProductDiscontinued = "PRODUCT_DISCONTINUED"
	CodeProductSoldOut      = "PRODUCT_SOLD_OUT"
	CodeInvalidStatusChange = "INVALID_STATUS_CHANGE"
	CodeRateLimited         = "RATE_LIMITED"
	CodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	CodeInternal            = "INTERNAL_ERROR"
)

// FieldError describes a validation failure on a single input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError represents a structured application error with context
type AppError struct {
	Err        error
	StatusCode int
	Code       string
	Message    string
	Retryable  bool
	Fields     []FieldError
	Context    map[string]interface{}
}

// Error returns the error message
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithContext adds additional context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithCode overrides the response code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithField appends a field-level validation message
func (e *AppError) WithField(field, message string) *AppError {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
	return e
}

// NewAppError creates a new AppError with the given parameters
func NewAppError(err error, message string, statusCode int, retryable bool) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
		Code:       codeForStatus(statusCode),
		Retryable:  retryable,
		Context:    make(map[string]interface{}),
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeValidation
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeAlreadyExists
	case http.StatusMethodNotAllowed:
		return CodeMethodNotAllowed
	case http.StatusTooManyRequests:
		return CodeRateLimited
	default:
		return CodeInternal
	}
}

// As extracts an *AppError from err
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the response code carried by err, or INTERNAL_ERROR
func CodeOf(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return CodeInternal
}

// IsRetryable checks if the error is retryable
func IsRetryable(err error) bool {
	if appErr, ok := As(err); ok {
		return appErr.Retryable
	}

	return errors.Is(err, ErrTemporaryFailure) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrRateLimited)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) *AppError {
	return NewAppError(ErrNotFound, message, http.StatusNotFound, false)
}

// NewValidationError creates an invalid input error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrInvalidInput, message, http.StatusBadRequest, false)
}

// NewBusinessError creates a 400 error carrying a domain specific code
func NewBusinessError(code, message string) *AppError {
	return NewAppError(ErrBusinessRule, message, http.StatusBadRequest, false).WithCode(code)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(code, message string) *AppError {
	return NewAppError(ErrUnauthorized, message, http.StatusUnauthorized, false).WithCode(code)
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(code, message string) *AppError {
	return NewAppError(ErrForbidden, message, http.StatusForbidden, false).WithCode(code)
}

// NewDuplicateEmailError creates the error returned when an email is taken
func NewDuplicateEmailError() *AppError {
	return NewBusinessError(CodeDuplicateEmail, "email is already in use")
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	return NewAppError(ErrInternal, message, http.StatusInternalServerError, true)
}

// NewTemporaryError creates a temporary error
func NewTemporaryError(message string) *AppError {
	return NewAppError(ErrTemporaryFailure, message, http.StatusServiceUnavailable, true)
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(message string) *AppError {
	return NewAppError(ErrTimeout, message, http.StatusGatewayTimeout, true)
}

// NewRateLimitedError creates a rate limited error
func NewRateLimitedError(message string) *AppError {
	return NewAppError(ErrRateLimited, message, http.StatusTooManyRequests, true)
}

// NewMethodNotAllowedError creates the error for a known path hit with an unsupported method
func NewMethodNotAllowedError(message string) *AppError {
	return NewAppError(ErrMethodNotAllowed, message, http.StatusMethodNotAllowed, false)
}
