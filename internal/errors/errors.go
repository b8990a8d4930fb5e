package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeValidation         ErrorType = "validation"
	ErrorTypeNotFound           ErrorType = "not_found"
	ErrorTypeDatabase           ErrorType = "database"
	ErrorTypeInternal           ErrorType = "internal"
	ErrorTypeInvalidCredentials ErrorType = "invalid_credentials"
	ErrorTypeInvalidToken       ErrorType = "invalid_token"
	ErrorTypeInactiveSession    ErrorType = "inactive_session"
	ErrorTypeDuplicateField     ErrorType = "duplicate_field"
	ErrorTypeRateLimit          ErrorType = "rate_limit"
	ErrorTypeInsufficientData   ErrorType = "insufficient_data"
	ErrorTypeInfeasibleMenu     ErrorType = "infeasible_menu"
)

// Context keys carried by specific error kinds.
const (
	FieldKey      = "field"
	RetryAfterKey = "retry_after"
)

// AppError represents an application error with additional context
type AppError struct {
	Type     ErrorType
	Message  string
	Code     string
	Internal error
	Context  map[string]interface{}
	Source   string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the internal error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is checks if the error matches the target
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return errors.Is(e.Internal, target)
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// LogFields returns structured logging fields
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}

	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}

	for k, v := range e.Context {
		fields = append(fields, k, v)
	}

	return fields
}

// New creates a new AppError
func New(errorType ErrorType, code, message string) *AppError {
	_, file, line, _ := runtime.Caller(1)
	source := fmt.Sprintf("%s:%d", file, line)

	return &AppError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Source:  source,
		Context: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error into AppError
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	_, file, line, _ := runtime.Caller(1)
	source := fmt.Sprintf("%s:%d", file, line)

	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: err,
		Source:   source,
		Context:  make(map[string]interface{}),
	}
}

// TypeOf returns the ErrorType of err, or ErrorTypeInternal when err is not an AppError.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// Field returns the column name carried by a duplicate field error.
func Field(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if f, ok := appErr.Context[FieldKey].(string); ok {
			return f
		}
	}
	return ""
}

// RetryAfter returns the remaining wait carried by a rate limit error.
func RetryAfter(err error) time.Duration {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if d, ok := appErr.Context[RetryAfterKey].(time.Duration); ok {
			return d
		}
	}
	return 0
}

// Handler provides error handling strategies
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a new error handler
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle processes an error according to its type
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		h.handleAppError(ctx, appErr)
	} else {
		h.handleGenericError(ctx, err)
	}
}

// handleAppError handles AppError instances
func (h *Handler) handleAppError(ctx context.Context, err *AppError) {
	switch err.Type {
	case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeDuplicateField,
		ErrorTypeInsufficientData, ErrorTypeInfeasibleMenu:
		h.logger.InfoContext(ctx, "Request rejected", err.LogFields()...)
	case ErrorTypeInvalidCredentials, ErrorTypeInvalidToken, ErrorTypeInactiveSession:
		h.logger.WarnContext(ctx, "Authentication error", err.LogFields()...)
	case ErrorTypeRateLimit:
		h.logger.WarnContext(ctx, "Rate limit error", err.LogFields()...)
	case ErrorTypeDatabase, ErrorTypeInternal:
		h.logger.ErrorContext(ctx, "Critical error", err.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Unknown error type", err.LogFields()...)
	}
}

// handleGenericError handles generic errors
func (h *Handler) handleGenericError(ctx context.Context, err error) {
	h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
}

// LogAndReturn logs an error and returns it
func (h *Handler) LogAndReturn(ctx context.Context, err error) error {
	h.Handle(ctx, err)
	return err
}

// Predefined errors
var (
	ErrInvalidInput       = New(ErrorTypeValidation, "INVALID_INPUT", "Invalid input provided")
	ErrNotFound           = New(ErrorTypeNotFound, "NOT_FOUND", "Resource not found")
	ErrDatabaseError      = New(ErrorTypeDatabase, "DB_ERROR", "Database operation failed")
	ErrInternalServer     = New(ErrorTypeInternal, "INTERNAL", "Internal server error")
	ErrInvalidCredentials = New(ErrorTypeInvalidCredentials, "INVALID_CREDENTIALS", "Incorrect username or password")
	ErrInvalidToken       = New(ErrorTypeInvalidToken, "INVALID_TOKEN", "Could not validate credentials")
	ErrInactiveSession    = New(ErrorTypeInactiveSession, "INACTIVE_SESSION", "Inactive user")
	ErrDuplicateField     = New(ErrorTypeDuplicateField, "DUPLICATE_FIELD", "Field already exists")
	ErrRateLimitExceeded  = New(ErrorTypeRateLimit, "RATE_LIMIT", "Rate limit exceeded")
	ErrInsufficientData   = New(ErrorTypeInsufficientData, "INSUFFICIENT_DATA", "Not enough data")
	ErrInfeasibleMenu     = New(ErrorTypeInfeasibleMenu, "INFEASIBLE_MENU", "Not found products for given amount of type")
)

// Convenience functions for common errors
func NewValidationError(message string) *AppError {
	return New(ErrorTypeValidation, "INVALID_INPUT", message)
}

func NewNotFoundError(resource string) *AppError {
	return New(ErrorTypeNotFound, "NOT_FOUND", fmt.Sprintf("%s not found", resource)).
		WithContext("resource", resource)
}

func NewDatabaseError(err error) *AppError {
	return Wrap(err, ErrorTypeDatabase, "DB_ERROR", "Database operation failed")
}

func NewInternalError(err error) *AppError {
	return Wrap(err, ErrorTypeInternal, "INTERNAL", "Internal server error")
}

func NewInvalidTokenError(reason string) *AppError {
	return New(ErrorTypeInvalidToken, "INVALID_TOKEN", "Could not validate credentials").
		WithContext("reason", reason)
}

// NewDuplicateFieldError reports a uniqueness violation on the given column.
func NewDuplicateFieldError(field string) *AppError {
	return New(ErrorTypeDuplicateField, "DUPLICATE_FIELD", fmt.Sprintf("%s already exists", field)).
		WithContext(FieldKey, field)
}

// NewRateLimitedError reports an operation attempted before wait has elapsed.
func NewRateLimitedError(message string, wait time.Duration) *AppError {
	return New(ErrorTypeRateLimit, "RATE_LIMIT", message).
		WithContext(RetryAfterKey, wait)
}

func NewInsufficientDataError(message string) *AppError {
	return New(ErrorTypeInsufficientData, "INSUFFICIENT_DATA", message)
}

func NewInfeasibleMenuError(message string) *AppError {
	return New(ErrorTypeInfeasibleMenu, "INFEASIBLE_MENU", message)
}
