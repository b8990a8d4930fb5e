// Package response provides JSON response helpers for API handlers.
package response

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	apperrors "github.com/vladimiradmaev/diet-tracker/internal/errors"
	"github.com/vladimiradmaev/diet-tracker/internal/logger"
)

// Response represents the API response envelope.
type Response struct {
	Data  any        `json:"data,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
}

// ErrorBody is the error part of the envelope.
type ErrorBody struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
	RetryAfter int    `json:"retry_after,omitempty"` // seconds
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Response{Data: data})
}

func write(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// OK writes a 200 OK response.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Created writes a 201 Created response.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// NoContent writes a 204 No Content response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// StatusOf maps an application error kind to its HTTP status.
func StatusOf(err error) int {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case apperrors.ErrorTypeInvalidCredentials, apperrors.ErrorTypeInvalidToken:
		return http.StatusUnauthorized
	case apperrors.ErrorTypeInactiveSession:
		return http.StatusForbidden
	case apperrors.ErrorTypeNotFound, apperrors.ErrorTypeInsufficientData:
		return http.StatusNotFound
	case apperrors.ErrorTypeDuplicateField:
		return http.StatusConflict
	case apperrors.ErrorTypeInfeasibleMenu:
		return http.StatusUnprocessableEntity
	case apperrors.ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error writes an error response. Internal details of server errors are
// logged, not returned.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	body := &ErrorBody{Code: "INTERNAL", Message: "Internal server error"}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && status != http.StatusInternalServerError {
		body.Code = appErr.Code
		body.Message = appErr.Message
		body.Field = apperrors.Field(err)
	}

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	if wait := apperrors.RetryAfter(err); wait > 0 {
		seconds := int(math.Ceil(wait.Seconds()))
		body.RetryAfter = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	apperrors.NewHandler(logger.WithContext(r.Context())).Handle(r.Context(), err)
	write(w, status, Response{Error: body})
}

// BadRequest writes a 400 response for a malformed request.
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	Error(w, r, apperrors.NewValidationError(message))
}

// ValidationError writes a 400 response naming the offending field.
func ValidationError(w http.ResponseWriter, r *http.Request, field, message string) {
	Error(w, r, apperrors.NewValidationError(message).WithContext(apperrors.FieldKey, field))
}
