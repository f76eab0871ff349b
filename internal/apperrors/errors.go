package apperrors

import (
	"errors"
	"net/http"
)

// Error codes returned in the error envelope.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeAuthentication = "AUTHENTICATION_ERROR"
	CodeAuthorization  = "AUTHORIZATION_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeServer         = "SERVER_ERROR"
)

// AppError carries an HTTP status and a stable code alongside the
// message. Handlers map any other error to a 500 without leaking
// internals beyond the message string.
type AppError struct {
	Message    string
	Code       string
	StatusCode int
}

func (e *AppError) Error() string {
	return e.Message
}

func Validation(msg string) *AppError {
	return &AppError{Message: msg, Code: CodeValidation, StatusCode: http.StatusBadRequest}
}

func Authentication(msg string) *AppError {
	return &AppError{Message: msg, Code: CodeAuthentication, StatusCode: http.StatusUnauthorized}
}

func Authorization(msg string) *AppError {
	return &AppError{Message: msg, Code: CodeAuthorization, StatusCode: http.StatusForbidden}
}

func NotFound(msg string) *AppError {
	return &AppError{Message: msg, Code: CodeNotFound, StatusCode: http.StatusNotFound}
}

func Conflict(msg string) *AppError {
	return &AppError{Message: msg, Code: CodeConflict, StatusCode: http.StatusConflict}
}

func Server(msg string) *AppError {
	return &AppError{Message: msg, Code: CodeServer, StatusCode: http.StatusInternalServerError}
}

// From coerces an arbitrary error into an AppError, defaulting to a
// 500 for anything untyped.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Server(err.Error())
}
