package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError carries the HTTP status a failure should be reported with.
// Controllers raise these and let utils.RespondError render the envelope.
type AppError struct {
	Status  int
	Message string
	Err     error
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

func New(status int, message string) *AppError {
	return &AppError{Status: status, Message: message}
}

func Validation(message string) *AppError {
	return New(http.StatusBadRequest, message)
}

func Authentication(message string) *AppError {
	return New(http.StatusUnauthorized, message)
}

func Authorization(message string) *AppError {
	return New(http.StatusForbidden, message)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, message)
}

func Internal(message string, err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Message: message, Err: err}
}

// StatusOf reports the HTTP status for any error, defaulting to 500
// for errors raised outside the taxonomy.
func StatusOf(err error) int {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the public-facing message, hiding wrapped causes.
func MessageOf(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "internal server error"
}
