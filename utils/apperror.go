package utils

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

// AppError is an error with an HTTP status attached. Handlers raise it
// through gin's error list; the error-handling middleware translates it
// into the response envelope.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, message)
}

func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, message)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, message)
}

func Internal(err error) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: "Something went wrong!", Err: err}
}

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation (SQLSTATE 23505), the storage-level signal behind every
// "insert if absent" operation in this server.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
