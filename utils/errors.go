package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Error taxonomy shared by services and controllers. Services return an *AppError carrying
// one of these kinds and controllers map the kind with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)

// AppError is a classified error whose message is safe to show to the client.
type AppError struct {
	Kind    error
	Message string
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Kind }

func NewError(kind error, format string, args ...interface{}) error {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) error {
	return NewError(ErrNotFound, format, args...)
}

func Invalid(format string, args ...interface{}) error {
	return NewError(ErrValidation, format, args...)
}

func Conflict(format string, args ...interface{}) error {
	return NewError(ErrConflict, format, args...)
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// RespondWithError writes {"msg": ...}. Unclassified errors are logged and replaced by a
// generic message.
func RespondWithError(c *gin.Context, err error) {
	status := StatusFor(err)
	msg := err.Error()
	var appErr *AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		msg = "Server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"msg": msg})
}
