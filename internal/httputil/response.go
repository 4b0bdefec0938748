// Package httputil writes the JSON error bodies of the control API.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/isolator/internal/errors"
)

// ErrorResponse is the body of every failed control API call. Error names the error class,
// Code the specific domain error when one is known.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

type errorClass struct {
	target  error
	status  int
	name    string
	message string // empty echoes the error text
}

// errorClasses is checked in order; the first sentinel in the error's chain wins.
var errorClasses = []errorClass{
	{target: apperrors.ErrNotFound, status: http.StatusNotFound, name: "not_found"},
	{target: apperrors.ErrInvalidInput, status: http.StatusUnprocessableEntity, name: "invalid_input"},
	{target: apperrors.ErrConflict, status: http.StatusConflict, name: "conflict",
		message: "The isolation state changed concurrently"},
	{target: apperrors.ErrUnauthorized, status: http.StatusUnauthorized, name: "unauthorized",
		message: "A valid control password is required"},
	{target: apperrors.ErrForbidden, status: http.StatusForbidden, name: "forbidden",
		message: "The control password does not allow this operation"},
	{target: apperrors.ErrUnavailable, status: http.StatusServiceUnavailable, name: "unavailable",
		message: "The isolator cannot serve the request right now"},
}

func classify(err error) (int, ErrorResponse) {
	for _, class := range errorClasses {
		if !apperrors.Is(err, class.target) {
			continue
		}
		msg := class.message
		if msg == "" {
			msg = err.Error()
		}
		return class.status, ErrorResponse{Error: class.name, Message: msg, Code: apperrors.Code(err)}
	}
	// Unclassified errors are internal; their text and code stay in the log.
	return http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	}
}

// HandleErrorGin writes the status and JSON body for err. Errors with no sentinel in their
// chain become a 500 whose details are only logged.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	statusCode, errorResponse := classify(err)

	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_class", errorResponse.Error),
			slog.String("error_code", apperrors.Code(err)),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, errorResponse)
}

// HandleBadRequestGin writes a 400 for a body or query that could not be bound.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	})
}

// HandleValidationErrorGin writes a 422 for a request that failed validation.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}
