package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hestia/internal/services/subscriptions"
	"github.com/UnknownOlympus/hestia/internal/services/tasks"
	"github.com/UnknownOlympus/hestia/internal/services/users"
	"github.com/gin-gonic/gin"
)

var (
	errInvalidRequestBody = errors.New("invalid request body")
	errInvalidTaskID      = errors.New("invalid task id")
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newForbiddenError(message string) apiError {
	return newAPIError(http.StatusForbidden, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

var errInternal = newAPIError(http.StatusInternalServerError, "internal server error")

// fail maps a service error onto an HTTP error. Unknown errors are logged and hidden.
func fail(c *gin.Context, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, tasks.ErrUnknownDepartment),
		errors.Is(err, tasks.ErrEmptyTitle),
		errors.Is(err, tasks.ErrEmptyUpdate),
		errors.Is(err, tasks.ErrEmptyStatus),
		errors.Is(err, tasks.ErrEmptyComment),
		errors.Is(err, users.ErrInvalidUser),
		errors.Is(err, subscriptions.ErrInvalidSubscription):
		abort(c, newBadRequestError(err.Error()))
	case errors.Is(err, tasks.ErrNotFound), errors.Is(err, users.ErrUserNotFound):
		abort(c, newNotFoundError(err.Error()))
	case errors.Is(err, users.ErrUserExists):
		abort(c, newConflictError(err.Error()))
	case errors.Is(err, users.ErrInvalidCredentials):
		abort(c, newUnauthorizedError(err.Error()))
	default:
		log.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method, "route", c.FullPath(), sl.Err(err))
		abort(c, errInternal)
	}
}
