package api

import (
	"errors"
	"net/http"

	"wellcoach/coaching-api/internal/service"
	"wellcoach/coaching-api/internal/storage"

	"github.com/gin-gonic/gin"
)

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, storage.ErrNotConfigured):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError writes err as {"error": ...}. Unexpected failures are recorded
// on the context for the request logger and hidden from the caller.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		abortWithError(c, status, "An unexpected error occurred")
		return
	}
	if errors.Is(err, service.ErrNoActiveSubscription) {
		c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "reason": service.ReasonNoSubscription})
		return
	}
	abortWithError(c, status, err.Error())
}
