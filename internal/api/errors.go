package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"laundry-service-backend/internal/errs"
	"laundry-service-backend/internal/logger"
)

// writeError maps a service error onto the {"error": "..."} envelope.
// Storage details are logged, never returned.
func (h *Handler) writeError(c *gin.Context, err error) {
	var (
		status  int
		message string
	)

	var ce *errs.ConflictError
	switch {
	case errors.Is(err, errs.ErrStaleOrder):
		status, message = http.StatusConflict, "Order was modified by another request, please retry"
	case errors.Is(err, errs.ErrInvalidTransition), errors.Is(err, errs.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.As(err, &ce):
		status, message = http.StatusBadRequest, ce.Message
	case errors.Is(err, errs.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, errs.ErrTooManyAttempts):
		status, message = http.StatusTooManyRequests, "Too many failed login attempts, try again later"
	case errors.Is(err, errs.ErrUnauthorized):
		status, message = http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, errs.ErrGenerationExhausted):
		status, message = http.StatusInternalServerError, "Failed to generate unique ID"
	default:
		status, message = http.StatusInternalServerError, "Internal server error"
	}

	if status >= http.StatusInternalServerError {
		h.log.Error("request failed",
			zap.String("request_id", logger.RequestID(c.Request.Context())),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": message})
}

// bindError reports a malformed request body.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(verrs[0])})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
}
