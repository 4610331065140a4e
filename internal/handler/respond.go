package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"vantahire/internal/domain"
	"vantahire/internal/middleware"
)

// respondError maps service errors onto the JSON error envelope.
func respondError(c *gin.Context, err error, fallback string) {
	var (
		vErrs domain.ValidationErrors
		vErr  *domain.ValidationError
	)
	switch {
	case errors.As(err, &vErrs):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"code":    "VALIDATION_FAILED",
			"details": vErrs,
		})
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"code":    "VALIDATION_FAILED",
			"field":   vErr.Field,
			"message": vErr.Message,
			"type":    vErr.Type,
		})
	case errors.Is(err, domain.ErrInvalidCredentials):
		errorJSON(c, http.StatusUnauthorized, "Invalid username or password", "INVALID_CREDENTIALS")
	case errors.Is(err, domain.ErrUnauthorized):
		errorJSON(c, http.StatusUnauthorized, "Authentication required", "MISSING_AUTH")
	case errors.Is(err, domain.ErrForbidden):
		errorJSON(c, http.StatusForbidden, "Access denied", "FORBIDDEN")
	case errors.Is(err, domain.ErrNotFound):
		errorJSON(c, http.StatusNotFound, "Not found", "NOT_FOUND")
	case errors.Is(err, domain.ErrUsernameTaken):
		errorJSON(c, http.StatusConflict, "Username already exists", "USERNAME_TAKEN")
	case errors.Is(err, domain.ErrInvalidTransition):
		errorJSON(c, http.StatusConflict, "Job has already been reviewed", "INVALID_TRANSITION")
	case errors.Is(err, domain.ErrConflict):
		errorJSON(c, http.StatusConflict, err.Error(), "CONFLICT")
	case errors.Is(err, domain.ErrJobInactive):
		errorJSON(c, http.StatusBadRequest, "This job is no longer accepting applications", "JOB_INACTIVE")
	case errors.Is(err, domain.ErrUnsupportedFormat):
		errorJSON(c, http.StatusBadRequest, "Unsupported export format", "UNSUPPORTED_FORMAT")
	case errors.Is(err, domain.ErrAIDisabled):
		errorJSON(c, http.StatusServiceUnavailable, "AI features are not configured", "AI_DISABLED")
	case errors.Is(err, domain.ErrAIUnavailable):
		errorJSON(c, http.StatusBadGateway, "AI analysis failed, please try again", "AI_UNAVAILABLE")
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
		errorJSON(c, http.StatusInternalServerError, fallback, "INTERNAL_ERROR")
	}
}

func errorJSON(c *gin.Context, code int, message, errorCode string) {
	c.JSON(code, gin.H{"error": message, "code": errorCode})
}

func badRequest(c *gin.Context, message string) {
	errorJSON(c, http.StatusBadRequest, message, "BAD_REQUEST")
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"code":    "BAD_REQUEST",
			"details": err.Error(),
		})
		return false
	}
	return true
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// actor returns the caller, or nil on public routes.
func actor(c *gin.Context) *domain.AuthInfo {
	info, _ := middleware.CurrentUser(c)
	return info
}
