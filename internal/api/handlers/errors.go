package handlers

import (
	"errors"
	"net/http"

	"team-task-backend/internal/auth"
	apperrors "team-task-backend/internal/errors"
	"team-task-backend/internal/logger"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorResponse represents a standard API error response
type ErrorResponse struct {
	Error string `json:"error" example:"error message"`
	Field string `json:"field,omitempty" example:"title"`
}

// MessageResponse represents a plain confirmation message
type MessageResponse struct {
	Message string `json:"message" example:"Task deleted successfully"`
}

// statusFor maps a service error to its HTTP status
func statusFor(err error) int {
	switch {
	case apperrors.IsValidation(err),
		errors.Is(err, apperrors.ErrInvalidAssignee),
		errors.Is(err, apperrors.ErrCannotRemoveTopRole):
		return http.StatusBadRequest
	case apperrors.IsAuthentication(err):
		return http.StatusUnauthorized
	case apperrors.IsAuthorization(err):
		return http.StatusForbidden
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case apperrors.IsAlreadyExists(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with its mapped status. Unexpected errors are
// logged, reported to Sentry and hidden from the client.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.WithContext(c.Request.Context()).WithError(err).WithFields(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("request failed")
		sentry.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("path", c.FullPath())
			scope.SetRequest(c.Request)
			sentry.CaptureException(err)
		})
		_ = c.Error(err)
		c.JSON(status, ErrorResponse{Error: "internal server error"})
		return
	}

	response := ErrorResponse{Error: err.Error()}
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		response.Field = verr.Field
	}
	c.JSON(status, response)
}

// badRequest responds 400 with a message, used for malformed input the services never see
func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// actor returns the authenticated user. Routes using it sit behind RequireAuth,
// so a missing actor is answered with 401.
func actor(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: apperrors.ErrNotAuthenticated.Error()})
		return uuid.Nil, false
	}
	return userID, true
}

// uuidParam parses a UUID path parameter
func uuidParam(c *gin.Context, name, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+entity+" ID")
		return uuid.Nil, false
	}
	return id, true
}
