package middleware

import (
	"fmt"
	"net/http"

	"team-task-backend/internal/logger"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// Recovery turns panics into 500 responses and reports them to Sentry.
// Reporting is a no-op when Sentry was not initialised.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		err, ok := recovered.(error)
		if !ok {
			err = fmt.Errorf("panic: %v", recovered)
		}

		hub := sentry.CurrentHub().Clone()
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("request_id", GetRequestID(c))
			scope.SetRequest(c.Request)
			hub.RecoverWithContext(c.Request.Context(), recovered)
		})

		logger.WithContext(c.Request.Context()).WithError(err).WithFields(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("panic recovered")

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}
