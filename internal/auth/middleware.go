package auth

import (
	"net/http"
	"strings"

	apperrors "team-task-backend/internal/errors"
	"team-task-backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	contextKeyUserID   = "user_id"
	contextKeyUsername = "username"
	contextKeyClaims   = "auth_claims"
)

// AuthMiddleware authenticates requests by their session token
type AuthMiddleware struct {
	sessions *SessionService
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(sessions *SessionService) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// RequireAuth validates the session token and sets the actor on the context.
// The token is read from the Authorization bearer header, then from the session cookie.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := m.token(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrNotAuthenticated.Error()})
			return
		}

		claims, err := m.sessions.Validate(c.Request.Context(), tokenString)
		if err != nil {
			if apperrors.IsAuthentication(err) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}
			logger.WithContext(c.Request.Context()).WithError(err).Error("session validation failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		SetActor(c, claims.UserID, claims.Username)
		c.Set(contextKeyClaims, claims)

		c.Next()
	}
}

func (m *AuthMiddleware) token(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		token := strings.TrimPrefix(header, "Bearer ")
		if token == header || token == "" {
			return "", false
		}
		return token, true
	}
	if cookie, err := c.Cookie(m.sessions.Config().CookieName); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}

// SetActor records the authenticated user on the gin and request contexts
func SetActor(c *gin.Context, userID uuid.UUID, username string) {
	c.Set(contextKeyUserID, userID)
	c.Set(contextKeyUsername, username)
	c.Request = c.Request.WithContext(logger.ContextWithUser(c.Request.Context(), userID.String()))
}

// GetUserID is a helper function to extract the authenticated user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(contextKeyUserID)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := userID.(uuid.UUID)
	return id, ok
}

// GetUsername is a helper function to extract username from context
func GetUsername(c *gin.Context) (string, bool) {
	username, exists := c.Get(contextKeyUsername)
	if !exists {
		return "", false
	}

	name, ok := username.(string)
	return name, ok
}

// GetAuthClaims is a helper function to extract full session claims from context
func GetAuthClaims(c *gin.Context) (*SessionClaims, bool) {
	claims, exists := c.Get(contextKeyClaims)
	if !exists {
		return nil, false
	}

	sessionClaims, ok := claims.(*SessionClaims)
	return sessionClaims, ok
}
