package handlers

import (
	"net/http"
	"time"

	"team-task-backend/internal/auth"
	apperrors "team-task-backend/internal/errors"
	"team-task-backend/internal/logger"
	"team-task-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration, login and session management
type AuthHandler struct {
	userService service.UserServiceInterface
	sessions    *auth.SessionService
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(userService service.UserServiceInterface, sessions *auth.SessionService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		sessions:    sessions,
	}
}

// SessionResponse is returned by register and login. The token is also set
// as an HttpOnly cookie.
type SessionResponse struct {
	User      *service.UserResponse `json:"user"`
	Token     string                `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType string                `json:"token_type" example:"Bearer"`
	ExpiresAt time.Time             `json:"expires_at"`
}

// Register handles POST /api/auth/register
// @Summary Register a new user
// @Description Create an account and start a session for it
// @Tags authentication
// @Accept json
// @Produce json
// @Param user body service.RegisterRequest true "Account data"
// @Success 201 {object} SessionResponse "Account created and logged in"
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 409 {object} ErrorResponse "Username or email already taken"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	user, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.startSession(c, http.StatusCreated, user)
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Description Check credentials and start a session. The username field also accepts the account email.
// @Tags authentication
// @Accept json
// @Produce json
// @Param credentials body service.LoginRequest true "Credentials"
// @Success 200 {object} SessionResponse "Logged in"
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 401 {object} ErrorResponse "Invalid username or password"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.startSession(c, http.StatusOK, user)
}

// Logout handles POST /api/auth/logout
// @Summary Log out
// @Description Revoke the current session and clear the session cookie
// @Tags authentication
// @Produce json
// @Success 200 {object} MessageResponse "Logged out"
// @Failure 401 {object} ErrorResponse "Not authenticated"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := auth.GetAuthClaims(c)
	if !ok {
		respondError(c, apperrors.ErrNotAuthenticated)
		return
	}

	if err := h.sessions.Revoke(c.Request.Context(), claims); err != nil {
		respondError(c, err)
		return
	}

	h.setCookie(c, "", -1)
	logger.WithContext(c.Request.Context()).Info("session revoked")
	c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// Me handles GET /api/auth/me
// @Summary Current user
// @Description Get the authenticated user's profile
// @Tags authentication
// @Produce json
// @Success 200 {object} service.UserResponse "Current user"
// @Failure 401 {object} ErrorResponse "Not authenticated"
// @Failure 404 {object} ErrorResponse "User not found"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ChangePassword handles PUT /api/auth/password
// @Summary Change password
// @Description Replace the authenticated user's password after checking the current one
// @Tags authentication
// @Accept json
// @Produce json
// @Param passwords body service.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} MessageResponse "Password changed"
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 401 {object} ErrorResponse "Not authenticated or current password is incorrect"
// @Security BearerAuth
// @Router /auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	var req service.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Password changed successfully"})
}

func (h *AuthHandler) startSession(c *gin.Context, status int, user *service.UserResponse) {
	session, err := h.sessions.Issue(user.ID, user.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setCookie(c, session.Token, int(time.Until(session.ExpiresAt).Seconds()))
	c.JSON(status, SessionResponse{
		User:      user,
		Token:     session.Token,
		TokenType: "Bearer",
		ExpiresAt: session.ExpiresAt,
	})
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	cfg := h.sessions.Config()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName, value, maxAge, "/", "", cfg.CookieSecure, true)
}
