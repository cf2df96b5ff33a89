package handlers_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"team-task-backend/internal/api/handlers"
	"team-task-backend/internal/auth"
	apperrors "team-task-backend/internal/errors"
	"team-task-backend/internal/mocks"
	"team-task-backend/internal/service"
	"team-task-backend/internal/testutils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// AuthHandlerTestSuite runs the auth handler behind the real session middleware
type AuthHandlerTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockUsers   *mocks.MockUserServiceInterface
	sessions    *auth.SessionService
	httpSuite   *testutils.HTTPTestSuite
	currentUser *service.UserResponse
}

// SetupTest sets up the test suite
func (suite *AuthHandlerTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockUsers = mocks.NewMockUserServiceInterface(suite.ctrl)

	sessions, err := auth.NewSessionService(&auth.SessionConfig{
		Secret:     "test-secret",
		TTL:        time.Hour,
		CookieName: "session",
		Issuer:     "team-task-backend",
	}, auth.NewMemoryTokenStore())
	suite.Require().NoError(err)
	suite.sessions = sessions
	suite.currentUser = &service.UserResponse{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}

	handler := handlers.NewAuthHandler(suite.mockUsers, sessions)
	requireAuth := auth.NewAuthMiddleware(sessions).RequireAuth()

	suite.httpSuite = testutils.SetupHTTPTest()
	group := suite.httpSuite.Router.Group("/api/auth")
	{
		group.POST("/register", handler.Register)
		group.POST("/login", handler.Login)
		group.POST("/logout", requireAuth, handler.Logout)
		group.GET("/me", requireAuth, handler.Me)
		group.PUT("/password", requireAuth, handler.ChangePassword)
	}
}

// TearDownTest cleans up after each test
func (suite *AuthHandlerTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *AuthHandlerTestSuite) login() string {
	suite.mockUsers.EXPECT().
		Authenticate(gomock.Any(), &service.LoginRequest{Username: "alice", Password: "secret123"}).
		Return(suite.currentUser, nil)

	recorder := suite.httpSuite.MakeRequest(http.MethodPost, "/api/auth/login",
		map[string]string{"username": "alice", "password": "secret123"})

	var response handlers.SessionResponse
	testutils.AssertJSONResponse(suite.T(), recorder, http.StatusOK, &response)
	return response.Token
}

func (suite *AuthHandlerTestSuite) TestRegister_StartsSession() {
	suite.mockUsers.EXPECT().Register(gomock.Any(), gomock.Any()).Return(suite.currentUser, nil)

	recorder := suite.httpSuite.MakeRequest(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})

	var response handlers.SessionResponse
	testutils.AssertJSONResponse(suite.T(), recorder, http.StatusCreated, &response)
	suite.Equal("alice", response.User.Username)
	suite.Equal("Bearer", response.TokenType)
	suite.NotEmpty(response.Token)

	cookie := recorder.Header().Get("Set-Cookie")
	suite.True(strings.HasPrefix(cookie, "session="+response.Token))
	suite.Contains(cookie, "HttpOnly")
}

func (suite *AuthHandlerTestSuite) TestRegister_Conflict() {
	suite.mockUsers.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, apperrors.ErrUserExists)

	recorder := suite.httpSuite.MakeRequest(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	testutils.AssertErrorResponse(suite.T(), recorder, http.StatusConflict, "already exists")
	suite.Empty(recorder.Header().Get("Set-Cookie"))
}

func (suite *AuthHandlerTestSuite) TestLogin_InvalidCredentials() {
	suite.mockUsers.EXPECT().Authenticate(gomock.Any(), gomock.Any()).Return(nil, apperrors.ErrInvalidCredentials)

	recorder := suite.httpSuite.MakeRequest(http.MethodPost, "/api/auth/login",
		map[string]string{"username": "alice", "password": "wrong"})
	testutils.AssertErrorResponse(suite.T(), recorder, http.StatusUnauthorized, "invalid username or password")
}

func (suite *AuthHandlerTestSuite) TestMe() {
	token := suite.login()
	suite.mockUsers.EXPECT().GetByID(gomock.Any(), suite.currentUser.ID).Return(suite.currentUser, nil)

	recorder := suite.httpSuite.MakeRequestWithHeaders(http.MethodGet, "/api/auth/me", nil, testutils.BearerHeader(token))

	var response service.UserResponse
	testutils.AssertJSONResponse(suite.T(), recorder, http.StatusOK, &response)
	suite.Equal(suite.currentUser.ID, response.ID)
}

func (suite *AuthHandlerTestSuite) TestMe_Unauthenticated() {
	recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/api/auth/me", nil)
	testutils.AssertErrorResponse(suite.T(), recorder, http.StatusUnauthorized, "authentication required")
}

func (suite *AuthHandlerTestSuite) TestLogout_RevokesSession() {
	token := suite.login()

	recorder := suite.httpSuite.MakeRequestWithHeaders(http.MethodPost, "/api/auth/logout", nil, testutils.BearerHeader(token))
	testutils.AssertJSONResponse(suite.T(), recorder, http.StatusOK, nil)
	suite.Contains(recorder.Header().Get("Set-Cookie"), "Max-Age=0")

	recorder = suite.httpSuite.MakeRequestWithHeaders(http.MethodGet, "/api/auth/me", nil, testutils.BearerHeader(token))
	testutils.AssertErrorResponse(suite.T(), recorder, http.StatusUnauthorized, "revoked")
}

func (suite *AuthHandlerTestSuite) TestChangePassword() {
	token := suite.login()

	suite.T().Run("Success", func(t *testing.T) {
		suite.mockUsers.EXPECT().
			ChangePassword(gomock.Any(), suite.currentUser.ID, &service.ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "brand-new"}).
			Return(nil)

		recorder := suite.httpSuite.MakeRequestWithHeaders(http.MethodPut, "/api/auth/password",
			map[string]string{"current_password": "secret123", "new_password": "brand-new"}, testutils.BearerHeader(token))
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	suite.T().Run("Wrong current password", func(t *testing.T) {
		suite.mockUsers.EXPECT().
			ChangePassword(gomock.Any(), suite.currentUser.ID, gomock.Any()).
			Return(apperrors.NewAuthenticationError("current password is incorrect"))

		recorder := suite.httpSuite.MakeRequestWithHeaders(http.MethodPut, "/api/auth/password",
			map[string]string{"current_password": "nope", "new_password": "brand-new"}, testutils.BearerHeader(token))
		testutils.AssertErrorResponse(t, recorder, http.StatusUnauthorized, "current password is incorrect")
	})
}

func TestAuthHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func TestSessionCookieAuthenticates(t *testing.T) {
	sessions, err := auth.NewSessionService(&auth.SessionConfig{
		Secret: "test-secret", TTL: time.Hour, CookieName: "sid", Issuer: "team-task-backend",
	}, auth.NewMemoryTokenStore())
	require.NoError(t, err)

	session, err := sessions.Issue(uuid.New(), "alice")
	require.NoError(t, err)

	httpSuite := testutils.SetupHTTPTest()
	httpSuite.Router.GET("/whoami", auth.NewAuthMiddleware(sessions).RequireAuth(), func(c *gin.Context) {
		username, _ := auth.GetUsername(c)
		c.String(http.StatusOK, username)
	})

	recorder := httpSuite.MakeRequestWithHeaders(http.MethodGet, "/whoami", nil, map[string]string{"Cookie": "sid=" + session.Token})
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "alice", recorder.Body.String())
}
