package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"team-task-backend/internal/database/models"
	apperrors "team-task-backend/internal/errors"
	"team-task-backend/internal/mocks"
	"team-task-backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserServiceTestSuite defines the test suite for UserService
type UserServiceTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockUserRepo *mocks.MockUserRepositoryInterface
	userService  *service.UserService
	ctx          context.Context
}

// SetupTest sets up the test suite
func (suite *UserServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockUserRepo = mocks.NewMockUserRepositoryInterface(suite.ctrl)
	suite.userService = service.NewUserService(suite.mockUserRepo, service.NewValidator()).WithBcryptCost(bcrypt.MinCost)
	suite.ctx = context.Background()
}

// TearDownTest cleans up after each test
func (suite *UserServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *UserServiceTestSuite) storedUser(password string) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	suite.Require().NoError(err)
	return &models.User{
		BaseModel:    models.BaseModel{ID: uuid.New(), CreatedAt: time.Now()},
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: string(hash),
	}
}

func (suite *UserServiceTestSuite) TestRegister_Success() {
	suite.mockUserRepo.EXPECT().GetByUsername(suite.ctx, "alice").Return(nil, gorm.ErrRecordNotFound)
	suite.mockUserRepo.EXPECT().GetByEmail(suite.ctx, "alice@example.com").Return(nil, gorm.ErrRecordNotFound)
	suite.mockUserRepo.EXPECT().Create(suite.ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, user *models.User) error {
			suite.Equal("alice", user.Username)
			suite.Equal("alice@example.com", user.Email)
			suite.NotEqual("secret123", user.PasswordHash)
			suite.NoError(bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
			user.ID = uuid.New()
			return nil
		})

	resp, err := suite.userService.Register(suite.ctx, &service.RegisterRequest{
		Username: " alice ",
		Email:    "Alice@Example.com",
		Password: "secret123",
	})

	suite.Require().NoError(err)
	suite.Equal("alice", resp.Username)
	suite.NotEqual(uuid.Nil, resp.ID)
}

func (suite *UserServiceTestSuite) TestRegister_Duplicates() {
	suite.T().Run("username taken", func(t *testing.T) {
		suite.mockUserRepo.EXPECT().GetByUsername(suite.ctx, "alice").Return(suite.storedUser("x"), nil)

		_, err := suite.userService.Register(suite.ctx, &service.RegisterRequest{Username: "alice", Email: "new@example.com", Password: "secret123"})
		suite.ErrorIs(err, apperrors.ErrUserExists)
	})

	suite.T().Run("email taken", func(t *testing.T) {
		suite.mockUserRepo.EXPECT().GetByUsername(suite.ctx, "bob").Return(nil, gorm.ErrRecordNotFound)
		suite.mockUserRepo.EXPECT().GetByEmail(suite.ctx, "alice@example.com").Return(suite.storedUser("x"), nil)

		_, err := suite.userService.Register(suite.ctx, &service.RegisterRequest{Username: "bob", Email: "alice@example.com", Password: "secret123"})
		suite.ErrorIs(err, apperrors.ErrUserExists)
	})

	suite.T().Run("unique index race", func(t *testing.T) {
		suite.mockUserRepo.EXPECT().GetByUsername(suite.ctx, "carol").Return(nil, gorm.ErrRecordNotFound)
		suite.mockUserRepo.EXPECT().GetByEmail(suite.ctx, "carol@example.com").Return(nil, gorm.ErrRecordNotFound)
		suite.mockUserRepo.EXPECT().Create(suite.ctx, gomock.Any()).Return(gorm.ErrDuplicatedKey)

		_, err := suite.userService.Register(suite.ctx, &service.RegisterRequest{Username: "carol", Email: "carol@example.com", Password: "secret123"})
		suite.ErrorIs(err, apperrors.ErrUserExists)
	})
}

func (suite *UserServiceTestSuite) TestRegister_Validation() {
	testCases := []struct {
		name  string
		req   service.RegisterRequest
		field string
	}{
		{"short username", service.RegisterRequest{Username: "al", Email: "a@example.com", Password: "secret123"}, "username"},
		{"long username", service.RegisterRequest{Username: strings.Repeat("a", 31), Email: "a@example.com", Password: "secret123"}, "username"},
		{"username with symbols", service.RegisterRequest{Username: "al-ice", Email: "a@example.com", Password: "secret123"}, "username"},
		{"bad email", service.RegisterRequest{Username: "alice", Email: "not-an-email", Password: "secret123"}, "email"},
		{"short password", service.RegisterRequest{Username: "alice", Email: "a@example.com", Password: "12345"}, "password"},
		{"missing password", service.RegisterRequest{Username: "alice", Email: "a@example.com"}, "password"},
	}

	for _, tc := range testCases {
		suite.T().Run(tc.name, func(t *testing.T) {
			req := tc.req
			_, err := suite.userService.Register(suite.ctx, &req)

			var verr *apperrors.ValidationError
			suite.Require().ErrorAs(err, &verr)
			suite.Equal(tc.field, verr.Field)
		})
	}
}

func (suite *UserServiceTestSuite) TestAuthenticate() {
	user := suite.storedUser("secret123")

	suite.T().Run("by username", func(t *testing.T) {
		suite.mockUserRepo.EXPECT().GetByUsername(suite.ctx, "alice").Return(user, nil)

		resp, err := suite.userService.Authenticate(suite.ctx, &service.LoginRequest{Username: "alice", Password: "secret123"})
		suite.NoError(err)
		suite.Equal(user.ID, resp.ID)
	})

	suite.T().Run("by email", func(t *testing.T) {
		suite.mockUserRepo.EXPECT().GetByEmail(suite.ctx, "alice@example.com").Return(user, nil)

		_, err := suite.userService.Authenticate(suite.ctx, &service.LoginRequest{Username: "alice@example.com", Password: "secret123"})
		suite.NoError(err)
	})

	suite.T().Run("wrong password and unknown user look the same", func(t *testing.T) {
		suite.mockUserRepo.EXPECT().GetByUsername(suite.ctx, "alice").Return(user, nil)
		suite.mockUserRepo.EXPECT().GetByUsername(suite.ctx, "nobody").Return(nil, gorm.ErrRecordNotFound)

		_, wrongPassword := suite.userService.Authenticate(suite.ctx, &service.LoginRequest{Username: "alice", Password: "wrong"})
		_, unknownUser := suite.userService.Authenticate(suite.ctx, &service.LoginRequest{Username: "nobody", Password: "secret123"})

		suite.ErrorIs(wrongPassword, apperrors.ErrInvalidCredentials)
		suite.ErrorIs(unknownUser, apperrors.ErrInvalidCredentials)
	})

	suite.T().Run("repository failure is not masked", func(t *testing.T) {
		suite.mockUserRepo.EXPECT().GetByUsername(suite.ctx, "alice").Return(nil, errors.New("connection refused"))

		_, err := suite.userService.Authenticate(suite.ctx, &service.LoginRequest{Username: "alice", Password: "secret123"})
		suite.Error(err)
		suite.False(apperrors.IsAuthentication(err))
	})
}

func (suite *UserServiceTestSuite) TestGetByID() {
	user := suite.storedUser("x")
	suite.mockUserRepo.EXPECT().GetByID(suite.ctx, user.ID).Return(user, nil)
	resp, err := suite.userService.GetByID(suite.ctx, user.ID)
	suite.NoError(err)
	suite.Equal("alice@example.com", resp.Email)

	missing := uuid.New()
	suite.mockUserRepo.EXPECT().GetByID(suite.ctx, missing).Return(nil, gorm.ErrRecordNotFound)
	_, err = suite.userService.GetByID(suite.ctx, missing)
	suite.ErrorIs(err, apperrors.ErrUserNotFound)
}

func (suite *UserServiceTestSuite) TestResolveIdentifier() {
	user := suite.storedUser("x")
	suite.mockUserRepo.EXPECT().GetByEmail(suite.ctx, "alice@example.com").Return(user, nil)
	resp, err := suite.userService.ResolveIdentifier(suite.ctx, " alice@example.com ")
	suite.NoError(err)
	suite.Equal(user.ID, resp.ID)

	suite.mockUserRepo.EXPECT().GetByUsername(suite.ctx, "ghost").Return(nil, gorm.ErrRecordNotFound)
	_, err = suite.userService.ResolveIdentifier(suite.ctx, "ghost")
	suite.ErrorIs(err, apperrors.ErrUserNotFound)

	_, err = suite.userService.ResolveIdentifier(suite.ctx, "   ")
	suite.True(apperrors.IsValidation(err))
}

func (suite *UserServiceTestSuite) TestChangePassword() {
	user := suite.storedUser("secret123")

	suite.T().Run("success", func(t *testing.T) {
		suite.mockUserRepo.EXPECT().GetByID(suite.ctx, user.ID).Return(user, nil)
		suite.mockUserRepo.EXPECT().UpdatePassword(suite.ctx, user.ID, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ uuid.UUID, hash string) error {
				suite.NoError(bcrypt.CompareHashAndPassword([]byte(hash), []byte("brand-new")))
				return nil
			})

		err := suite.userService.ChangePassword(suite.ctx, user.ID, &service.ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "brand-new"})
		suite.NoError(err)
	})

	suite.T().Run("wrong current password", func(t *testing.T) {
		suite.mockUserRepo.EXPECT().GetByID(suite.ctx, user.ID).Return(user, nil)

		err := suite.userService.ChangePassword(suite.ctx, user.ID, &service.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "brand-new"})
		suite.True(apperrors.IsAuthentication(err))
		suite.EqualError(err, "current password is incorrect")
	})

	suite.T().Run("new password too short", func(t *testing.T) {
		err := suite.userService.ChangePassword(suite.ctx, user.ID, &service.ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "123"})
		suite.True(apperrors.IsValidation(err))
	})
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
