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
)

// TeamServiceTestSuite defines the test suite for TeamService
type TeamServiceTestSuite struct {
	suite.Suite
	ctrl           *gomock.Controller
	mockTeamRepo   *mocks.MockTeamRepositoryInterface
	mockTransactor *mocks.MockTransactorInterface
	mockUow        *mocks.MockUnitOfWorkInterface
	mockUowTeams   *mocks.MockTeamRepositoryInterface
	mockUowMembers *mocks.MockMembershipRepositoryInterface
	mockMembers    *mocks.MockMembershipServiceInterface
	mockUsers      *mocks.MockUserServiceInterface
	teamService    *service.TeamService
	ctx            context.Context
	actor          uuid.UUID
	teamID         uuid.UUID
}

// SetupTest sets up the test suite
func (suite *TeamServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockTeamRepo = mocks.NewMockTeamRepositoryInterface(suite.ctrl)
	suite.mockTransactor = mocks.NewMockTransactorInterface(suite.ctrl)
	suite.mockUow = mocks.NewMockUnitOfWorkInterface(suite.ctrl)
	suite.mockUowTeams = mocks.NewMockTeamRepositoryInterface(suite.ctrl)
	suite.mockUowMembers = mocks.NewMockMembershipRepositoryInterface(suite.ctrl)
	suite.mockMembers = mocks.NewMockMembershipServiceInterface(suite.ctrl)
	suite.mockUsers = mocks.NewMockUserServiceInterface(suite.ctrl)
	suite.teamService = service.NewTeamService(suite.mockTeamRepo, suite.mockTransactor, suite.mockMembers, suite.mockUsers, service.NewValidator())
	suite.ctx = context.Background()
	suite.actor = uuid.New()
	suite.teamID = uuid.New()
}

// TearDownTest cleans up after each test
func (suite *TeamServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *TeamServiceTestSuite) expectRole(role models.TeamRole) {
	suite.mockMembers.EXPECT().RoleOf(suite.ctx, suite.teamID, suite.actor).Return(role, nil)
}

func (suite *TeamServiceTestSuite) expectNotMember() {
	suite.mockMembers.EXPECT().RoleOf(suite.ctx, suite.teamID, suite.actor).Return(models.TeamRole(""), apperrors.ErrMemberNotFound)
}

func (suite *TeamServiceTestSuite) summary(role models.TeamRole, count int64) *models.TeamSummary {
	return &models.TeamSummary{
		Team: models.Team{
			BaseModel: models.BaseModel{ID: suite.teamID, CreatedAt: time.Now(), UpdatedAt: time.Now()},
			Name:      "Eng",
			CreatedBy: suite.actor,
		},
		Role:          role,
		MemberCount:   count,
		CreatedByName: "alice",
	}
}

func (suite *TeamServiceTestSuite) TestCreateTeam_Success() {
	suite.mockTransactor.EXPECT().Begin(suite.ctx).Return(suite.mockUow, nil)
	suite.mockUow.EXPECT().Teams().Return(suite.mockUowTeams)
	suite.mockUow.EXPECT().Members().Return(suite.mockUowMembers)
	suite.mockUowTeams.EXPECT().Create(suite.ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, team *models.Team) error {
			suite.Equal("Eng", team.Name)
			suite.Equal(suite.actor, team.CreatedBy)
			team.ID = suite.teamID
			return nil
		})
	suite.mockUowMembers.EXPECT().Create(suite.ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, m *models.TeamMember) error {
			suite.Equal(suite.teamID, m.TeamID)
			suite.Equal(suite.actor, m.UserID)
			suite.Equal(models.TeamRoleOwner, m.Role)
			return nil
		})
	suite.mockUow.EXPECT().Commit().Return(nil)
	suite.mockUow.EXPECT().Rollback().Return(nil)
	suite.mockTeamRepo.EXPECT().GetSummary(suite.ctx, suite.teamID, suite.actor).Return(suite.summary(models.TeamRoleOwner, 1), nil)

	resp, err := suite.teamService.CreateTeam(suite.ctx, suite.actor, &service.CreateTeamRequest{Name: "  Eng  "})

	suite.NoError(err)
	suite.Equal("Eng", resp.Name)
	suite.Equal(models.TeamRoleOwner, resp.Role)
	suite.Equal(int64(1), resp.MemberCount)
}

func (suite *TeamServiceTestSuite) TestCreateTeam_OwnerInsertFailureRollsBack() {
	suite.mockTransactor.EXPECT().Begin(suite.ctx).Return(suite.mockUow, nil)
	suite.mockUow.EXPECT().Teams().Return(suite.mockUowTeams)
	suite.mockUow.EXPECT().Members().Return(suite.mockUowMembers)
	suite.mockUowTeams.EXPECT().Create(suite.ctx, gomock.Any()).Return(nil)
	suite.mockUowMembers.EXPECT().Create(suite.ctx, gomock.Any()).Return(errors.New("insert failed"))
	// no Commit expected; the deferred Rollback releases the transaction
	suite.mockUow.EXPECT().Rollback().Return(nil)

	resp, err := suite.teamService.CreateTeam(suite.ctx, suite.actor, &service.CreateTeamRequest{Name: "Eng"})

	suite.Error(err)
	suite.Nil(resp)
	suite.Contains(err.Error(), "failed to add team owner")
}

func (suite *TeamServiceTestSuite) TestCreateTeam_Validation() {
	testCases := []struct {
		name string
		req  *service.CreateTeamRequest
	}{
		{"empty name", &service.CreateTeamRequest{Name: ""}},
		{"blank name", &service.CreateTeamRequest{Name: "   "}},
		{"name too long", &service.CreateTeamRequest{Name: strings.Repeat("x", 101)}},
	}
	for _, tc := range testCases {
		suite.T().Run(tc.name, func(t *testing.T) {
			_, err := suite.teamService.CreateTeam(suite.ctx, suite.actor, tc.req)
			suite.True(apperrors.IsValidation(err), "expected validation error, got %v", err)
		})
	}

	long := strings.Repeat("d", 1001)
	_, err := suite.teamService.CreateTeam(suite.ctx, suite.actor, &service.CreateTeamRequest{Name: "Eng", Description: &long})
	suite.True(apperrors.IsValidation(err))

	exactly := strings.Repeat("x", 100)
	suite.mockTransactor.EXPECT().Begin(suite.ctx).Return(nil, errors.New("stop here"))
	_, err = suite.teamService.CreateTeam(suite.ctx, suite.actor, &service.CreateTeamRequest{Name: exactly})
	suite.EqualError(err, "stop here")
}

func (suite *TeamServiceTestSuite) TestGetTeam_NonMemberGetsNotFound() {
	suite.expectNotMember()

	resp, err := suite.teamService.GetTeam(suite.ctx, suite.actor, suite.teamID)

	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrTeamNotFound)
}

func (suite *TeamServiceTestSuite) TestGetTeam_WithMembers() {
	suite.expectRole(models.TeamRoleMember)
	suite.mockTeamRepo.EXPECT().GetSummary(suite.ctx, suite.teamID, suite.actor).Return(suite.summary(models.TeamRoleMember, 2), nil)
	suite.mockMembers.EXPECT().MembersOf(suite.ctx, suite.teamID).Return([]models.TeamMemberWithUser{
		{TeamMember: models.TeamMember{UserID: uuid.New(), Role: models.TeamRoleOwner}, Username: "alice"},
		{TeamMember: models.TeamMember{UserID: suite.actor, Role: models.TeamRoleMember}, Username: "bob"},
	}, nil)

	resp, err := suite.teamService.GetTeam(suite.ctx, suite.actor, suite.teamID)

	suite.NoError(err)
	suite.Equal(int64(2), resp.MemberCount)
	suite.Len(resp.Members, 2)
	suite.Equal("alice", resp.Members[0].Username)
	suite.Equal(models.TeamRoleOwner, resp.Members[0].Role)
}

func (suite *TeamServiceTestSuite) TestUpdateTeam() {
	suite.T().Run("member is forbidden", func(t *testing.T) {
		suite.expectRole(models.TeamRoleMember)
		name := "New"
		_, err := suite.teamService.UpdateTeam(suite.ctx, suite.actor, suite.teamID, &service.UpdateTeamRequest{Name: &name})
		suite.ErrorIs(err, apperrors.ErrNotTeamAdmin)
	})

	suite.T().Run("non-member gets not found", func(t *testing.T) {
		suite.expectNotMember()
		name := "New"
		_, err := suite.teamService.UpdateTeam(suite.ctx, suite.actor, suite.teamID, &service.UpdateTeamRequest{Name: &name})
		suite.ErrorIs(err, apperrors.ErrTeamNotFound)
	})

	suite.T().Run("no fields", func(t *testing.T) {
		suite.expectRole(models.TeamRoleAdmin)
		_, err := suite.teamService.UpdateTeam(suite.ctx, suite.actor, suite.teamID, &service.UpdateTeamRequest{})
		suite.ErrorIs(err, apperrors.ErrNoFieldsProvided)
	})

	suite.T().Run("blank name is rejected", func(t *testing.T) {
		suite.expectRole(models.TeamRoleAdmin)
		blank := "  "
		_, err := suite.teamService.UpdateTeam(suite.ctx, suite.actor, suite.teamID, &service.UpdateTeamRequest{Name: &blank})
		suite.True(apperrors.IsValidation(err))
	})

	suite.T().Run("admin updates only provided fields", func(t *testing.T) {
		suite.expectRole(models.TeamRoleAdmin)
		name := "Platform"
		suite.mockTeamRepo.EXPECT().Update(suite.ctx, suite.teamID, map[string]interface{}{"name": "Platform"}).Return(nil)
		suite.mockTeamRepo.EXPECT().GetSummary(suite.ctx, suite.teamID, suite.actor).Return(suite.summary(models.TeamRoleAdmin, 3), nil)

		resp, err := suite.teamService.UpdateTeam(suite.ctx, suite.actor, suite.teamID, &service.UpdateTeamRequest{Name: &name})
		suite.NoError(err)
		suite.NotNil(resp)
	})

	suite.T().Run("explicit null clears description", func(t *testing.T) {
		suite.expectRole(models.TeamRoleOwner)
		suite.mockTeamRepo.EXPECT().Update(suite.ctx, suite.teamID, map[string]interface{}{"description": (*string)(nil)}).Return(nil)
		suite.mockTeamRepo.EXPECT().GetSummary(suite.ctx, suite.teamID, suite.actor).Return(suite.summary(models.TeamRoleOwner, 1), nil)

		_, err := suite.teamService.UpdateTeam(suite.ctx, suite.actor, suite.teamID, &service.UpdateTeamRequest{Description: service.Null[string]()})
		suite.NoError(err)
	})
}

func (suite *TeamServiceTestSuite) TestDeleteTeam() {
	suite.T().Run("admin is forbidden", func(t *testing.T) {
		suite.expectRole(models.TeamRoleAdmin)
		err := suite.teamService.DeleteTeam(suite.ctx, suite.actor, suite.teamID)
		suite.ErrorIs(err, apperrors.ErrNotTeamOwner)
	})

	suite.T().Run("owner deletes", func(t *testing.T) {
		suite.expectRole(models.TeamRoleOwner)
		suite.mockTeamRepo.EXPECT().Delete(suite.ctx, suite.teamID).Return(nil)
		suite.NoError(suite.teamService.DeleteTeam(suite.ctx, suite.actor, suite.teamID))
	})
}

func (suite *TeamServiceTestSuite) TestListTeamsFor() {
	suite.mockTeamRepo.EXPECT().ListForUser(suite.ctx, suite.actor).Return([]models.TeamSummary{*suite.summary(models.TeamRoleOwner, 1)}, nil)

	teams, err := suite.teamService.ListTeamsFor(suite.ctx, suite.actor)

	suite.NoError(err)
	suite.Len(teams, 1)
	suite.Equal("Eng", teams[0].Name)
	suite.Equal(models.TeamRoleOwner, teams[0].Role)
	suite.Equal(int64(1), teams[0].MemberCount)
	suite.Equal("alice", teams[0].CreatedByName)
}

func (suite *TeamServiceTestSuite) TestAddMember() {
	bob := &service.UserResponse{ID: uuid.New(), Username: "bob", Email: "bob@example.com"}

	suite.T().Run("member cannot add", func(t *testing.T) {
		suite.expectRole(models.TeamRoleMember)
		_, err := suite.teamService.AddMember(suite.ctx, suite.actor, suite.teamID, &service.AddMemberRequest{Identifier: "bob"})
		suite.ErrorIs(err, apperrors.ErrNotTeamAdmin)
	})

	suite.T().Run("owner role cannot be granted", func(t *testing.T) {
		suite.expectRole(models.TeamRoleOwner)
		_, err := suite.teamService.AddMember(suite.ctx, suite.actor, suite.teamID, &service.AddMemberRequest{Identifier: "bob", Role: models.TeamRoleOwner})
		suite.ErrorIs(err, apperrors.ErrInvalidRole)
	})

	suite.T().Run("unknown user", func(t *testing.T) {
		suite.expectRole(models.TeamRoleAdmin)
		suite.mockUsers.EXPECT().ResolveIdentifier(suite.ctx, "ghost").Return(nil, apperrors.ErrUserNotFound)
		_, err := suite.teamService.AddMember(suite.ctx, suite.actor, suite.teamID, &service.AddMemberRequest{Identifier: "ghost"})
		suite.ErrorIs(err, apperrors.ErrUserNotFound)
	})

	suite.T().Run("role defaults to member", func(t *testing.T) {
		suite.expectRole(models.TeamRoleAdmin)
		suite.mockUsers.EXPECT().ResolveIdentifier(suite.ctx, "bob@example.com").Return(bob, nil)
		suite.mockMembers.EXPECT().AddMember(suite.ctx, suite.teamID, bob.ID, models.TeamRoleMember).
			Return(&models.TeamMember{TeamID: suite.teamID, UserID: bob.ID, Role: models.TeamRoleMember, JoinedAt: time.Now()}, nil)

		resp, err := suite.teamService.AddMember(suite.ctx, suite.actor, suite.teamID, &service.AddMemberRequest{Identifier: "bob@example.com"})
		suite.NoError(err)
		suite.Equal("bob", resp.Username)
		suite.Equal(models.TeamRoleMember, resp.Role)
	})

	suite.T().Run("already member", func(t *testing.T) {
		suite.expectRole(models.TeamRoleAdmin)
		suite.mockUsers.EXPECT().ResolveIdentifier(suite.ctx, "bob").Return(bob, nil)
		suite.mockMembers.EXPECT().AddMember(suite.ctx, suite.teamID, bob.ID, models.TeamRoleAdmin).Return(nil, apperrors.ErrAlreadyMember)

		_, err := suite.teamService.AddMember(suite.ctx, suite.actor, suite.teamID, &service.AddMemberRequest{Identifier: "bob", Role: models.TeamRoleAdmin})
		suite.ErrorIs(err, apperrors.ErrAlreadyMember)
	})
}

func (suite *TeamServiceTestSuite) TestRemoveMember() {
	target := uuid.New()

	suite.T().Run("member cannot remove", func(t *testing.T) {
		suite.expectRole(models.TeamRoleMember)
		err := suite.teamService.RemoveMember(suite.ctx, suite.actor, suite.teamID, target)
		suite.ErrorIs(err, apperrors.ErrNotTeamAdmin)
	})

	suite.T().Run("owner cannot be removed", func(t *testing.T) {
		suite.expectRole(models.TeamRoleOwner)
		suite.mockMembers.EXPECT().RemoveMember(suite.ctx, suite.teamID, suite.actor).Return(apperrors.ErrCannotRemoveTopRole)
		err := suite.teamService.RemoveMember(suite.ctx, suite.actor, suite.teamID, suite.actor)
		suite.ErrorIs(err, apperrors.ErrCannotRemoveTopRole)
	})

	suite.T().Run("admin removes member", func(t *testing.T) {
		suite.expectRole(models.TeamRoleAdmin)
		suite.mockMembers.EXPECT().RemoveMember(suite.ctx, suite.teamID, target).Return(nil)
		suite.NoError(suite.teamService.RemoveMember(suite.ctx, suite.actor, suite.teamID, target))
	})
}

func TestTeamServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TeamServiceTestSuite))
}
