package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"team-task-backend/internal/database/models"
	apperrors "team-task-backend/internal/errors"
	"team-task-backend/internal/logger"
	"team-task-backend/internal/policy"
	"team-task-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxTeamDescription = 1000

// TeamService is the team registry: team lifecycle and member management on
// behalf of an actor
type TeamService struct {
	repo       repository.TeamRepositoryInterface
	transactor repository.TransactorInterface
	members    MembershipServiceInterface
	users      UserServiceInterface
	policy     *policy.Evaluator
	validator  *validator.Validate
}

// Ensure TeamService implements TeamServiceInterface
var _ TeamServiceInterface = (*TeamService)(nil)

// NewTeamService creates a new team service
func NewTeamService(repo repository.TeamRepositoryInterface, transactor repository.TransactorInterface, members MembershipServiceInterface, users UserServiceInterface, validator *validator.Validate) *TeamService {
	return &TeamService{
		repo:       repo,
		transactor: transactor,
		members:    members,
		users:      users,
		policy:     policy.NewEvaluator(members),
		validator:  validator,
	}
}

// CreateTeamRequest represents the request to create a team
type CreateTeamRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100" example:"Engineering"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// UpdateTeamRequest represents a partial team update. An explicit null
// description clears it.
type UpdateTeamRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description Nullable[string] `json:"description" swaggertype:"string"`
}

// AddMemberRequest adds a user, identified by username or email, to a team
type AddMemberRequest struct {
	Identifier string          `json:"identifier" validate:"required" example:"bob"`
	Role       models.TeamRole `json:"role" example:"member"`
}

// TeamResponse represents a team as seen by one of its members
type TeamResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description,omitempty"`
	CreatedBy     uuid.UUID       `json:"created_by"`
	CreatedByName string          `json:"created_by_name"`
	Role          models.TeamRole `json:"role"`
	MemberCount   int64           `json:"member_count"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

// MemberResponse represents a team member
type MemberResponse struct {
	UserID   uuid.UUID       `json:"user_id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Role     models.TeamRole `json:"role"`
	JoinedAt string          `json:"joined_at"`
}

// TeamDetailsResponse is a team with its member list
type TeamDetailsResponse struct {
	TeamResponse
	Members []MemberResponse `json:"members"`
}

// CreateTeam creates a team and makes the creator its owner in one transaction
func (s *TeamService) CreateTeam(ctx context.Context, creator uuid.UUID, req *CreateTeamRequest) (*TeamResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = emptyToNil(req.Description)
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}

	uow, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	team := &models.Team{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   creator,
	}
	if err := uow.Teams().Create(ctx, team); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	owner := &models.TeamMember{
		TeamID: team.ID,
		UserID: creator,
		Role:   models.TeamRoleOwner,
	}
	if err := uow.Members().Create(ctx, owner); err != nil {
		return nil, fmt.Errorf("failed to add team owner: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit team creation: %w", err)
	}

	logger.WithContext(ctx).WithField("team_id", team.ID).Info("team created")
	return s.summary(ctx, team.ID, creator)
}

// GetTeam returns a team with its members. Non-members get a not found error.
func (s *TeamService) GetTeam(ctx context.Context, actor, teamID uuid.UUID) (*TeamDetailsResponse, error) {
	if err := s.policy.Authorize(ctx, actor, policy.ActionViewTeam, policy.TeamResource(teamID), "team"); err != nil {
		return nil, err
	}

	team, err := s.summary(ctx, teamID, actor)
	if err != nil {
		return nil, err
	}
	members, err := s.memberResponses(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return &TeamDetailsResponse{TeamResponse: *team, Members: members}, nil
}

// UpdateTeam applies the provided fields. Requires an elevated role.
func (s *TeamService) UpdateTeam(ctx context.Context, actor, teamID uuid.UUID, req *UpdateTeamRequest) (*TeamResponse, error) {
	if err := s.policy.Authorize(ctx, actor, policy.ActionUpdateTeam, policy.TeamResource(teamID), "team"); err != nil {
		return nil, err
	}

	if req.Name == nil && !req.Description.Set {
		return nil, apperrors.ErrNoFieldsProvided
	}

	req.Name = trimmed(req.Name)
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description.Set {
		description := emptyToNil(req.Description.Value)
		if description != nil && utf8.RuneCountInString(*description) > maxTeamDescription {
			return nil, apperrors.NewValidationError("description", fmt.Sprintf("must be at most %d characters", maxTeamDescription))
		}
		updates["description"] = description
	}

	if err := s.repo.Update(ctx, teamID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	return s.summary(ctx, teamID, actor)
}

// DeleteTeam deletes a team with its memberships and tasks. Requires the owner role.
func (s *TeamService) DeleteTeam(ctx context.Context, actor, teamID uuid.UUID) error {
	if err := s.policy.Authorize(ctx, actor, policy.ActionDeleteTeam, policy.TeamResource(teamID), "team"); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team: %w", err)
	}

	logger.WithContext(ctx).WithField("team_id", teamID).Info("team deleted")
	return nil
}

// ListTeamsFor returns every team the user belongs to with the user's role and
// the member count, newest first
func (s *TeamService) ListTeamsFor(ctx context.Context, userID uuid.UUID) ([]TeamResponse, error) {
	summaries, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	responses := make([]TeamResponse, len(summaries))
	for i := range summaries {
		responses[i] = toTeamResponse(&summaries[i])
	}
	return responses, nil
}

// ListMembers returns the team's members. Non-members get a not found error.
func (s *TeamService) ListMembers(ctx context.Context, actor, teamID uuid.UUID) ([]MemberResponse, error) {
	if err := s.policy.Authorize(ctx, actor, policy.ActionViewTeam, policy.TeamResource(teamID), "team"); err != nil {
		return nil, err
	}
	return s.memberResponses(ctx, teamID)
}

// AddMember adds a user to the team. Requires an elevated role. The role
// defaults to member.
func (s *TeamService) AddMember(ctx context.Context, actor, teamID uuid.UUID, req *AddMemberRequest) (*MemberResponse, error) {
	if err := s.policy.Authorize(ctx, actor, policy.ActionManageMembers, policy.TeamResource(teamID), "team"); err != nil {
		return nil, err
	}

	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = models.TeamRoleMember
	}
	if !role.IsAssignable() {
		return nil, apperrors.ErrInvalidRole
	}

	user, err := s.users.ResolveIdentifier(ctx, req.Identifier)
	if err != nil {
		return nil, err
	}

	member, err := s.members.AddMember(ctx, teamID, user.ID, role)
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"team_id":       teamID,
		"added_user_id": user.ID,
		"role":          role,
	}).Info("team member added")

	return &MemberResponse{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     member.Role,
		JoinedAt: member.JoinedAt.Format(time.RFC3339),
	}, nil
}

// RemoveMember removes a user from the team. Requires an elevated role; the
// owner cannot be removed.
func (s *TeamService) RemoveMember(ctx context.Context, actor, teamID, userID uuid.UUID) error {
	if err := s.policy.Authorize(ctx, actor, policy.ActionManageMembers, policy.TeamResource(teamID), "team"); err != nil {
		return err
	}
	return s.members.RemoveMember(ctx, teamID, userID)
}

func (s *TeamService) summary(ctx context.Context, teamID, userID uuid.UUID) (*TeamResponse, error) {
	summary, err := s.repo.GetSummary(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	response := toTeamResponse(summary)
	return &response, nil
}

func (s *TeamService) memberResponses(ctx context.Context, teamID uuid.UUID) ([]MemberResponse, error) {
	members, err := s.members.MembersOf(ctx, teamID)
	if err != nil {
		return nil, err
	}
	responses := make([]MemberResponse, len(members))
	for i, m := range members {
		responses[i] = MemberResponse{
			UserID:   m.UserID,
			Username: m.Username,
			Email:    m.Email,
			Role:     m.Role,
			JoinedAt: m.JoinedAt.Format(time.RFC3339),
		}
	}
	return responses, nil
}

func toTeamResponse(summary *models.TeamSummary) TeamResponse {
	return TeamResponse{
		ID:            summary.ID,
		Name:          summary.Name,
		Description:   summary.Description,
		CreatedBy:     summary.CreatedBy,
		CreatedByName: summary.CreatedByName,
		Role:          summary.Role,
		MemberCount:   summary.MemberCount,
		CreatedAt:     summary.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     summary.UpdatedAt.Format(time.RFC3339),
	}
}
