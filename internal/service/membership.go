package service

import (
	"context"
	"errors"
	"fmt"

	"team-task-backend/internal/database/models"
	apperrors "team-task-backend/internal/errors"
	"team-task-backend/internal/logger"
	"team-task-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MembershipService is the ledger of (team, user, role) associations. It
// performs no authorization; callers check the actor's privileges first.
type MembershipService struct {
	repo       repository.MembershipRepositoryInterface
	transactor repository.TransactorInterface
}

// Ensure MembershipService implements MembershipServiceInterface
var _ MembershipServiceInterface = (*MembershipService)(nil)

// NewMembershipService creates a new membership service
func NewMembershipService(repo repository.MembershipRepositoryInterface, transactor repository.TransactorInterface) *MembershipService {
	return &MembershipService{
		repo:       repo,
		transactor: transactor,
	}
}

// AddMember inserts a membership with an assignable role
func (s *MembershipService) AddMember(ctx context.Context, teamID, userID uuid.UUID, role models.TeamRole) (*models.TeamMember, error) {
	if !role.IsAssignable() {
		return nil, apperrors.ErrInvalidRole
	}

	exists, err := s.repo.Exists(ctx, teamID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if exists {
		return nil, apperrors.ErrAlreadyMember
	}

	member := &models.TeamMember{
		TeamID: teamID,
		UserID: userID,
		Role:   role,
	}
	if err := s.repo.Create(ctx, member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrAlreadyMember
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	return member, nil
}

// RemoveMember deletes a membership and clears the user's task assignments in
// that team in one transaction. The owner membership cannot be removed.
func (s *MembershipService) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	uow, err := s.transactor.Begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback()

	member, err := uow.Members().Get(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMemberNotFound
		}
		return fmt.Errorf("failed to get membership: %w", err)
	}
	if member.Role.IsTop() {
		return apperrors.ErrCannotRemoveTopRole
	}

	unassigned, err := uow.Tasks().UnassignInTeam(ctx, teamID, userID)
	if err != nil {
		return fmt.Errorf("failed to unassign tasks: %w", err)
	}
	if err := uow.Members().Delete(ctx, teamID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMemberNotFound
		}
		return fmt.Errorf("failed to remove member: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit member removal: %w", err)
	}

	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"team_id":          teamID,
		"removed_user_id":  userID,
		"unassigned_tasks": unassigned,
	}).Info("team member removed")
	return nil
}

// RoleOf returns the user's role in the team
func (s *MembershipService) RoleOf(ctx context.Context, teamID, userID uuid.UUID) (models.TeamRole, error) {
	member, err := s.repo.Get(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrMemberNotFound
		}
		return "", fmt.Errorf("failed to get membership: %w", err)
	}
	return member.Role, nil
}

// MembersOf returns a snapshot of the team's members, highest role first,
// then by join time
func (s *MembershipService) MembersOf(ctx context.Context, teamID uuid.UUID) ([]models.TeamMemberWithUser, error) {
	members, err := s.repo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// IsMember reports whether the user belongs to the team
func (s *MembershipService) IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	ok, err := s.repo.Exists(ctx, teamID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return ok, nil
}
