package repository

import (
	"context"

	"team-task-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// roleRankOrder sorts memberships by role rank, highest first
const roleRankOrder = "CASE team_members.role WHEN 'owner' THEN 3 WHEN 'admin' THEN 2 ELSE 1 END DESC"

// MembershipRepository handles database operations for team memberships
type MembershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Create inserts a membership. A second membership for the same (team, user)
// pair fails with gorm.ErrDuplicatedKey.
func (r *MembershipRepository) Create(ctx context.Context, member *models.TeamMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// Get retrieves the membership of a user in a team
func (r *MembershipRepository) Get(ctx context.Context, teamID, userID uuid.UUID) (*models.TeamMember, error) {
	var member models.TeamMember
	err := r.db.WithContext(ctx).First(&member, "team_id = ? AND user_id = ?", teamID, userID).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Exists reports whether the user is a member of the team
func (r *MembershipRepository) Exists(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByTeam retrieves the members of a team with their profiles,
// ordered by role rank descending, then join time ascending
func (r *MembershipRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]models.TeamMemberWithUser, error) {
	members := []models.TeamMemberWithUser{}
	err := r.db.WithContext(ctx).
		Table("team_members").
		Select("team_members.*, users.username AS username, users.email AS email").
		Joins("JOIN users ON users.id = team_members.user_id").
		Where("team_members.team_id = ?", teamID).
		Order(roleRankOrder).
		Order("team_members.joined_at ASC").
		Order("team_members.id ASC").
		Scan(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// Delete removes the membership of a user in a team
func (r *MembershipRepository) Delete(ctx context.Context, teamID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TeamMember{}, "team_id = ? AND user_id = ?", teamID, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
