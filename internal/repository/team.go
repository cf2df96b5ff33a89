package repository

import (
	"context"

	"team-task-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamRepository handles database operations for teams
type TeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create creates a new team
func (r *TeamRepository) Create(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

// GetByID retrieves a team by ID
func (r *TeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := r.db.WithContext(ctx).First(&team, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// summaryQuery selects teams joined with the given user's membership, the
// creator's username and the member count.
func (r *TeamRepository) summaryQuery(ctx context.Context, userID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("teams").
		Select(`teams.*, tm.role AS role, creator.username AS created_by_name,
			(SELECT COUNT(*) FROM team_members c WHERE c.team_id = teams.id) AS member_count`).
		Joins("JOIN team_members tm ON tm.team_id = teams.id AND tm.user_id = ?", userID).
		Joins("JOIN users creator ON creator.id = teams.created_by")
}

// GetSummary retrieves a team as seen by one of its members.
// Returns gorm.ErrRecordNotFound when the team does not exist or the user is not a member.
func (r *TeamRepository) GetSummary(ctx context.Context, teamID, userID uuid.UUID) (*models.TeamSummary, error) {
	var summaries []models.TeamSummary
	err := r.summaryQuery(ctx, userID).
		Where("teams.id = ?", teamID).
		Limit(1).
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &summaries[0], nil
}

// ListForUser retrieves every team the user belongs to, newest first
func (r *TeamRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.TeamSummary, error) {
	summaries := []models.TeamSummary{}
	err := r.summaryQuery(ctx, userID).
		Order("teams.created_at DESC, teams.id DESC").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// Update applies the given column updates to a team
func (r *TeamRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Team{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete deletes a team. Memberships and tasks are removed by the foreign key cascade.
func (r *TeamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Team{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
