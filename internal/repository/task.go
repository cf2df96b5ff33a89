package repository

import (
	"context"
	"strings"

	"team-task-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskRepository handles database operations for tasks
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create creates a new task
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetByID retrieves a task by ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// viewQuery selects tasks joined with team, creator and assignee names
func (r *TaskRepository) viewQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("tasks").
		Select(`tasks.*, teams.name AS team_name, creator.username AS created_by_name,
			assignee.username AS assigned_to_name`).
		Joins("JOIN teams ON teams.id = tasks.team_id").
		Joins("JOIN users creator ON creator.id = tasks.created_by").
		Joins("LEFT JOIN users assignee ON assignee.id = tasks.assigned_to")
}

// GetView retrieves a task with display names
func (r *TaskRepository) GetView(ctx context.Context, id uuid.UUID) (*models.TaskView, error) {
	var views []models.TaskView
	err := r.viewQuery(ctx).Where("tasks.id = ?", id).Limit(1).Scan(&views).Error
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &views[0], nil
}

// List retrieves the tasks visible to filter.VisibleTo matching every other
// filter, newest first. Ties on creation time are broken by ID so repeated
// calls return the same order.
func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.TaskView, error) {
	query := r.viewQuery(ctx).
		Joins("JOIN team_members viewer ON viewer.team_id = tasks.team_id AND viewer.user_id = ?", filter.VisibleTo)

	if filter.TeamID != nil {
		query = query.Where("tasks.team_id = ?", *filter.TeamID)
	}
	if filter.AssignedTo != nil {
		query = query.Where("tasks.assigned_to = ?", *filter.AssignedTo)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		query = query.Where(
			"(LOWER(tasks.title) LIKE ? ESCAPE '\\' OR LOWER(COALESCE(tasks.description, '')) LIKE ? ESCAPE '\\')",
			pattern, pattern,
		)
	}

	tasks := []models.TaskView{}
	err := query.Order("tasks.created_at DESC, tasks.id DESC").Scan(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update applies the given column updates to a task
func (r *TaskRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete deletes a task
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UnassignInTeam clears the assignee of every task in the team assigned to the user
func (r *TaskRepository) UnassignInTeam(ctx context.Context, teamID, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("team_id = ? AND assigned_to = ?", teamID, userID).
		Update("assigned_to", nil)
	return result.RowsAffected, result.Error
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
