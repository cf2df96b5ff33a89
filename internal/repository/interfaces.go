package repository

import (
	"context"

	"team-task-backend/internal/database/models"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/repository_mocks.go -package=mocks

// UserRepositoryInterface defines the interface for user repository operations
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// TeamRepositoryInterface defines the interface for team repository operations
type TeamRepositoryInterface interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error)
	GetSummary(ctx context.Context, teamID, userID uuid.UUID) (*models.TeamSummary, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.TeamSummary, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MembershipRepositoryInterface defines the interface for team membership operations
type MembershipRepositoryInterface interface {
	Create(ctx context.Context, member *models.TeamMember) error
	Get(ctx context.Context, teamID, userID uuid.UUID) (*models.TeamMember, error)
	Exists(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]models.TeamMemberWithUser, error)
	Delete(ctx context.Context, teamID, userID uuid.UUID) error
}

// TaskRepositoryInterface defines the interface for task repository operations
type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	GetView(ctx context.Context, id uuid.UUID) (*models.TaskView, error)
	List(ctx context.Context, filter TaskFilter) ([]models.TaskView, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	UnassignInTeam(ctx context.Context, teamID, userID uuid.UUID) (int64, error)
}

// TransactorInterface starts units of work spanning several repositories
type TransactorInterface interface {
	Begin(ctx context.Context) (UnitOfWorkInterface, error)
}

// UnitOfWorkInterface exposes repositories bound to a single transaction.
// Callers defer Rollback right after Begin; Rollback after Commit is a no-op.
type UnitOfWorkInterface interface {
	Teams() TeamRepositoryInterface
	Members() MembershipRepositoryInterface
	Tasks() TaskRepositoryInterface
	Commit() error
	Rollback() error
}

// TaskFilter narrows a task listing. VisibleTo is mandatory: only tasks of
// teams the user belongs to are returned. All other fields are optional and ANDed.
type TaskFilter struct {
	VisibleTo  uuid.UUID
	TeamID     *uuid.UUID
	AssignedTo *uuid.UUID
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	Search     string
}
