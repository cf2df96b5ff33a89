package service

import (
	"context"

	"team-task-backend/internal/database/models"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/service_mocks.go -package=mocks

// UserServiceInterface defines the interface for the identity store
type UserServiceInterface interface {
	Register(ctx context.Context, req *RegisterRequest) (*UserResponse, error)
	Authenticate(ctx context.Context, req *LoginRequest) (*UserResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error)
	ResolveIdentifier(ctx context.Context, identifier string) (*UserResponse, error)
	ChangePassword(ctx context.Context, actor uuid.UUID, req *ChangePasswordRequest) error
}

// MembershipServiceInterface defines the interface for the membership ledger
type MembershipServiceInterface interface {
	AddMember(ctx context.Context, teamID, userID uuid.UUID, role models.TeamRole) (*models.TeamMember, error)
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error
	RoleOf(ctx context.Context, teamID, userID uuid.UUID) (models.TeamRole, error)
	MembersOf(ctx context.Context, teamID uuid.UUID) ([]models.TeamMemberWithUser, error)
	IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
}

// TeamServiceInterface defines the interface for the team registry
type TeamServiceInterface interface {
	CreateTeam(ctx context.Context, creator uuid.UUID, req *CreateTeamRequest) (*TeamResponse, error)
	GetTeam(ctx context.Context, actor, teamID uuid.UUID) (*TeamDetailsResponse, error)
	UpdateTeam(ctx context.Context, actor, teamID uuid.UUID, req *UpdateTeamRequest) (*TeamResponse, error)
	DeleteTeam(ctx context.Context, actor, teamID uuid.UUID) error
	ListTeamsFor(ctx context.Context, userID uuid.UUID) ([]TeamResponse, error)
	ListMembers(ctx context.Context, actor, teamID uuid.UUID) ([]MemberResponse, error)
	AddMember(ctx context.Context, actor, teamID uuid.UUID, req *AddMemberRequest) (*MemberResponse, error)
	RemoveMember(ctx context.Context, actor, teamID, userID uuid.UUID) error
}

// TaskServiceInterface defines the interface for the task registry
type TaskServiceInterface interface {
	CreateTask(ctx context.Context, actor uuid.UUID, req *CreateTaskRequest) (*TaskResponse, error)
	GetTask(ctx context.Context, actor, taskID uuid.UUID) (*TaskResponse, error)
	UpdateTask(ctx context.Context, actor, taskID uuid.UUID, req *UpdateTaskRequest) (*TaskResponse, error)
	UpdateTaskStatus(ctx context.Context, actor, taskID uuid.UUID, req *UpdateTaskStatusRequest) (*TaskResponse, error)
	DeleteTask(ctx context.Context, actor, taskID uuid.UUID) error
	ListTasks(ctx context.Context, actor uuid.UUID, filter TaskListFilter) ([]TaskResponse, error)
}
