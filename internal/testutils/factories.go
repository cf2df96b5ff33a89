package testutils

import (
	"fmt"
	"time"

	"team-task-backend/internal/database/models"

	"github.com/google/uuid"
)

// UserFactory provides methods to create test User data
type UserFactory struct{}

// NewUserFactory creates a new UserFactory
func NewUserFactory() *UserFactory {
	return &UserFactory{}
}

// Create creates a test User with unique username and email
func (f *UserFactory) Create() *models.User {
	id := uuid.New()
	short := id.String()[:8]

	return &models.User{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Username: "user_" + short,
		Email:    fmt.Sprintf("user.%s@test.com", short),
		// placeholder, tests that log in hash their own password
		PasswordHash: "not-a-bcrypt-hash",
	}
}

// WithUsername sets a custom username and matching email
func (f *UserFactory) WithUsername(username string) *models.User {
	user := f.Create()
	user.Username = username
	user.Email = username + "@test.com"
	return user
}

// TeamFactory provides methods to create test Team data
type TeamFactory struct{}

// NewTeamFactory creates a new TeamFactory
func NewTeamFactory() *TeamFactory {
	return &TeamFactory{}
}

// Create creates a test Team with default values. CreatedBy must be set by the caller.
func (f *TeamFactory) Create() *models.Team {
	description := "A test team for testing purposes"
	return &models.Team{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name:        "Test Team",
		Description: &description,
	}
}

// WithCreator sets the creator of the team
func (f *TeamFactory) WithCreator(userID uuid.UUID) *models.Team {
	team := f.Create()
	team.CreatedBy = userID
	return team
}

// WithName sets a custom name for the team
func (f *TeamFactory) WithName(name string, creatorID uuid.UUID) *models.Team {
	team := f.WithCreator(creatorID)
	team.Name = name
	return team
}

// MembershipFactory provides methods to create test TeamMember data
type MembershipFactory struct{}

// NewMembershipFactory creates a new MembershipFactory
func NewMembershipFactory() *MembershipFactory {
	return &MembershipFactory{}
}

// Create creates a membership of user in team with the given role
func (f *MembershipFactory) Create(teamID, userID uuid.UUID, role models.TeamRole) *models.TeamMember {
	return &models.TeamMember{
		ID:       uuid.New(),
		TeamID:   teamID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now(),
	}
}

// TaskFactory provides methods to create test Task data
type TaskFactory struct{}

// NewTaskFactory creates a new TaskFactory
func NewTaskFactory() *TaskFactory {
	return &TaskFactory{}
}

// Create creates a test Task in team created by creator
func (f *TaskFactory) Create(teamID, creatorID uuid.UUID) *models.Task {
	return &models.Task{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Title:     "Test Task",
		TeamID:    teamID,
		CreatedBy: creatorID,
		Status:    models.DefaultTaskStatus,
		Priority:  models.DefaultTaskPriority,
	}
}

// WithTitle sets a custom title for the task
func (f *TaskFactory) WithTitle(title string, teamID, creatorID uuid.UUID) *models.Task {
	task := f.Create(teamID, creatorID)
	task.Title = title
	return task
}

// WithAssignee sets the assignee of the task
func (f *TaskFactory) WithAssignee(teamID, creatorID, assigneeID uuid.UUID) *models.Task {
	task := f.Create(teamID, creatorID)
	task.AssignedTo = &assigneeID
	return task
}

// FactorySet contains all factories for easy access
type FactorySet struct {
	User       *UserFactory
	Team       *TeamFactory
	Membership *MembershipFactory
	Task       *TaskFactory
}

// NewFactorySet creates a new FactorySet with all factories initialized
func NewFactorySet() *FactorySet {
	return &FactorySet{
		User:       NewUserFactory(),
		Team:       NewTeamFactory(),
		Membership: NewMembershipFactory(),
		Task:       NewTaskFactory(),
	}
}

// CreateTeamWithOwner builds a user, a team created by that user and the owner membership
func (fs *FactorySet) CreateTeamWithOwner(name string) (*models.User, *models.Team, *models.TeamMember) {
	owner := fs.User.Create()
	team := fs.Team.WithName(name, owner.ID)
	membership := fs.Membership.Create(team.ID, owner.ID, models.TeamRoleOwner)
	return owner, team, membership
}
