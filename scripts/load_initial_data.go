package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"team-task-backend/internal/config"
	"team-task-backend/internal/database"
	"team-task-backend/internal/database/models"
	apperrors "team-task-backend/internal/errors"
	"team-task-backend/internal/repository"
	"team-task-backend/internal/service"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// UserData is a seeded account
type UserData struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// TeamData is a seeded team with its members and tasks
type TeamData struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Owner       string       `yaml:"owner"`
	Members     []MemberData `yaml:"members,omitempty"`
	Tasks       []TaskData   `yaml:"tasks,omitempty"`
}

type MemberData struct {
	User string `yaml:"user"`
	Role string `yaml:"role"`
}

type TaskData struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	CreatedBy   string `yaml:"created_by,omitempty"`
	AssignedTo  string `yaml:"assigned_to,omitempty"`
	Status      string `yaml:"status,omitempty"`
	Priority    string `yaml:"priority,omitempty"`
	DueDate     string `yaml:"due_date,omitempty"`
}

// File structures
type UsersFile struct {
	Users []UserData `yaml:"users"`
}

type TeamsFile struct {
	Teams []TeamData `yaml:"teams"`
}

// seeder goes through the services so seeded rows obey the same rules as API writes
type seeder struct {
	users service.UserServiceInterface
	teams service.TeamServiceInterface
	tasks service.TaskServiceInterface
	ids   map[string]uuid.UUID
}

func newSeeder(db *gorm.DB) *seeder {
	validator := service.NewValidator()
	transactor := repository.NewTransactor(db)
	users := service.NewUserService(repository.NewUserRepository(db), validator)
	members := service.NewMembershipService(repository.NewMembershipRepository(db), transactor)

	return &seeder{
		users: users,
		teams: service.NewTeamService(repository.NewTeamRepository(db), transactor, members, users, validator),
		tasks: service.NewTaskService(repository.NewTaskRepository(db), members, validator),
		ids:   make(map[string]uuid.UUID),
	}
}

func main() {
	log.Println("🚀 Loading initial data from YAML files...")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database with retry (for dockerized Postgres startup)
	db, err := connectWithRetry(cfg, 60, time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	dataDir := "scripts/data"
	if len(os.Args) > 1 {
		dataDir = os.Args[1]
	}

	if err := newSeeder(db).load(context.Background(), dataDir); err != nil {
		log.Fatalf("Failed to load data from YAML files: %v", err)
	}

	log.Println("✅ Initial data loaded successfully!")
}

// connectWithRetry attempts to initialize the DB with retries to wait for Postgres readiness.
func connectWithRetry(cfg *config.Config, maxAttempts int, delay time.Duration) (*gorm.DB, error) {
	opts := &database.Options{
		Driver:   cfg.DatabaseDriver,
		LogLevel: logger.Silent,
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err := database.Initialize(cfg.DatabaseURL, opts)
		if err == nil {
			return db, nil
		}
		// Only log every 10 attempts to reduce noise
		if attempt%10 == 0 || attempt == maxAttempts {
			log.Printf("Database not ready (%d/%d): %v", attempt, maxAttempts, err)
		}
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("database not ready after %d attempts", maxAttempts)
}

// load seeds users then teams. Running it twice leaves the data unchanged.
func (s *seeder) load(ctx context.Context, dataDir string) error {
	var usersFile UsersFile
	if err := readYAML(filepath.Join(dataDir, "users.yaml"), &usersFile); err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}

	var teamsFile TeamsFile
	if err := readYAML(filepath.Join(dataDir, "teams.yaml"), &teamsFile); err != nil {
		return fmt.Errorf("failed to load teams: %w", err)
	}

	userCreated := 0
	for _, userData := range usersFile.Users {
		created, err := s.createUser(ctx, userData)
		if err != nil {
			return fmt.Errorf("failed to create user %s: %w", userData.Username, err)
		}
		if created {
			userCreated++
		}
	}
	log.Printf("📋 Users: %d created, %d total", userCreated, len(usersFile.Users))

	teamCreated, taskCreated := 0, 0
	for _, teamData := range teamsFile.Teams {
		created, tasks, err := s.createTeam(ctx, teamData)
		if err != nil {
			return fmt.Errorf("failed to create team %s: %w", teamData.Name, err)
		}
		if created {
			teamCreated++
		}
		taskCreated += tasks
	}
	log.Printf("📋 Teams: %d created, %d total", teamCreated, len(teamsFile.Teams))
	log.Printf("📋 Tasks: %d created", taskCreated)

	return nil
}

func (s *seeder) createUser(ctx context.Context, data UserData) (bool, error) {
	user, err := s.users.Register(ctx, &service.RegisterRequest{
		Username: data.Username,
		Email:    data.Email,
		Password: data.Password,
	})
	if errors.Is(err, apperrors.ErrUserExists) {
		existing, lookupErr := s.users.ResolveIdentifier(ctx, data.Username)
		if lookupErr != nil {
			return false, lookupErr
		}
		s.ids[data.Username] = existing.ID
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.ids[data.Username] = user.ID
	return true, nil
}

func (s *seeder) userID(username string) (uuid.UUID, error) {
	id, ok := s.ids[username]
	if !ok {
		return uuid.Nil, fmt.Errorf("user %q is not defined in users.yaml", username)
	}
	return id, nil
}

func (s *seeder) createTeam(ctx context.Context, data TeamData) (bool, int, error) {
	ownerID, err := s.userID(data.Owner)
	if err != nil {
		return false, 0, err
	}

	team, created, err := s.findOrCreateTeam(ctx, ownerID, data)
	if err != nil {
		return false, 0, err
	}

	for _, member := range data.Members {
		_, err := s.teams.AddMember(ctx, ownerID, team.ID, &service.AddMemberRequest{
			Identifier: member.User,
			Role:       models.TeamRole(member.Role),
		})
		if err != nil && !errors.Is(err, apperrors.ErrAlreadyMember) {
			return false, 0, fmt.Errorf("member %s: %w", member.User, err)
		}
	}

	existing, err := s.tasks.ListTasks(ctx, ownerID, service.TaskListFilter{TeamID: &team.ID})
	if err != nil {
		return false, 0, err
	}
	titles := make(map[string]struct{}, len(existing))
	for _, task := range existing {
		titles[task.Title] = struct{}{}
	}

	tasksCreated := 0
	for _, taskData := range data.Tasks {
		if _, ok := titles[taskData.Title]; ok {
			continue
		}
		if err := s.createTask(ctx, team.ID, ownerID, taskData); err != nil {
			return false, 0, fmt.Errorf("task %q: %w", taskData.Title, err)
		}
		tasksCreated++
	}

	return created, tasksCreated, nil
}

func (s *seeder) findOrCreateTeam(ctx context.Context, ownerID uuid.UUID, data TeamData) (*service.TeamResponse, bool, error) {
	teams, err := s.teams.ListTeamsFor(ctx, ownerID)
	if err != nil {
		return nil, false, err
	}
	for i := range teams {
		if strings.EqualFold(teams[i].Name, data.Name) && teams[i].CreatedBy == ownerID {
			return &teams[i], false, nil
		}
	}

	req := &service.CreateTeamRequest{Name: data.Name}
	if data.Description != "" {
		req.Description = &data.Description
	}
	team, err := s.teams.CreateTeam(ctx, ownerID, req)
	if err != nil {
		return nil, false, err
	}
	return team, true, nil
}

func (s *seeder) createTask(ctx context.Context, teamID, ownerID uuid.UUID, data TaskData) error {
	creator := ownerID
	if data.CreatedBy != "" {
		id, err := s.userID(data.CreatedBy)
		if err != nil {
			return err
		}
		creator = id
	}

	req := &service.CreateTaskRequest{
		TeamID:   teamID,
		Title:    data.Title,
		Status:   models.TaskStatus(data.Status),
		Priority: models.TaskPriority(data.Priority),
	}
	if data.Description != "" {
		req.Description = &data.Description
	}
	if data.DueDate != "" {
		req.DueDate = &data.DueDate
	}
	if data.AssignedTo != "" {
		id, err := s.userID(data.AssignedTo)
		if err != nil {
			return err
		}
		req.AssignedTo = &id
	}

	_, err := s.tasks.CreateTask(ctx, creator, req)
	return err
}

func readYAML(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Skipping missing file %s", path)
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
