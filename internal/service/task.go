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

const (
	dueDateLayout      = "2006-01-02"
	maxTaskDescription = 5000
)

// TaskService is the task registry: task lifecycle on behalf of an actor
type TaskService struct {
	repo      repository.TaskRepositoryInterface
	members   MembershipServiceInterface
	policy    *policy.Evaluator
	validator *validator.Validate
}

// Ensure TaskService implements TaskServiceInterface
var _ TaskServiceInterface = (*TaskService)(nil)

// NewTaskService creates a new task service
func NewTaskService(repo repository.TaskRepositoryInterface, members MembershipServiceInterface, validator *validator.Validate) *TaskService {
	return &TaskService{
		repo:      repo,
		members:   members,
		policy:    policy.NewEvaluator(members),
		validator: validator,
	}
}

// CreateTaskRequest represents the request to create a task
type CreateTaskRequest struct {
	TeamID      uuid.UUID           `json:"team_id" validate:"required"`
	Title       string              `json:"title" validate:"required,min=1,max=200" example:"Fix bug"`
	Description *string             `json:"description,omitempty" validate:"omitempty,max=5000"`
	AssignedTo  *uuid.UUID          `json:"assigned_to,omitempty"`
	Status      models.TaskStatus   `json:"status,omitempty" validate:"omitempty,oneof=todo in_progress review completed" example:"todo"`
	Priority    models.TaskPriority `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent" example:"low"`
	DueDate     *string             `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02" example:"2030-01-31"`
}

// UpdateTaskRequest represents a partial task update. Omitted fields keep
// their value; an explicit null clears description, assignee or due date.
// The team of a task cannot change.
type UpdateTaskRequest struct {
	Title       *string              `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description Nullable[string]     `json:"description" swaggertype:"string"`
	AssignedTo  Nullable[uuid.UUID]  `json:"assigned_to" swaggertype:"string" format:"uuid"`
	Status      *models.TaskStatus   `json:"status,omitempty" validate:"omitempty,oneof=todo in_progress review completed"`
	Priority    *models.TaskPriority `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	DueDate     Nullable[string]     `json:"due_date" swaggertype:"string" example:"2030-01-31"`
}

// IsEmpty reports whether no field was provided
func (r *UpdateTaskRequest) IsEmpty() bool {
	return r.Title == nil && !r.Description.Set && !r.AssignedTo.Set &&
		r.Status == nil && r.Priority == nil && !r.DueDate.Set
}

// UpdateTaskStatusRequest changes only the status of a task
type UpdateTaskStatusRequest struct {
	Status models.TaskStatus `json:"status" validate:"required,oneof=todo in_progress review completed" example:"in_progress"`
}

// TaskListFilter narrows ListTasks. Zero values mean no filter.
type TaskListFilter struct {
	TeamID     *uuid.UUID
	AssignedTo *uuid.UUID
	Status     string
	Priority   string
	Search     string
}

// TaskResponse represents a task with display names
type TaskResponse struct {
	ID             uuid.UUID           `json:"id"`
	Title          string              `json:"title"`
	Description    *string             `json:"description,omitempty"`
	TeamID         uuid.UUID           `json:"team_id"`
	TeamName       string              `json:"team_name"`
	AssignedTo     *uuid.UUID          `json:"assigned_to,omitempty"`
	AssignedToName *string             `json:"assigned_to_name,omitempty"`
	CreatedBy      uuid.UUID           `json:"created_by"`
	CreatedByName  string              `json:"created_by_name"`
	Status         models.TaskStatus   `json:"status"`
	Priority       models.TaskPriority `json:"priority"`
	DueDate        *string             `json:"due_date,omitempty"`
	CreatedAt      string              `json:"created_at"`
	UpdatedAt      string              `json:"updated_at"`
}

// CreateTask creates a task in a team the actor belongs to. An assignee must
// also be a member of that team.
func (s *TaskService) CreateTask(ctx context.Context, actor uuid.UUID, req *CreateTaskRequest) (*TaskResponse, error) {
	if err := s.policy.Authorize(ctx, actor, policy.ActionCreateTask, policy.TeamResource(req.TeamID), "team"); err != nil {
		return nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = emptyToNil(req.Description)
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	if req.AssignedTo != nil {
		if err := s.requireAssignee(ctx, req.TeamID, *req.AssignedTo); err != nil {
			return nil, err
		}
	}

	status := req.Status
	if status == "" {
		status = models.DefaultTaskStatus
	}
	priority := req.Priority
	if priority == "" {
		priority = models.DefaultTaskPriority
	}

	task := &models.Task{
		Title:       req.Title,
		Description: req.Description,
		TeamID:      req.TeamID,
		AssignedTo:  req.AssignedTo,
		CreatedBy:   actor,
		Status:      status,
		Priority:    priority,
		DueDate:     dueDate,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"task_id": task.ID,
		"team_id": task.TeamID,
	}).Info("task created")
	return s.view(ctx, task.ID)
}

// GetTask returns a task of one of the actor's teams
func (s *TaskService) GetTask(ctx context.Context, actor, taskID uuid.UUID) (*TaskResponse, error) {
	if _, err := s.authorizeTask(ctx, actor, taskID, policy.ActionViewTeamTasks); err != nil {
		return nil, err
	}
	return s.view(ctx, taskID)
}

// UpdateTask applies the provided fields. Every field is validated before
// anything is written.
func (s *TaskService) UpdateTask(ctx context.Context, actor, taskID uuid.UUID, req *UpdateTaskRequest) (*TaskResponse, error) {
	task, err := s.authorizeTask(ctx, actor, taskID, policy.ActionEditTask)
	if err != nil {
		return nil, err
	}

	if req.IsEmpty() {
		return nil, apperrors.ErrNoFieldsProvided
	}

	req.Title = trimmed(req.Title)
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description.Set {
		description := emptyToNil(req.Description.Value)
		if description != nil && utf8.RuneCountInString(*description) > maxTaskDescription {
			return nil, apperrors.NewValidationError("description", fmt.Sprintf("must be at most %d characters", maxTaskDescription))
		}
		updates["description"] = description
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.DueDate.Set {
		dueDate, err := parseDueDate(req.DueDate.Value)
		if err != nil {
			return nil, err
		}
		updates["due_date"] = dueDate
	}
	if req.AssignedTo.Set {
		if req.AssignedTo.Value == nil {
			updates["assigned_to"] = nil
		} else {
			assignee := *req.AssignedTo.Value
			if task.AssignedTo == nil || *task.AssignedTo != assignee {
				if err := s.requireAssignee(ctx, task.TeamID, assignee); err != nil {
					return nil, err
				}
			}
			updates["assigned_to"] = assignee
		}
	}

	if err := s.repo.Update(ctx, taskID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return s.view(ctx, taskID)
}

// UpdateTaskStatus changes only the status of a task
func (s *TaskService) UpdateTaskStatus(ctx context.Context, actor, taskID uuid.UUID, req *UpdateTaskStatusRequest) (*TaskResponse, error) {
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}
	status := req.Status
	return s.UpdateTask(ctx, actor, taskID, &UpdateTaskRequest{Status: &status})
}

// DeleteTask deletes a task. Allowed for its creator and for owners and
// admins of its team.
func (s *TaskService) DeleteTask(ctx context.Context, actor, taskID uuid.UUID) error {
	if _, err := s.authorizeTask(ctx, actor, taskID, policy.ActionDeleteTask); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	logger.WithContext(ctx).WithField("task_id", taskID).Info("task deleted")
	return nil
}

// ListTasks returns the tasks of the actor's teams matching every filter,
// newest first
func (s *TaskService) ListTasks(ctx context.Context, actor uuid.UUID, filter TaskListFilter) ([]TaskResponse, error) {
	repoFilter := repository.TaskFilter{
		VisibleTo:  actor,
		TeamID:     filter.TeamID,
		AssignedTo: filter.AssignedTo,
		Search:     strings.TrimSpace(filter.Search),
	}
	if filter.Status != "" {
		status := models.TaskStatus(filter.Status)
		if !status.IsValid() {
			return nil, apperrors.NewValidationError("status", "must be one of: todo in_progress review completed")
		}
		repoFilter.Status = &status
	}
	if filter.Priority != "" {
		priority := models.TaskPriority(filter.Priority)
		if !priority.IsValid() {
			return nil, apperrors.NewValidationError("priority", "must be one of: low medium high urgent")
		}
		repoFilter.Priority = &priority
	}

	views, err := s.repo.List(ctx, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	responses := make([]TaskResponse, len(views))
	for i := range views {
		responses[i] = toTaskResponse(&views[i])
	}
	return responses, nil
}

// authorizeTask loads a task and checks action against it. Missing tasks and
// tasks of other teams both yield ErrTaskNotFound.
func (s *TaskService) authorizeTask(ctx context.Context, actor, taskID uuid.UUID, action policy.Action) (*models.Task, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if err := s.policy.Authorize(ctx, actor, action, policy.TaskResource(task), "task"); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) requireAssignee(ctx context.Context, teamID, userID uuid.UUID) error {
	ok, err := s.members.IsMember(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrInvalidAssignee
	}
	return nil
}

func (s *TaskService) view(ctx context.Context, taskID uuid.UUID) (*TaskResponse, error) {
	view, err := s.repo.GetView(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	response := toTaskResponse(view)
	return &response, nil
}

func parseDueDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := time.Parse(dueDateLayout, strings.TrimSpace(*value))
	if err != nil {
		return nil, apperrors.NewValidationError("due_date", "must be a date in YYYY-MM-DD format")
	}
	return &t, nil
}

func toTaskResponse(view *models.TaskView) TaskResponse {
	response := TaskResponse{
		ID:             view.ID,
		Title:          view.Title,
		Description:    view.Description,
		TeamID:         view.TeamID,
		TeamName:       view.TeamName,
		AssignedTo:     view.AssignedTo,
		AssignedToName: view.AssignedToName,
		CreatedBy:      view.CreatedBy,
		CreatedByName:  view.CreatedByName,
		Status:         view.Status,
		Priority:       view.Priority,
		CreatedAt:      view.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      view.UpdatedAt.Format(time.RFC3339),
	}
	if view.DueDate != nil {
		dueDate := view.DueDate.Format(dueDateLayout)
		response.DueDate = &dueDate
	}
	return response
}
