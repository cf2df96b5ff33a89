// Package policy decides whether an actor may perform an action on a team
// or task. Decisions are computed from the actor's membership only and never
// touch storage themselves.
package policy

import (
	"context"
	"fmt"

	"team-task-backend/internal/database/models"
	apperrors "team-task-backend/internal/errors"

	"github.com/google/uuid"
)

// Action identifies a guarded operation
type Action string

const (
	ActionViewTeam      Action = "view_team"
	ActionViewTeamTasks Action = "view_team_tasks"
	ActionCreateTask    Action = "create_task"
	ActionEditTask      Action = "edit_task"
	ActionDeleteTask    Action = "delete_task"
	ActionManageMembers Action = "manage_members"
	ActionUpdateTeam    Action = "update_team"
	ActionDeleteTeam    Action = "delete_team"
)

// Reason explains a denial
type Reason string

const (
	ReasonNotMember      Reason = "not_member"
	ReasonNotElevated    Reason = "not_elevated"
	ReasonNotTopRole     Reason = "not_top_role"
	ReasonNotTaskCreator Reason = "not_task_creator"
	ReasonUnknownAction  Reason = "unknown_action"
)

// Resource is the team an action targets and, for task actions, the task's creator
type Resource struct {
	TeamID        uuid.UUID
	TaskCreatedBy *uuid.UUID
}

// TeamResource targets a team
func TeamResource(teamID uuid.UUID) Resource {
	return Resource{TeamID: teamID}
}

// TaskResource targets a task of a team
func TaskResource(task *models.Task) Resource {
	createdBy := task.CreatedBy
	return Resource{TeamID: task.TeamID, TaskCreatedBy: &createdBy}
}

// Decision is the outcome of an authorization check
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason Reason) Decision {
	return Decision{Reason: reason}
}

// Err translates a denial into the error returned to callers. Non-members get
// a not-found error for entity so that existence is not leaked; confirmed
// members lacking privilege get an authorization error.
func (d Decision) Err(entity string) error {
	switch d.Reason {
	case "":
		return nil
	case ReasonNotMember:
		return apperrors.NewNotFoundError(entity)
	case ReasonNotTopRole:
		return apperrors.ErrNotTeamOwner
	case ReasonNotTaskCreator:
		return apperrors.ErrCannotDeleteTask
	case ReasonNotElevated:
		return apperrors.ErrNotTeamAdmin
	default:
		return apperrors.NewAuthorizationError(fmt.Sprintf("action not permitted: %s", d.Reason))
	}
}

// Decide evaluates action for actor given the actor's role in the resource's
// team. role is nil when the actor has no membership. The membership check
// runs first and no further check is made once a check fails.
func Decide(role *models.TeamRole, actor uuid.UUID, action Action, resource Resource) Decision {
	if role == nil || !role.IsValid() {
		return deny(ReasonNotMember)
	}

	switch action {
	case ActionViewTeam, ActionViewTeamTasks, ActionCreateTask, ActionEditTask:
		return allow()
	case ActionDeleteTask:
		if resource.TaskCreatedBy != nil && *resource.TaskCreatedBy == actor {
			return allow()
		}
		if role.IsElevated() {
			return allow()
		}
		return deny(ReasonNotTaskCreator)
	case ActionManageMembers, ActionUpdateTeam:
		if role.IsElevated() {
			return allow()
		}
		return deny(ReasonNotElevated)
	case ActionDeleteTeam:
		if role.IsTop() {
			return allow()
		}
		return deny(ReasonNotTopRole)
	}
	return deny(ReasonUnknownAction)
}

// RoleLookup resolves an actor's role in a team
type RoleLookup interface {
	RoleOf(ctx context.Context, teamID, userID uuid.UUID) (models.TeamRole, error)
}

// Evaluator authorizes actions using roles from a RoleLookup
type Evaluator struct {
	roles RoleLookup
}

// NewEvaluator creates a new evaluator
func NewEvaluator(roles RoleLookup) *Evaluator {
	return &Evaluator{roles: roles}
}

// Evaluate looks up the actor's role and decides. A missing membership is a
// denial, not an error; only lookup failures are returned as errors.
func (e *Evaluator) Evaluate(ctx context.Context, actor uuid.UUID, action Action, resource Resource) (Decision, error) {
	role, err := e.roles.RoleOf(ctx, resource.TeamID, actor)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return Decide(nil, actor, action, resource), nil
		}
		return Decision{}, err
	}
	return Decide(&role, actor, action, resource), nil
}

// Authorize is Evaluate with the denial translated by Decision.Err using entity
// as the name of the hidden resource.
func (e *Evaluator) Authorize(ctx context.Context, actor uuid.UUID, action Action, resource Resource, entity string) error {
	decision, err := e.Evaluate(ctx, actor, action, resource)
	if err != nil {
		return err
	}
	return decision.Err(entity)
}
