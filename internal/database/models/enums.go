package models

// TeamRole is the privilege a user holds inside a team. The set is closed
// and totally ordered by Rank.
type TeamRole string

const (
	TeamRoleOwner  TeamRole = "owner"
	TeamRoleAdmin  TeamRole = "admin"
	TeamRoleMember TeamRole = "member"
)

// Rank returns the role's position in the privilege order, 0 for unknown roles
func (r TeamRole) Rank() int {
	switch r {
	case TeamRoleOwner:
		return 3
	case TeamRoleAdmin:
		return 2
	case TeamRoleMember:
		return 1
	}
	return 0
}

// IsValid checks if the TeamRole is valid
func (r TeamRole) IsValid() bool {
	return r.Rank() > 0
}

// IsElevated reports whether the role may manage the team (owner or admin)
func (r TeamRole) IsElevated() bool {
	return r.Rank() >= TeamRoleAdmin.Rank()
}

// IsTop reports whether the role is the single top role of a team
func (r TeamRole) IsTop() bool {
	return r == TeamRoleOwner
}

// IsAssignable reports whether the role can be granted through member management.
// The owner role is only assigned when the team is created.
func (r TeamRole) IsAssignable() bool {
	return r == TeamRoleAdmin || r == TeamRoleMember
}

// TaskStatus is the workflow state of a task
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusCompleted  TaskStatus = "completed"
)

// DefaultTaskStatus is used when a task is created without a status
const DefaultTaskStatus = TaskStatusTodo

// IsValid checks if the TaskStatus is valid
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusCompleted:
		return true
	}
	return false
}

// TaskPriority is the urgency of a task
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// DefaultTaskPriority is used when a task is created without a priority
const DefaultTaskPriority = TaskPriorityLow

// IsValid checks if the TaskPriority is valid
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}
