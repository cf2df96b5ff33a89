package models

import (
	"time"

	"github.com/google/uuid"
)

// Task is a unit of work inside a team
type Task struct {
	BaseModel
	Title       string       `json:"title" gorm:"size:200;not null"`
	Description *string      `json:"description,omitempty" gorm:"type:text"`
	TeamID      uuid.UUID    `json:"team_id" gorm:"type:uuid;not null;index"`
	AssignedTo  *uuid.UUID   `json:"assigned_to,omitempty" gorm:"type:uuid;index"`
	CreatedBy   uuid.UUID    `json:"created_by" gorm:"type:uuid;not null;index"`
	Status      TaskStatus   `json:"status" gorm:"type:varchar(20);not null;default:'todo';index"`
	Priority    TaskPriority `json:"priority" gorm:"type:varchar(20);not null;default:'low'"`
	DueDate     *time.Time   `json:"due_date,omitempty" gorm:"type:date;index"`

	// Relationships
	Team     *Team `json:"-" gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	Assignee *User `json:"-" gorm:"foreignKey:AssignedTo;constraint:OnDelete:SET NULL"`
	Creator  *User `json:"-" gorm:"foreignKey:CreatedBy;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Task
func (Task) TableName() string {
	return "tasks"
}

// TaskView is a task joined with the display names shown by clients
type TaskView struct {
	Task
	TeamName       string  `json:"team_name"`
	CreatedByName  string  `json:"created_by_name"`
	AssignedToName *string `json:"assigned_to_name,omitempty"`
}
