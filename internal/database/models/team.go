package models

import (
	"github.com/google/uuid"
)

// Team groups users and the tasks they work on
type Team struct {
	BaseModel
	Name        string    `json:"name" gorm:"size:100;not null"`
	Description *string   `json:"description,omitempty" gorm:"type:text"`
	CreatedBy   uuid.UUID `json:"created_by" gorm:"type:uuid;not null;index"`

	// Relationships
	Creator *User `json:"-" gorm:"foreignKey:CreatedBy;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Team
func (Team) TableName() string {
	return "teams"
}

// TeamSummary is a team annotated for one of its members
type TeamSummary struct {
	Team
	Role          TeamRole `json:"role"`
	MemberCount   int64    `json:"member_count"`
	CreatedByName string   `json:"created_by_name"`
}
