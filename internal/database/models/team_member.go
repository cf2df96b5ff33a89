package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamMember is the (team, user, role) association that governs access to a
// team and its tasks. At most one row exists per (team, user) pair.
type TeamMember struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	TeamID   uuid.UUID `json:"team_id" gorm:"type:uuid;not null;uniqueIndex:idx_team_members_team_user;index"`
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_team_members_team_user;index"`
	Role     TeamRole  `json:"role" gorm:"type:varchar(20);not null;default:'member'"`
	JoinedAt time.Time `json:"joined_at" gorm:"not null"`

	// Relationships
	Team *Team `json:"-" gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for TeamMember
func (TeamMember) TableName() string {
	return "team_members"
}

// BeforeCreate sets the UUID and join time if not already set
func (m *TeamMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}
	return nil
}

// TeamMemberWithUser is a membership row joined with the member's profile
type TeamMemberWithUser struct {
	TeamMember
	Username string `json:"username"`
	Email    string `json:"email"`
}
