package models

// User is an identity that can own teams, join teams and work on tasks.
// Username and email are globally unique.
type User struct {
	BaseModel
	Username     string `json:"username" gorm:"size:30;not null;uniqueIndex"`
	Email        string `json:"email" gorm:"size:100;not null;uniqueIndex"`
	PasswordHash string `json:"-" gorm:"size:255;not null"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}
