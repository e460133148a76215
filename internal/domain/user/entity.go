package user

import (
	"github.com/google/uuid"
)

// User is a read-only mirror of the external user directory's users table.
// The chat core never writes it; registration, profiles and credentials are
// owned elsewhere.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username    string    `gorm:"size:64;uniqueIndex;not null"`
	DisplayName string    `gorm:"size:128"`
	AvatarURL   string    `gorm:"size:1024"`
}

func (User) TableName() string {
	return "users"
}
