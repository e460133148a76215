package room

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Visibility values. Immutable after creation: there is no update path that
// touches it.
const (
	VisibilityPublic  = "PUBLIC"
	VisibilityPrivate = "PRIVATE"
)

// Room represents the rooms table
type Room struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:128;not null"`
	Description sql.NullString
	Visibility  string    `gorm:"size:16;not null;index"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

// Membership represents the memberships table. A row exists only for
// PRIVATE rooms; its presence is the sole authorization signal.
type Membership struct {
	RoomID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	JoinedAt time.Time `gorm:"not null"`
}

func (Room) TableName() string {
	return "rooms"
}

func (Membership) TableName() string {
	return "memberships"
}
