package thread

import (
	"time"

	"github.com/google/uuid"
)

// Thread represents the threads table. The unique index on ParentMessageID
// is what makes concurrent get-or-create safe: the losing inserter sees a
// duplicate-key error and re-reads the winner's row.
type Thread struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	ParentMessageID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	RoomID          uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedBy       uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

func (Thread) TableName() string {
	return "threads"
}
