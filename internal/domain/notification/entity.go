package notification

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeMention = "MENTION"
	TypeReply   = "REPLY"
)

// Notification represents the notifications table. Rows are immutable after
// creation except for the read flag. A notification is never created when
// recipient and sender are the same user.
type Notification struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecipientUserID uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_recipient_created,priority:1"`
	Type            string    `gorm:"size:16;not null"`
	MessageID       uuid.UUID `gorm:"type:uuid;not null"`
	ThreadID        uuid.NullUUID `gorm:"type:uuid"`
	FromUserID      uuid.UUID     `gorm:"type:uuid;not null"`
	IsRead          bool          `gorm:"not null;default:false;index"`
	CreatedAt       time.Time     `gorm:"not null;index:idx_notifications_recipient_created,priority:2"`
}

func (Notification) TableName() string {
	return "notifications"
}
