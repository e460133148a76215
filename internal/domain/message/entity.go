package message

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Message represents the messages table. Seq is assigned by the database on
// insert and breaks ties between messages sharing a creation timestamp;
// clients never supply either.
type Message struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoomID           uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_room_seq,priority:1"`
	AuthorID         uuid.UUID `gorm:"type:uuid;not null"`
	Body             string    `gorm:"type:text;not null"`
	Seq              int64     `gorm:"autoIncrement;uniqueIndex;index:idx_messages_room_seq,priority:2"`
	Edited           bool      `gorm:"not null;default:false"`
	EditedAt         sql.NullTime
	Deleted          bool `gorm:"not null;default:false"`
	ReplyToMessageID uuid.NullUUID `gorm:"type:uuid;index"`
	ThreadID         uuid.NullUUID `gorm:"type:uuid;index"`
	CreatedAt        time.Time     `gorm:"not null"`
}

// Attachment represents the attachments table. Descriptors only; the file
// itself lives in external storage and is never fetched here.
type Attachment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	MessageID   uuid.UUID `gorm:"type:uuid;not null;index"`
	FileName    string    `gorm:"size:255;not null"`
	URL         string    `gorm:"size:1024;not null"`
	ContentType string    `gorm:"size:128"`
	SizeBytes   int64
}

// Mention represents the mentions table. One row per (message, user); only
// usernames that resolved against the user directory get a row.
type Mention struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	MessageID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_mentions_message_user,priority:1"`
	MentionedUserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_mentions_message_user,priority:2"`
	CreatedAt       time.Time `gorm:"not null"`
}

func (Message) TableName() string {
	return "messages"
}

func (Attachment) TableName() string {
	return "attachments"
}

func (Mention) TableName() string {
	return "mentions"
}
