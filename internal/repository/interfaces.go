package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"atrium-chat/internal/domain/message"
	"atrium-chat/internal/domain/notification"
	"atrium-chat/internal/domain/room"
	"atrium-chat/internal/domain/thread"
	"atrium-chat/internal/domain/user"
)

type RoomRepository interface {
	// Create inserts the room and, when initialMember is non-nil, the
	// creator's membership in the same transaction.
	Create(ctx context.Context, r *room.Room, initialMember *room.Membership) error
	GetByID(ctx context.Context, id uuid.UUID) (room.Room, error)

	AddMember(ctx context.Context, m *room.Membership) error
	IsMember(ctx context.Context, roomID, userID uuid.UUID) (bool, error)
	GetMemberIDs(ctx context.Context, roomID uuid.UUID) ([]uuid.UUID, error)

	// ListVisible returns all public rooms plus private rooms where userID
	// has a membership row.
	ListVisible(ctx context.Context, userID uuid.UUID) ([]room.Room, error)
}

type MessageRepository interface {
	// Create inserts the message and its attachment descriptors atomically.
	Create(ctx context.Context, m *message.Message, attachments []message.Attachment) error
	GetByID(ctx context.Context, id uuid.UUID) (message.Message, error)
	Update(ctx context.Context, m message.Message) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// GetRoomMessages returns non-deleted messages newest-first; callers
	// reverse the page into chronological order.
	GetRoomMessages(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]message.Message, error)
	// GetThreadMessages returns replies ascending: messages carrying the
	// thread id plus legacy direct replies to the parent that never got one.
	GetThreadMessages(ctx context.Context, threadID, parentMessageID uuid.UUID) ([]message.Message, error)

	GetMessageAttachments(ctx context.Context, messageID uuid.UUID) ([]message.Attachment, error)

	AddMention(ctx context.Context, m *message.Mention) error
	GetMessageMentions(ctx context.Context, messageID uuid.UUID) ([]message.Mention, error)
}

type ThreadRepository interface {
	Create(ctx context.Context, t *thread.Thread) error
	GetByID(ctx context.Context, id uuid.UUID) (thread.Thread, error)
	GetByParentMessageID(ctx context.Context, parentMessageID uuid.UUID) (thread.Thread, error)
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *notification.Notification) error
	GetForUser(ctx context.Context, userID uuid.UUID, onlyUnread bool, page, limit int) ([]notification.Notification, int64, error)
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) error
}

// UserRepository reads the external user directory's table. No write
// methods: profiles are owned outside the chat core.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByUsername(ctx context.Context, username string) (user.User, error)
	GetByUsernames(ctx context.Context, usernames []string) ([]user.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]user.User, error)
}
