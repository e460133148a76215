package services

import (
	"context"
	"errors"
	"time"

	"atrium-chat/internal/domain/message"
	"atrium-chat/internal/domain/notification"
	"atrium-chat/internal/domain/thread"
	"atrium-chat/internal/proxy"
	"atrium-chat/internal/repository"
	atrium_errors "atrium-chat/pkg/errors"
	"atrium-chat/pkg/logger"

	"github.com/google/uuid"
)

type ThreadService struct {
	threadRepo    repository.ThreadRepository
	messageRepo   repository.MessageRepository
	messages      *MessageService
	notifications *NotificationService
	access        *proxy.AccessControl
	logger        *logger.Logger
}

func NewThreadService(threadRepo repository.ThreadRepository, messageRepo repository.MessageRepository, messages *MessageService, notifications *NotificationService, access *proxy.AccessControl, l *logger.Logger) *ThreadService {
	return &ThreadService{
		threadRepo:    threadRepo,
		messageRepo:   messageRepo,
		messages:      messages,
		notifications: notifications,
		access:        access,
		logger:        l,
	}
}

// GetOrCreateThread returns the thread anchored to parentMessageID, creating
// it when absent. Safe under concurrent invocation: the insert races on the
// unique parent_message_id index and the loser re-reads the winner's row, so
// every caller observes the same thread id.
func (s *ThreadService) GetOrCreateThread(ctx context.Context, parentMessageID, roomID, creator uuid.UUID) (thread.Thread, error) {
	t, err := s.threadRepo.GetByParentMessageID(ctx, parentMessageID)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, atrium_errors.ErrNotFound) {
		return thread.Thread{}, err
	}

	now := time.Now().UTC()
	t = thread.Thread{
		ID:              uuid.New(),
		ParentMessageID: parentMessageID,
		RoomID:          roomID,
		CreatedBy:       creator,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err = s.threadRepo.Create(ctx, &t)
	if err == nil {
		return t, nil
	}
	if errors.Is(err, atrium_errors.ErrAlreadyExists) {
		return s.threadRepo.GetByParentMessageID(ctx, parentMessageID)
	}
	return thread.Thread{}, err
}

// Reply posts a message into the thread of parentMessageID, creating the
// thread on first reply. Validation and authorization run before the thread
// upsert so a rejected reply leaves no thread behind.
func (s *ThreadService) Reply(ctx context.Context, parentMessageID, authorID uuid.UUID, body string, attachments []AttachmentInput) (message.Message, error) {
	if _, err := validateBody(body); err != nil {
		return message.Message{}, err
	}

	parent, err := s.messageRepo.GetByID(ctx, parentMessageID)
	if err != nil {
		if errors.Is(err, atrium_errors.ErrNotFound) {
			return message.Message{}, atrium_errors.ErrParentNotFound
		}
		return message.Message{}, err
	}

	if err := s.access.AuthorizeWrite(ctx, authorID, parent.RoomID); err != nil {
		return message.Message{}, err
	}

	t, err := s.GetOrCreateThread(ctx, parent.ID, parent.RoomID, authorID)
	if err != nil {
		return message.Message{}, err
	}

	m, err := s.messages.PostMessage(ctx, parent.RoomID, authorID, body, attachments,
		uuid.NullUUID{UUID: t.ID, Valid: true},
		uuid.NullUUID{UUID: parent.ID, Valid: true})
	if err != nil {
		return message.Message{}, err
	}

	// Best-effort from here: the reply is committed and stays committed.
	if err := s.threadRepo.Touch(ctx, t.ID, m.CreatedAt); err != nil {
		s.logger.Errorf("bump thread %s: %s", t.ID, err)
	}
	if parent.AuthorID != authorID {
		if _, err := s.notifications.Notify(ctx, parent.AuthorID, notification.TypeReply, m.ID, authorID, m.ThreadID); err != nil {
			s.logger.Errorf("reply notification for message %s: %s", m.ID, err)
		}
	}

	return m, nil
}

// GetThreadMessages accepts either a thread id or a parent message id and
// returns the parent plus its replies, ascending. Legacy direct replies that
// predate thread assignment are folded in. Deleted messages are returned
// flagged rather than dropped.
func (s *ThreadService) GetThreadMessages(ctx context.Context, id, userID uuid.UUID) (*thread.Thread, []message.Message, error) {
	var t *thread.Thread
	var parentID uuid.UUID
	var threadID uuid.UUID

	found, err := s.threadRepo.GetByID(ctx, id)
	switch {
	case err == nil:
		t = &found
	case errors.Is(err, atrium_errors.ErrNotFound):
		byParent, perr := s.threadRepo.GetByParentMessageID(ctx, id)
		if perr == nil {
			t = &byParent
		} else if !errors.Is(perr, atrium_errors.ErrNotFound) {
			return nil, nil, perr
		}
	default:
		return nil, nil, err
	}

	if t != nil {
		parentID = t.ParentMessageID
		threadID = t.ID
	} else {
		// No thread yet: treat the id as a parent message with only legacy
		// direct replies (possibly none).
		parentID = id
	}

	parent, err := s.messageRepo.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, atrium_errors.ErrNotFound) {
			return nil, nil, atrium_errors.ErrParentNotFound
		}
		return nil, nil, err
	}

	if err := s.access.AuthorizeRead(ctx, userID, parent.RoomID); err != nil {
		return nil, nil, err
	}

	replies, err := s.messageRepo.GetThreadMessages(ctx, threadID, parentID)
	if err != nil {
		return nil, nil, err
	}

	out := make([]message.Message, 0, len(replies)+1)
	out = append(out, parent)
	for _, r := range replies {
		if r.ID == parent.ID {
			continue
		}
		out = append(out, r)
	}
	return t, out, nil
}
