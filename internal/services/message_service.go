package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"atrium-chat/internal/domain/message"
	"atrium-chat/internal/proxy"
	"atrium-chat/internal/repository"
	atrium_errors "atrium-chat/pkg/errors"
	"atrium-chat/pkg/logger"

	"github.com/google/uuid"
)

// MaxBodyChars is the message body limit, counted in runes after trimming.
const MaxBodyChars = 2000

const sideEffectTimeout = 10 * time.Second

// AttachmentInput is an opaque descriptor for a file held in external
// storage; the store keeps the reference and never fetches it.
type AttachmentInput struct {
	FileName    string
	URL         string
	ContentType string
	SizeBytes   int64
}

type MessageService struct {
	messageRepo repository.MessageRepository
	access      *proxy.AccessControl
	mentions    *MentionService
	logger      *logger.Logger
}

func NewMessageService(messageRepo repository.MessageRepository, access *proxy.AccessControl, mentions *MentionService, l *logger.Logger) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		access:      access,
		mentions:    mentions,
		logger:      l,
	}
}

// validateBody trims and length-checks a message body. The stored body is
// always the trimmed form.
func validateBody(body string) (string, error) {
	trimmed := strings.TrimSpace(body)
	n := utf8.RuneCountInString(trimmed)
	if n == 0 || n > MaxBodyChars {
		return "", atrium_errors.ErrInvalidMessage
	}
	return trimmed, nil
}

// PostMessage validates, authorizes and stores a message. The creation
// timestamp is server-assigned; the insertion sequence comes from the
// database. A rejected post persists nothing. Mention resolution runs
// detached after the commit and can never fail the post.
func (s *MessageService) PostMessage(ctx context.Context, roomID, authorID uuid.UUID, body string, attachments []AttachmentInput, threadID, replyTo uuid.NullUUID) (message.Message, error) {
	trimmed, err := validateBody(body)
	if err != nil {
		return message.Message{}, err
	}

	if err := s.access.AuthorizeWrite(ctx, authorID, roomID); err != nil {
		return message.Message{}, err
	}

	m := message.Message{
		ID:               uuid.New(),
		RoomID:           roomID,
		AuthorID:         authorID,
		Body:             trimmed,
		ReplyToMessageID: replyTo,
		ThreadID:         threadID,
		CreatedAt:        time.Now().UTC(),
	}

	rows := make([]message.Attachment, 0, len(attachments))
	for _, a := range attachments {
		rows = append(rows, message.Attachment{
			ID:          uuid.New(),
			FileName:    a.FileName,
			URL:         a.URL,
			ContentType: a.ContentType,
			SizeBytes:   a.SizeBytes,
		})
	}

	if err := s.messageRepo.Create(ctx, &m, rows); err != nil {
		return message.Message{}, err
	}

	s.queueMentionScan(ctx, m)
	return m, nil
}

// queueMentionScan hands the committed message to the mention resolver on a
// context detached from request cancellation, so a slow or failing
// resolution never blocks or fails the caller.
func (s *MessageService) queueMentionScan(parent context.Context, m message.Message) {
	if s.mentions == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), sideEffectTimeout)
		defer cancel()
		if err := s.mentions.Process(ctx, m); err != nil {
			s.logger.Errorf("mention scan for message %s: %s", m.ID, err)
		}
	}()
}

// ListMessages returns a chronological page of non-deleted room messages.
// The newest page is fetched first and reversed, so recent history stays
// cheap while callers always see oldest to newest.
func (s *MessageService) ListMessages(ctx context.Context, roomID, userID uuid.UUID, limit, offset int) ([]message.Message, error) {
	if err := s.access.AuthorizeRead(ctx, userID, roomID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	msgs, err := s.messageRepo.GetRoomMessages(ctx, roomID, limit, offset)
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (s *MessageService) GetByID(ctx context.Context, id, userID uuid.UUID) (message.Message, error) {
	m, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return message.Message{}, err
	}
	if err := s.access.AuthorizeRead(ctx, userID, m.RoomID); err != nil {
		return message.Message{}, err
	}
	return m, nil
}

// EditMessage replaces the body of a live message. Deleted messages cannot
// be edited; only the author may edit.
func (s *MessageService) EditMessage(ctx context.Context, id, editorID uuid.UUID, newBody string) (message.Message, error) {
	m, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return message.Message{}, err
	}
	if m.AuthorID != editorID {
		return message.Message{}, atrium_errors.ErrAccessDenied
	}
	if m.Deleted {
		return message.Message{}, atrium_errors.ErrInvalidState
	}

	trimmed, err := validateBody(newBody)
	if err != nil {
		return message.Message{}, err
	}

	m.Body = trimmed
	m.Edited = true
	m.EditedAt.Time = time.Now().UTC()
	m.EditedAt.Valid = true
	if err := s.messageRepo.Update(ctx, m); err != nil {
		return message.Message{}, err
	}
	return m, nil
}

// DeleteMessage soft-deletes; the body stays on disk for referential
// integrity. Deleting twice is not an error.
func (s *MessageService) DeleteMessage(ctx context.Context, id, actorID uuid.UUID) error {
	m, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m.AuthorID != actorID {
		return atrium_errors.ErrAccessDenied
	}
	if m.Deleted {
		return nil
	}
	return s.messageRepo.SoftDelete(ctx, id)
}

func (s *MessageService) GetAttachments(ctx context.Context, messageID uuid.UUID) ([]message.Attachment, error) {
	return s.messageRepo.GetMessageAttachments(ctx, messageID)
}
