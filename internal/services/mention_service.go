package services

import (
	"context"
	"errors"
	"regexp"
	"time"

	"atrium-chat/internal/domain/message"
	"atrium-chat/internal/domain/notification"
	"atrium-chat/internal/repository"
	atrium_errors "atrium-chat/pkg/errors"
	"atrium-chat/pkg/logger"

	"github.com/google/uuid"
)

var mentionPattern = regexp.MustCompile(`@([A-Za-z0-9_.-]+)`)

// ExtractMentions returns the deduplicated candidate usernames referenced by
// @-tokens in text. Case-sensitive; first occurrence order is kept.
func ExtractMentions(text string) []string {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	candidates := make([]string, 0, len(matches))
	for _, m := range matches {
		name := m[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		candidates = append(candidates, name)
	}
	return candidates
}

// MentionService turns @-tokens in stored messages into Mention rows and
// mention notifications. Everything here is best-effort: the message is
// already committed when this runs, and no failure may touch it.
type MentionService struct {
	messageRepo   repository.MessageRepository
	directory     *DirectoryService
	notifications *NotificationService
	logger        *logger.Logger
}

func NewMentionService(messageRepo repository.MessageRepository, directory *DirectoryService, notifications *NotificationService, l *logger.Logger) *MentionService {
	return &MentionService{
		messageRepo:   messageRepo,
		directory:     directory,
		notifications: notifications,
		logger:        l,
	}
}

// Process resolves the mentions of a committed message. Unresolvable
// usernames are dropped; the author never gets a mention row for mentioning
// themselves.
func (s *MentionService) Process(ctx context.Context, m message.Message) error {
	candidates := ExtractMentions(m.Body)
	if len(candidates) == 0 {
		return nil
	}

	users, err := s.directory.ResolveUsernames(ctx, candidates)
	if err != nil {
		return err
	}

	for _, u := range users {
		if u.ID == m.AuthorID {
			continue
		}

		mention := message.Mention{
			ID:              uuid.New(),
			MessageID:       m.ID,
			MentionedUserID: u.ID,
			CreatedAt:       time.Now().UTC(),
		}
		if err := s.messageRepo.AddMention(ctx, &mention); err != nil {
			if errors.Is(err, atrium_errors.ErrAlreadyExists) {
				continue
			}
			s.logger.Errorf("mention row for message %s user %s: %s", m.ID, u.ID, err)
			continue
		}

		if _, err := s.notifications.Notify(ctx, u.ID, notification.TypeMention, m.ID, m.AuthorID, m.ThreadID); err != nil {
			s.logger.Errorf("mention notification for message %s user %s: %s", m.ID, u.ID, err)
		}
	}
	return nil
}
