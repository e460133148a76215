package services

import (
	"context"
	"time"

	"atrium-chat/internal/domain/notification"
	"atrium-chat/internal/repository"

	"github.com/google/uuid"
)

type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// Notify records a mention or reply event for a recipient. A notification
// addressed to its own sender is silently dropped; no row is created.
func (s *NotificationService) Notify(ctx context.Context, recipientUserID uuid.UUID, typ string, messageID, fromUserID uuid.UUID, threadID uuid.NullUUID) (*notification.Notification, error) {
	if recipientUserID == fromUserID {
		return nil, nil
	}

	n := notification.Notification{
		ID:              uuid.New(),
		RecipientUserID: recipientUserID,
		Type:            typ,
		MessageID:       messageID,
		ThreadID:        threadID,
		FromUserID:      fromUserID,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.notificationRepo.Create(ctx, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *NotificationService) ListForUser(ctx context.Context, userID uuid.UUID, onlyUnread bool, page, limit int) ([]notification.Notification, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.notificationRepo.GetForUser(ctx, userID, onlyUnread, page, limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.notificationRepo.MarkRead(ctx, id, userID)
}
