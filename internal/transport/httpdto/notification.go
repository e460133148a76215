package httpdto

import "time"

type NotificationResponse struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	MessageID  string    `json:"message_id"`
	ThreadID   string    `json:"thread_id,omitempty"`
	FromUserID string    `json:"from_user_id"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int64                  `json:"total"`
}
