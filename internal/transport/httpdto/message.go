package httpdto

import "time"

type AttachmentPayload struct {
	FileName    string `json:"file_name"`
	URL         string `json:"url" binding:"required"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

type PostMessageRequest struct {
	Body        string              `json:"body" binding:"required"`
	Attachments []AttachmentPayload `json:"attachments"`
	// ReplyTo turns the post into a threaded reply to that message.
	ReplyTo string `json:"reply_to"`
}

type EditMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

type MessageResponse struct {
	ID                string              `json:"id"`
	RoomID            string              `json:"room_id"`
	AuthorID          string              `json:"author_id"`
	AuthorDisplayName string              `json:"author_display_name"`
	AuthorAvatarURL   string              `json:"author_avatar_url"`
	Body              string              `json:"body"`
	Edited            bool                `json:"edited"`
	EditedAt          *time.Time          `json:"edited_at,omitempty"`
	Deleted           bool                `json:"deleted"`
	ReplyToMessageID  string              `json:"reply_to_message_id,omitempty"`
	ThreadID          string              `json:"thread_id,omitempty"`
	Attachments       []AttachmentPayload `json:"attachments,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
}
