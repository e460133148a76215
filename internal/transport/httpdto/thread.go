package httpdto

import "time"

type PostReplyRequest struct {
	Body        string              `json:"body" binding:"required"`
	Attachments []AttachmentPayload `json:"attachments"`
}

type ThreadResponse struct {
	ID              string    `json:"id,omitempty"`
	ParentMessageID string    `json:"parent_message_id"`
	RoomID          string    `json:"room_id"`
	CreatedBy       string    `json:"created_by,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Messages []MessageResponse `json:"messages"`
}
