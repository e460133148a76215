package handler

import (
	"context"
	"net/http"

	"atrium-chat/internal/domain/message"
	"atrium-chat/internal/services"
	"atrium-chat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MessageHandler struct {
	messages  *services.MessageService
	threads   *services.ThreadService
	directory *services.DirectoryService
}

func NewMessageHandler(messages *services.MessageService, threads *services.ThreadService, directory *services.DirectoryService) *MessageHandler {
	return &MessageHandler{messages: messages, threads: threads, directory: directory}
}

// List returns a chronological page of a room's messages.
func (h *MessageHandler) List(c *gin.Context) {
	roomID, err := parseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid room id", "INVALID_REQUEST"))
		return
	}

	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	limit := parseInt(c.Query("limit"), 50)
	offset := parseInt(c.Query("offset"), 0)

	msgs, err := h.messages.ListMessages(c.Request.Context(), roomID, userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	out, err := h.toMessageResponses(c.Request.Context(), msgs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"messages": out}))
}

// Post stores a new message in a room. A reply_to target routes the post
// through the thread manager instead.
func (h *MessageHandler) Post(c *gin.Context) {
	roomID, err := parseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid room id", "INVALID_REQUEST"))
		return
	}

	var req httpdto.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	attachments := toAttachmentInputs(req.Attachments)

	var m message.Message
	if req.ReplyTo != "" {
		parentID, err := parseUUID(req.ReplyTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid reply_to", "INVALID_REQUEST"))
			return
		}
		m, err = h.threads.Reply(c.Request.Context(), parentID, userID, req.Body, attachments)
		if err != nil {
			respondError(c, err)
			return
		}
	} else {
		m, err = h.messages.PostMessage(c.Request.Context(), roomID, userID, req.Body, attachments, uuid.NullUUID{}, uuid.NullUUID{})
		if err != nil {
			respondError(c, err)
			return
		}
	}

	out, err := h.toMessageResponses(c.Request.Context(), []message.Message{m})
	if err != nil {
		respondError(c, err)
		return
	}
	out[0].Attachments = req.Attachments
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(out[0]))
}

func (h *MessageHandler) Edit(c *gin.Context) {
	messageID, err := parseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid message id", "INVALID_REQUEST"))
		return
	}

	var req httpdto.EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	m, err := h.messages.EditMessage(c.Request.Context(), messageID, userID, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	out, err := h.toMessageResponses(c.Request.Context(), []message.Message{m})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(out[0]))
}

func (h *MessageHandler) Delete(c *gin.Context) {
	messageID, err := parseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid message id", "INVALID_REQUEST"))
		return
	}

	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	if err := h.messages.DeleteMessage(c.Request.Context(), messageID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

// Reply posts into the thread anchored at the target message.
func (h *MessageHandler) Reply(c *gin.Context) {
	parentID, err := parseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid message id", "INVALID_REQUEST"))
		return
	}

	var req httpdto.PostReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	m, err := h.threads.Reply(c.Request.Context(), parentID, userID, req.Body, toAttachmentInputs(req.Attachments))
	if err != nil {
		respondError(c, err)
		return
	}

	out, err := h.toMessageResponses(c.Request.Context(), []message.Message{m})
	if err != nil {
		respondError(c, err)
		return
	}
	out[0].Attachments = req.Attachments
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(out[0]))
}

// toMessageResponses formats messages with author display names and avatar
// references resolved in one directory batch.
func (h *MessageHandler) toMessageResponses(ctx context.Context, msgs []message.Message) ([]httpdto.MessageResponse, error) {
	authorIDs := make([]uuid.UUID, 0, len(msgs))
	for _, m := range msgs {
		authorIDs = append(authorIDs, m.AuthorID)
	}

	profiles, err := h.directory.GetProfiles(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]httpdto.MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		resp := httpdto.MessageResponse{
			ID:        m.ID.String(),
			RoomID:    m.RoomID.String(),
			AuthorID:  m.AuthorID.String(),
			Body:      m.Body,
			Edited:    m.Edited,
			Deleted:   m.Deleted,
			CreatedAt: m.CreatedAt,
		}
		if p, ok := profiles[m.AuthorID]; ok {
			resp.AuthorDisplayName = p.DisplayName
			resp.AuthorAvatarURL = p.AvatarURL
		}
		if m.EditedAt.Valid {
			t := m.EditedAt.Time
			resp.EditedAt = &t
		}
		if m.ReplyToMessageID.Valid {
			resp.ReplyToMessageID = m.ReplyToMessageID.UUID.String()
		}
		if m.ThreadID.Valid {
			resp.ThreadID = m.ThreadID.UUID.String()
		}
		out = append(out, resp)
	}
	return out, nil
}

func toAttachmentInputs(payloads []httpdto.AttachmentPayload) []services.AttachmentInput {
	if len(payloads) == 0 {
		return nil
	}
	out := make([]services.AttachmentInput, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, services.AttachmentInput{
			FileName:    p.FileName,
			URL:         p.URL,
			ContentType: p.ContentType,
			SizeBytes:   p.SizeBytes,
		})
	}
	return out
}
