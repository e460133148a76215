package handler

import (
	"net/http"

	"atrium-chat/internal/services"
	"atrium-chat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type ThreadHandler struct {
	threads  *services.ThreadService
	messages *MessageHandler
}

func NewThreadHandler(threads *services.ThreadService, messages *MessageHandler) *ThreadHandler {
	return &ThreadHandler{threads: threads, messages: messages}
}

// Get fetches a thread by thread id or by its parent message id, returning
// the parent plus replies in chronological order.
func (h *ThreadHandler) Get(c *gin.Context) {
	id, err := parseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid thread id", "INVALID_REQUEST"))
		return
	}

	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	t, msgs, err := h.threads.GetThreadMessages(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	out, err := h.messages.toMessageResponses(c.Request.Context(), msgs)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := httpdto.ThreadResponse{Messages: out}
	if t != nil {
		resp.ID = t.ID.String()
		resp.ParentMessageID = t.ParentMessageID.String()
		resp.RoomID = t.RoomID.String()
		resp.CreatedBy = t.CreatedBy.String()
		resp.CreatedAt = t.CreatedAt
		resp.UpdatedAt = t.UpdatedAt
	} else if len(msgs) > 0 {
		// Legacy view: no thread row yet, the parent anchors the response.
		resp.ParentMessageID = msgs[0].ID.String()
		resp.RoomID = msgs[0].RoomID.String()
		resp.CreatedAt = msgs[0].CreatedAt
		resp.UpdatedAt = msgs[0].CreatedAt
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(resp))
}
