package handler

import (
	"net/http"

	"atrium-chat/internal/services"
	"atrium-chat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	onlyUnread := c.Query("unread") == "true"
	page := parseInt(c.Query("page"), 1)
	limit := parseInt(c.Query("limit"), 50)

	notifications, total, err := h.service.ListForUser(c.Request.Context(), userID, onlyUnread, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]httpdto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		resp := httpdto.NotificationResponse{
			ID:         n.ID.String(),
			Type:       n.Type,
			MessageID:  n.MessageID.String(),
			FromUserID: n.FromUserID.String(),
			IsRead:     n.IsRead,
			CreatedAt:  n.CreatedAt,
		}
		if n.ThreadID.Valid {
			resp.ThreadID = n.ThreadID.UUID.String()
		}
		out = append(out, resp)
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.NotificationListResponse{
		Notifications: out,
		Total:         total,
	}))
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := parseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid notification id", "INVALID_REQUEST"))
		return
	}

	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}
