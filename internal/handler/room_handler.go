package handler

import (
	"net/http"
	"strings"

	"atrium-chat/internal/domain/room"
	"atrium-chat/internal/services"
	"atrium-chat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	service *services.RoomService
}

func NewRoomHandler(service *services.RoomService) *RoomHandler {
	return &RoomHandler{service: service}
}

func (h *RoomHandler) Create(c *gin.Context) {
	var req httpdto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	rm, err := h.service.CreateRoom(c.Request.Context(), req.Name, req.Description, strings.ToUpper(req.Visibility), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(toRoomResponse(rm)))
}

func (h *RoomHandler) Get(c *gin.Context) {
	roomID, err := parseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid room id", "INVALID_REQUEST"))
		return
	}

	rm, err := h.service.GetRoom(c.Request.Context(), roomID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toRoomResponse(rm)))
}

func (h *RoomHandler) List(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	rooms, err := h.service.ListRooms(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]httpdto.RoomResponse, 0, len(rooms))
	for _, rm := range rooms {
		out = append(out, toRoomResponse(rm))
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"rooms": out}))
}

func (h *RoomHandler) AddMember(c *gin.Context) {
	roomID, err := parseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid room id", "INVALID_REQUEST"))
		return
	}

	var req httpdto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}
	memberID, err := parseUUID(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid user_id", "INVALID_REQUEST"))
		return
	}

	actorID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	if err := h.service.AddMember(c.Request.Context(), roomID, actorID, memberID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func toRoomResponse(rm room.Room) httpdto.RoomResponse {
	resp := httpdto.RoomResponse{
		ID:         rm.ID.String(),
		Name:       rm.Name,
		Visibility: rm.Visibility,
		CreatedBy:  rm.CreatedBy.String(),
		CreatedAt:  rm.CreatedAt,
	}
	if rm.Description.Valid {
		resp.Description = rm.Description.String
	}
	return resp
}
