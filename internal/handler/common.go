package handler

import (
	"errors"
	"net/http"
	"strconv"

	"atrium-chat/internal/transport/httpdto"
	atrium_errors "atrium-chat/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError maps service sentinels to precise status codes so the
// presentation layer can render a specific user-facing error.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, atrium_errors.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse(err.Error(), "ROOM_NOT_FOUND"))
	case errors.Is(err, atrium_errors.ErrParentNotFound):
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse(err.Error(), "PARENT_NOT_FOUND"))
	case errors.Is(err, atrium_errors.ErrNotFound):
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse(err.Error(), "NOT_FOUND"))
	case errors.Is(err, atrium_errors.ErrAccessDenied):
		c.JSON(http.StatusForbidden, httpdto.NewErrorResponse(err.Error(), "ACCESS_DENIED"))
	case errors.Is(err, atrium_errors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse(err.Error(), "UNAUTHORIZED"))
	case errors.Is(err, atrium_errors.ErrInvalidMessage):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "INVALID_MESSAGE"))
	case errors.Is(err, atrium_errors.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "INVALID_REQUEST"))
	case errors.Is(err, atrium_errors.ErrInvalidState):
		c.JSON(http.StatusConflict, httpdto.NewErrorResponse(err.Error(), "INVALID_STATE"))
	default:
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("internal error", "INTERNAL_ERROR"))
	}
}

func parseUUID(value string) (uuid.UUID, error) {
	return uuid.Parse(value)
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
