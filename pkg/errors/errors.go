package atrium_errors

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrAccessDenied   = errors.New("access denied")
	ErrInvalidMessage = errors.New("invalid message")
	ErrParentNotFound = errors.New("parent message not found")
	ErrInvalidState   = errors.New("invalid state")
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidInput   = errors.New("invalid input")
	ErrRateLimited    = errors.New("rate limited")
)

// NowPtr returns a pointer to current time
func NowPtr() *time.Time {
	now := time.Now()
	return &now
}
