package proxy

import (
	"context"

	"atrium-chat/internal/domain/room"
	"atrium-chat/internal/redis"
	"atrium-chat/internal/repository"
	atrium_errors "atrium-chat/pkg/errors"

	"github.com/google/uuid"
)

// AccessControl is the gate every room read and write passes through. Both
// checks are pure: they consult state but never mutate it.
type AccessControl struct {
	roomRepo repository.RoomRepository
	cache    *redis.CacheStore
}

func NewAccessControl(roomRepo repository.RoomRepository, cache *redis.CacheStore) *AccessControl {
	return &AccessControl{roomRepo: roomRepo, cache: cache}
}

func (a *AccessControl) AuthorizeRead(ctx context.Context, userID, roomID uuid.UUID) error {
	return a.authorize(ctx, userID, roomID)
}

// AuthorizeWrite applies the same policy as AuthorizeRead: read and write
// permission are symmetric in this design.
func (a *AccessControl) AuthorizeWrite(ctx context.Context, userID, roomID uuid.UUID) error {
	return a.authorize(ctx, userID, roomID)
}

func (a *AccessControl) authorize(ctx context.Context, userID, roomID uuid.UUID) error {
	rm, err := a.getRoom(ctx, roomID)
	if err != nil {
		return err
	}

	switch rm.Visibility {
	case room.VisibilityPublic:
		return nil
	case room.VisibilityPrivate:
		return a.ensureMember(ctx, roomID, userID)
	default:
		return atrium_errors.ErrAccessDenied
	}
}

func (a *AccessControl) getRoom(ctx context.Context, roomID uuid.UUID) (room.Room, error) {
	if a.cache != nil {
		if cached, err := a.cache.GetRoom(ctx, roomID); err == nil && cached != nil {
			return *cached, nil
		}
	}
	rm, err := a.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return room.Room{}, err
	}
	if a.cache != nil {
		_ = a.cache.SetRoom(ctx, rm)
	}
	return rm, nil
}

func (a *AccessControl) ensureMember(ctx context.Context, roomID, userID uuid.UUID) error {
	if a.cache != nil {
		if ok, hit, err := a.cache.IsMember(ctx, roomID, userID); err == nil && hit {
			if !ok {
				return atrium_errors.ErrAccessDenied
			}
			return nil
		}
	}

	ok, err := a.roomRepo.IsMember(ctx, roomID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return atrium_errors.ErrAccessDenied
	}

	if a.cache != nil {
		if ids, err := a.roomRepo.GetMemberIDs(ctx, roomID); err == nil {
			_ = a.cache.SetMembers(ctx, roomID, ids)
		}
	}
	return nil
}
