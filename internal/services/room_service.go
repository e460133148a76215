package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"atrium-chat/internal/domain/room"
	"atrium-chat/internal/redis"
	"atrium-chat/internal/repository"
	atrium_errors "atrium-chat/pkg/errors"

	"github.com/google/uuid"
)

type RoomService struct {
	roomRepo repository.RoomRepository
	cache    *redis.CacheStore
}

func NewRoomService(roomRepo repository.RoomRepository, cache *redis.CacheStore) *RoomService {
	return &RoomService{roomRepo: roomRepo, cache: cache}
}

// CreateRoom assigns identity and, for private rooms, inserts the creator as
// the first member in the same transaction.
func (s *RoomService) CreateRoom(ctx context.Context, name, description, visibility string, creator uuid.UUID) (room.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return room.Room{}, atrium_errors.ErrInvalidInput
	}
	if visibility != room.VisibilityPublic && visibility != room.VisibilityPrivate {
		return room.Room{}, atrium_errors.ErrInvalidInput
	}

	now := time.Now().UTC()
	rm := room.Room{
		ID:         uuid.New(),
		Name:       name,
		Visibility: visibility,
		CreatedBy:  creator,
		CreatedAt:  now,
	}
	if description != "" {
		rm.Description = sql.NullString{String: description, Valid: true}
	}

	var initialMember *room.Membership
	if visibility == room.VisibilityPrivate {
		initialMember = &room.Membership{
			RoomID:   rm.ID,
			UserID:   creator,
			JoinedAt: now,
		}
	}

	if err := s.roomRepo.Create(ctx, &rm, initialMember); err != nil {
		return room.Room{}, err
	}
	return rm, nil
}

func (s *RoomService) GetRoom(ctx context.Context, id uuid.UUID) (room.Room, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetRoom(ctx, id); err == nil && cached != nil {
			return *cached, nil
		}
	}
	rm, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		return room.Room{}, err
	}
	if s.cache != nil {
		_ = s.cache.SetRoom(ctx, rm)
	}
	return rm, nil
}

// AddMember admits a user to a private room. Idempotent: adding an existing
// member is a no-op. The actor must already be able to write the room.
func (s *RoomService) AddMember(ctx context.Context, roomID, actorID, userID uuid.UUID) error {
	rm, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return err
	}
	if rm.Visibility != room.VisibilityPrivate {
		// Public rooms have no membership records to maintain.
		return nil
	}

	ok, err := s.roomRepo.IsMember(ctx, roomID, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return atrium_errors.ErrAccessDenied
	}

	m := room.Membership{
		RoomID:   roomID,
		UserID:   userID,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.roomRepo.AddMember(ctx, &m); err != nil {
		if errors.Is(err, atrium_errors.ErrAlreadyExists) {
			return nil
		}
		return err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateMembers(ctx, roomID)
	}
	return nil
}

// ListRooms returns every public room plus the private rooms the user
// belongs to.
func (s *RoomService) ListRooms(ctx context.Context, forUser uuid.UUID) ([]room.Room, error) {
	return s.roomRepo.ListVisible(ctx, forUser)
}
