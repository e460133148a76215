package repository

import (
	"context"
	"errors"

	"atrium-chat/internal/domain/room"
	atrium_errors "atrium-chat/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresRoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &PostgresRoomRepository{db: db}
}

func (r *PostgresRoomRepository) Create(ctx context.Context, rm *room.Room, initialMember *room.Membership) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rm).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return atrium_errors.ErrAlreadyExists
			}
			return err
		}
		if initialMember != nil {
			if err := tx.Create(initialMember).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresRoomRepository) GetByID(ctx context.Context, id uuid.UUID) (room.Room, error) {
	var rm room.Room
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return room.Room{}, atrium_errors.ErrRoomNotFound
		}
		return room.Room{}, err
	}
	return rm, nil
}

func (r *PostgresRoomRepository) AddMember(ctx context.Context, m *room.Membership) error {
	res := r.db.WithContext(ctx).Create(m)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return atrium_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresRoomRepository) IsMember(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&room.Membership{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRoomRepository) GetMemberIDs(ctx context.Context, roomID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&room.Membership{}).
		Where("room_id = ?", roomID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresRoomRepository) ListVisible(ctx context.Context, userID uuid.UUID) ([]room.Room, error) {
	var rooms []room.Room

	subQuery := r.db.Model(&room.Membership{}).
		Select("room_id").
		Where("user_id = ?", userID)

	err := r.db.WithContext(ctx).
		Where("visibility = ?", room.VisibilityPublic).
		Or("visibility = ? AND id IN (?)", room.VisibilityPrivate, subQuery).
		Order("created_at ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}
