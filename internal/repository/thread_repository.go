package repository

import (
	"context"
	"errors"
	"time"

	"atrium-chat/internal/domain/thread"
	atrium_errors "atrium-chat/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresThreadRepository struct {
	db *gorm.DB
}

func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &PostgresThreadRepository{db: db}
}

// Create relies on the unique index on parent_message_id: concurrent
// inserts for the same parent surface as ErrAlreadyExists and the caller
// re-reads the winner's row.
func (r *PostgresThreadRepository) Create(ctx context.Context, t *thread.Thread) error {
	res := r.db.WithContext(ctx).Create(t)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return atrium_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresThreadRepository) GetByID(ctx context.Context, id uuid.UUID) (thread.Thread, error) {
	var t thread.Thread
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return thread.Thread{}, atrium_errors.ErrNotFound
		}
		return thread.Thread{}, err
	}
	return t, nil
}

func (r *PostgresThreadRepository) GetByParentMessageID(ctx context.Context, parentMessageID uuid.UUID) (thread.Thread, error) {
	var t thread.Thread
	err := r.db.WithContext(ctx).Where("parent_message_id = ?", parentMessageID).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return thread.Thread{}, atrium_errors.ErrNotFound
		}
		return thread.Thread{}, err
	}
	return t, nil
}

func (r *PostgresThreadRepository) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&thread.Thread{}).
		Where("id = ?", id).
		Update("updated_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return atrium_errors.ErrNotFound
	}
	return nil
}
