package services

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const userIDKey contextKey = "auth_user_id"

// WithUserContext stores the authenticated principal resolved by the auth
// middleware. The chat core trusts this identity; it never verifies
// credentials itself.
func WithUserContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	value := ctx.Value(userIDKey)
	if value == nil {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}
