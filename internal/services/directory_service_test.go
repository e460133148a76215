package services

import (
	"context"
	"testing"

	"atrium-chat/internal/domain/user"
	atrium_errors "atrium-chat/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveUsernamesDropsUnknown(t *testing.T) {
	alice := user.User{ID: uuid.New(), Username: "alice"}
	env := newTestEnv(alice)

	users, err := env.directory.ResolveUsernames(context.Background(), []string{"alice", "nobody"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, alice.ID, users[0].ID)
}

func TestGetProfileFallbacks(t *testing.T) {
	bare := user.User{ID: uuid.New(), Username: "bare_user"}
	full := user.User{ID: uuid.New(), Username: "full", DisplayName: "Full Name", AvatarURL: "https://cdn.example.com/full.png"}
	env := newTestEnv(bare, full)
	ctx := context.Background()

	p, err := env.directory.GetProfile(ctx, bare.ID)
	require.NoError(t, err)
	assert.Equal(t, "bare_user", p.DisplayName)
	assert.Contains(t, p.AvatarURL, "bare_user")

	p, err = env.directory.GetProfile(ctx, full.ID)
	require.NoError(t, err)
	assert.Equal(t, "Full Name", p.DisplayName)
	assert.Equal(t, "https://cdn.example.com/full.png", p.AvatarURL)

	_, err = env.directory.GetProfile(ctx, uuid.New())
	require.ErrorIs(t, err, atrium_errors.ErrNotFound)
}

func TestGetProfilesBatch(t *testing.T) {
	alice := user.User{ID: uuid.New(), Username: "alice"}
	bob := user.User{ID: uuid.New(), Username: "bob"}
	env := newTestEnv(alice, bob)

	profiles, err := env.directory.GetProfiles(context.Background(),
		[]uuid.UUID{alice.ID, bob.ID, alice.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "alice", profiles[alice.ID].Username)
	assert.Equal(t, "bob", profiles[bob.ID].Username)
}
