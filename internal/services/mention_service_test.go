package services

import (
	"context"
	"testing"
	"time"

	"atrium-chat/internal/domain/message"
	"atrium-chat/internal/domain/notification"
	"atrium-chat/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMentions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "no mentions",
			text: "just a plain message",
			want: nil,
		},
		{
			name: "single mention",
			text: "ping @alice about the deploy",
			want: []string{"alice"},
		},
		{
			name: "multiple mentions",
			text: "@alice and @bob please review",
			want: []string{"alice", "bob"},
		},
		{
			name: "duplicates collapse, first-seen order",
			text: "hey @alice @bob @alice",
			want: []string{"alice", "bob"},
		},
		{
			name: "punctuation ends the token",
			text: "thanks @alice, that worked",
			want: []string{"alice"},
		},
		{
			name: "underscores and digits allowed",
			text: "cc @ops_bot2",
			want: []string{"ops_bot2"},
		},
		{
			name: "bare at sign",
			text: "meet @ noon",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMentions(tt.text))
		})
	}
}

func TestMentionProcess(t *testing.T) {
	alice := user.User{ID: uuid.New(), Username: "alice"}
	bob := user.User{ID: uuid.New(), Username: "bob"}
	env := newTestEnv(alice, bob)
	ctx := context.Background()

	m := message.Message{
		ID:        uuid.New(),
		RoomID:    uuid.New(),
		AuthorID:  alice.ID,
		Body:      "@alice @bob @ghost take a look",
		CreatedAt: time.Now().UTC(),
	}

	require.NoError(t, env.mentions.Process(ctx, m))

	// Self-mention and the unknown username leave no trace; only bob gets a
	// mention row and a notification.
	rows, err := env.msgRepo.GetMessageMentions(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, bob.ID, rows[0].MentionedUserID)

	notifs := env.notifRepo.forUser(bob.ID)
	require.Len(t, notifs, 1)
	assert.Equal(t, notification.TypeMention, notifs[0].Type)
	assert.Equal(t, m.ID, notifs[0].MessageID)
	assert.Equal(t, alice.ID, notifs[0].FromUserID)
	assert.Empty(t, env.notifRepo.forUser(alice.ID))
}

func TestMentionProcessIsIdempotent(t *testing.T) {
	alice := user.User{ID: uuid.New(), Username: "alice"}
	bob := user.User{ID: uuid.New(), Username: "bob"}
	env := newTestEnv(alice, bob)
	ctx := context.Background()

	m := message.Message{
		ID:       uuid.New(),
		AuthorID: alice.ID,
		Body:     "ping @bob",
	}

	require.NoError(t, env.mentions.Process(ctx, m))
	require.NoError(t, env.mentions.Process(ctx, m))

	rows, err := env.msgRepo.GetMessageMentions(ctx, m.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Len(t, env.notifRepo.forUser(bob.ID), 1)
}

func TestMentionProcessNoCandidates(t *testing.T) {
	env := newTestEnv()
	m := message.Message{ID: uuid.New(), AuthorID: uuid.New(), Body: "nothing here"}
	require.NoError(t, env.mentions.Process(context.Background(), m))
	assert.Empty(t, env.notifRepo.notifications)
}
