package services

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"atrium-chat/internal/domain/message"
	"atrium-chat/internal/domain/notification"
	"atrium-chat/internal/domain/room"
	"atrium-chat/internal/domain/thread"
	"atrium-chat/internal/domain/user"
	"atrium-chat/internal/proxy"
	atrium_errors "atrium-chat/pkg/errors"
	"atrium-chat/pkg/logger"

	"github.com/google/uuid"
)

// In-memory repository fakes. They hold the same contracts as the Postgres
// implementations, including duplicate-key translation to ErrAlreadyExists,
// so the unique-constraint upsert paths behave as in production.

type memberKey struct {
	RoomID uuid.UUID
	UserID uuid.UUID
}

type fakeRoomRepo struct {
	mu      sync.Mutex
	rooms   map[uuid.UUID]room.Room
	members map[memberKey]room.Membership
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{
		rooms:   make(map[uuid.UUID]room.Room),
		members: make(map[memberKey]room.Membership),
	}
}

func (f *fakeRoomRepo) Create(_ context.Context, r *room.Room, initialMember *room.Membership) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rooms[r.ID]; ok {
		return atrium_errors.ErrAlreadyExists
	}
	f.rooms[r.ID] = *r
	if initialMember != nil {
		f.members[memberKey{initialMember.RoomID, initialMember.UserID}] = *initialMember
	}
	return nil
}

func (f *fakeRoomRepo) GetByID(_ context.Context, id uuid.UUID) (room.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rm, ok := f.rooms[id]
	if !ok {
		return room.Room{}, atrium_errors.ErrRoomNotFound
	}
	return rm, nil
}

func (f *fakeRoomRepo) AddMember(_ context.Context, m *room.Membership) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := memberKey{m.RoomID, m.UserID}
	if _, ok := f.members[key]; ok {
		return atrium_errors.ErrAlreadyExists
	}
	f.members[key] = *m
	return nil
}

func (f *fakeRoomRepo) IsMember(_ context.Context, roomID, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.members[memberKey{roomID, userID}]
	return ok, nil
}

func (f *fakeRoomRepo) GetMemberIDs(_ context.Context, roomID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uuid.UUID
	for key := range f.members {
		if key.RoomID == roomID {
			ids = append(ids, key.UserID)
		}
	}
	return ids, nil
}

func (f *fakeRoomRepo) ListVisible(_ context.Context, userID uuid.UUID) ([]room.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []room.Room
	for _, rm := range f.rooms {
		if rm.Visibility == room.VisibilityPublic {
			out = append(out, rm)
			continue
		}
		if _, ok := f.members[memberKey{rm.ID, userID}]; ok {
			out = append(out, rm)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type mentionKey struct {
	MessageID uuid.UUID
	UserID    uuid.UUID
}

type fakeMessageRepo struct {
	mu          sync.Mutex
	seq         int64
	messages    map[uuid.UUID]message.Message
	attachments map[uuid.UUID][]message.Attachment
	mentions    map[mentionKey]message.Mention
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{
		messages:    make(map[uuid.UUID]message.Message),
		attachments: make(map[uuid.UUID][]message.Attachment),
		mentions:    make(map[mentionKey]message.Mention),
	}
}

func (f *fakeMessageRepo) Create(_ context.Context, m *message.Message, attachments []message.Attachment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.messages[m.ID]; ok {
		return atrium_errors.ErrAlreadyExists
	}
	f.seq++
	m.Seq = f.seq
	f.messages[m.ID] = *m
	for i := range attachments {
		attachments[i].MessageID = m.ID
		f.attachments[m.ID] = append(f.attachments[m.ID], attachments[i])
	}
	return nil
}

func (f *fakeMessageRepo) GetByID(_ context.Context, id uuid.UUID) (message.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.messages[id]
	if !ok {
		return message.Message{}, atrium_errors.ErrNotFound
	}
	return m, nil
}

func (f *fakeMessageRepo) Update(_ context.Context, m message.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.messages[m.ID]; !ok {
		return atrium_errors.ErrNotFound
	}
	f.messages[m.ID] = m
	return nil
}

func (f *fakeMessageRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.messages[id]
	if !ok {
		return atrium_errors.ErrNotFound
	}
	m.Deleted = true
	f.messages[id] = m
	return nil
}

func (f *fakeMessageRepo) GetRoomMessages(_ context.Context, roomID uuid.UUID, limit, offset int) ([]message.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []message.Message
	for _, m := range f.messages {
		if m.RoomID == roomID && !m.Deleted {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Seq > out[j].Seq
	})
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeMessageRepo) GetThreadMessages(_ context.Context, threadID, parentMessageID uuid.UUID) ([]message.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []message.Message
	for _, m := range f.messages {
		inThread := m.ThreadID.Valid && m.ThreadID.UUID == threadID
		legacy := !m.ThreadID.Valid && m.ReplyToMessageID.Valid && m.ReplyToMessageID.UUID == parentMessageID
		if inThread || legacy {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

func (f *fakeMessageRepo) GetMessageAttachments(_ context.Context, messageID uuid.UUID) ([]message.Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attachments[messageID], nil
}

func (f *fakeMessageRepo) AddMention(_ context.Context, m *message.Mention) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := mentionKey{m.MessageID, m.MentionedUserID}
	if _, ok := f.mentions[key]; ok {
		return atrium_errors.ErrAlreadyExists
	}
	f.mentions[key] = *m
	return nil
}

func (f *fakeMessageRepo) GetMessageMentions(_ context.Context, messageID uuid.UUID) ([]message.Mention, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []message.Mention
	for key, m := range f.mentions {
		if key.MessageID == messageID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

type fakeThreadRepo struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]thread.Thread
	byParent map[uuid.UUID]uuid.UUID
}

func newFakeThreadRepo() *fakeThreadRepo {
	return &fakeThreadRepo{
		byID:     make(map[uuid.UUID]thread.Thread),
		byParent: make(map[uuid.UUID]uuid.UUID),
	}
}

func (f *fakeThreadRepo) Create(_ context.Context, t *thread.Thread) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byParent[t.ParentMessageID]; ok {
		return atrium_errors.ErrAlreadyExists
	}
	f.byID[t.ID] = *t
	f.byParent[t.ParentMessageID] = t.ID
	return nil
}

func (f *fakeThreadRepo) GetByID(_ context.Context, id uuid.UUID) (thread.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byID[id]
	if !ok {
		return thread.Thread{}, atrium_errors.ErrNotFound
	}
	return t, nil
}

func (f *fakeThreadRepo) GetByParentMessageID(_ context.Context, parentMessageID uuid.UUID) (thread.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byParent[parentMessageID]
	if !ok {
		return thread.Thread{}, atrium_errors.ErrNotFound
	}
	return f.byID[id], nil
}

func (f *fakeThreadRepo) Touch(_ context.Context, id uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byID[id]
	if !ok {
		return atrium_errors.ErrNotFound
	}
	t.UpdatedAt = at
	f.byID[id] = t
	return nil
}

func (f *fakeThreadRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []notification.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *notification.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, *n)
	return nil
}

func (f *fakeNotificationRepo) GetForUser(_ context.Context, userID uuid.UUID, onlyUnread bool, page, limit int) ([]notification.Notification, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []notification.Notification
	for _, n := range f.notifications {
		if n.RecipientUserID != userID {
			continue
		}
		if onlyUnread && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	total := int64(len(out))
	start := (page - 1) * limit
	if start >= len(out) {
		return nil, total, nil
	}
	out = out[start:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id, recipientID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.notifications {
		if n.ID == id && n.RecipientUserID == recipientID {
			f.notifications[i].IsRead = true
			return nil
		}
	}
	return atrium_errors.ErrNotFound
}

func (f *fakeNotificationRepo) forUser(userID uuid.UUID) []notification.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []notification.Notification
	for _, n := range f.notifications {
		if n.RecipientUserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]user.User
}

func newFakeUserRepo(users ...user.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[uuid.UUID]user.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return user.User{}, atrium_errors.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return user.User{}, atrium_errors.ErrNotFound
}

func (f *fakeUserRepo) GetByUsernames(_ context.Context, usernames []string) ([]user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []user.User
	for _, name := range usernames {
		for _, u := range f.users {
			if u.Username == name {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []user.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// testEnv wires the full service graph over the fakes, cache disabled.
type testEnv struct {
	roomRepo   *fakeRoomRepo
	msgRepo    *fakeMessageRepo
	threadRepo *fakeThreadRepo
	notifRepo  *fakeNotificationRepo
	userRepo   *fakeUserRepo

	access        *proxy.AccessControl
	directory     *DirectoryService
	notifications *NotificationService
	mentions      *MentionService
	messages      *MessageService
	threads       *ThreadService
	rooms         *RoomService
}

func newTestEnv(users ...user.User) *testEnv {
	env := &testEnv{
		roomRepo:   newFakeRoomRepo(),
		msgRepo:    newFakeMessageRepo(),
		threadRepo: newFakeThreadRepo(),
		notifRepo:  newFakeNotificationRepo(),
		userRepo:   newFakeUserRepo(users...),
	}

	l := logger.New(logger.DevelopmentMode)
	env.access = proxy.NewAccessControl(env.roomRepo, nil)
	env.directory = NewDirectoryService(env.userRepo, nil)
	env.notifications = NewNotificationService(env.notifRepo)
	env.mentions = NewMentionService(env.msgRepo, env.directory, env.notifications, l)
	env.messages = NewMessageService(env.msgRepo, env.access, env.mentions, l)
	env.threads = NewThreadService(env.threadRepo, env.msgRepo, env.messages, env.notifications, env.access, l)
	env.rooms = NewRoomService(env.roomRepo, nil)
	return env
}

func (env *testEnv) publicRoom(t *testing.T, creator uuid.UUID) room.Room {
	t.Helper()
	rm, err := env.rooms.CreateRoom(context.Background(), "general", "", room.VisibilityPublic, creator)
	if err != nil {
		t.Fatalf("create public room: %v", err)
	}
	return rm
}

func (env *testEnv) privateRoom(t *testing.T, creator uuid.UUID, members ...uuid.UUID) room.Room {
	t.Helper()
	ctx := context.Background()
	rm, err := env.rooms.CreateRoom(ctx, "ops", "", room.VisibilityPrivate, creator)
	if err != nil {
		t.Fatalf("create private room: %v", err)
	}
	for _, m := range members {
		if err := env.rooms.AddMember(ctx, rm.ID, creator, m); err != nil {
			t.Fatalf("add member: %v", err)
		}
	}
	return rm
}
