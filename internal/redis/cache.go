package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"atrium-chat/internal/domain/room"
	"atrium-chat/internal/domain/user"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Cache key patterns:
// - room:{room_id} - 5m TTL, room metadata
// - room:{room_id}:members - 5m TTL, private room member set
// - user:{user_id} - 5m TTL, directory profile cache

// CacheConfig contains configuration for caching
type CacheConfig struct {
	RoomTTL   time.Duration // TTL for room metadata cache (default 5m)
	MemberTTL time.Duration // TTL for member set cache (default 5m)
	UserTTL   time.Duration // TTL for user profile cache (default 5m)
}

// DefaultCacheConfig returns sensible defaults
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		RoomTTL:   5 * time.Minute,
		MemberTTL: 5 * time.Minute,
		UserTTL:   5 * time.Minute,
	}
}

// CacheStore handles caching in Redis
type CacheStore struct {
	client *goredis.Client
	config CacheConfig
}

// NewCacheStore creates a new cache store
func NewCacheStore(client *goredis.Client, config CacheConfig) *CacheStore {
	return &CacheStore{
		client: client,
		config: config,
	}
}

// --- Room Cache ---

// GetRoom retrieves a room from cache. A nil result with nil error is a miss.
func (c *CacheStore) GetRoom(ctx context.Context, roomID uuid.UUID) (*room.Room, error) {
	key := fmt.Sprintf("room:%s", roomID.String())
	data, err := c.client.Get(ctx, key).Result()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rm room.Room
	if err := json.Unmarshal([]byte(data), &rm); err != nil {
		return nil, err
	}
	return &rm, nil
}

// SetRoom stores a room in cache
func (c *CacheStore) SetRoom(ctx context.Context, rm room.Room) error {
	key := fmt.Sprintf("room:%s", rm.ID.String())
	data, err := json.Marshal(rm)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.config.RoomTTL).Err()
}

// --- Member Set Cache ---

// IsMember reports membership from the cached member set. The second return
// value is false on a cache miss.
func (c *CacheStore) IsMember(ctx context.Context, roomID, userID uuid.UUID) (bool, bool, error) {
	key := fmt.Sprintf("room:%s:members", roomID.String())
	exists, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, false, err
	}
	if exists == 0 {
		return false, false, nil
	}
	ok, err := c.client.SIsMember(ctx, key, userID.String()).Result()
	if err != nil {
		return false, false, err
	}
	return ok, true, nil
}

// SetMembers replaces the cached member set for a room
func (c *CacheStore) SetMembers(ctx context.Context, roomID uuid.UUID, memberIDs []uuid.UUID) error {
	key := fmt.Sprintf("room:%s:members", roomID.String())
	members := make([]interface{}, 0, len(memberIDs))
	for _, id := range memberIDs {
		members = append(members, id.String())
	}
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(members) > 0 {
		pipe.SAdd(ctx, key, members...)
	}
	pipe.Expire(ctx, key, c.config.MemberTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// InvalidateMembers drops the cached member set, e.g. after addMember
func (c *CacheStore) InvalidateMembers(ctx context.Context, roomID uuid.UUID) error {
	key := fmt.Sprintf("room:%s:members", roomID.String())
	return c.client.Del(ctx, key).Err()
}

// --- User Cache ---

// GetUser retrieves a directory profile from cache. Nil result is a miss.
func (c *CacheStore) GetUser(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	key := fmt.Sprintf("user:%s", userID.String())
	data, err := c.client.Get(ctx, key).Result()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var u user.User
	if err := json.Unmarshal([]byte(data), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SetUser stores a directory profile in cache
func (c *CacheStore) SetUser(ctx context.Context, u user.User) error {
	key := fmt.Sprintf("user:%s", u.ID.String())
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.config.UserTTL).Err()
}
