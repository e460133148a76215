package services

import (
	"context"
	"fmt"
	"net/url"

	"atrium-chat/internal/domain/user"
	"atrium-chat/internal/redis"
	"atrium-chat/internal/repository"

	"github.com/google/uuid"
)

// DirectoryService is the boundary to the external user directory. The chat
// core reads usernames, display names and avatars through it and never
// mutates profile data.
type DirectoryService struct {
	userRepo repository.UserRepository
	cache    *redis.CacheStore
}

func NewDirectoryService(userRepo repository.UserRepository, cache *redis.CacheStore) *DirectoryService {
	return &DirectoryService{userRepo: userRepo, cache: cache}
}

// Profile is the directory view used for response formatting. AvatarURL is
// never empty: a deterministic placeholder keyed by username is substituted
// here so URL construction stays out of the messaging core.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
}

// ResolveUsernames looks up candidate usernames. Names with no directory
// entry are silently dropped, not an error.
func (s *DirectoryService) ResolveUsernames(ctx context.Context, usernames []string) ([]user.User, error) {
	return s.userRepo.GetByUsernames(ctx, usernames)
}

func (s *DirectoryService) GetProfile(ctx context.Context, userID uuid.UUID) (Profile, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetUser(ctx, userID); err == nil && cached != nil {
			return toProfile(*cached), nil
		}
	}
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	if s.cache != nil {
		_ = s.cache.SetUser(ctx, u)
	}
	return toProfile(u), nil
}

// GetProfiles batch-resolves the authors of a message page.
func (s *DirectoryService) GetProfiles(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]Profile, error) {
	seen := make(map[uuid.UUID]struct{}, len(userIDs))
	unique := make([]uuid.UUID, 0, len(userIDs))
	for _, id := range userIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	users, err := s.userRepo.GetByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}

	profiles := make(map[uuid.UUID]Profile, len(users))
	for _, u := range users {
		profiles[u.ID] = toProfile(u)
	}
	return profiles, nil
}

func toProfile(u user.User) Profile {
	displayName := u.DisplayName
	if displayName == "" {
		displayName = u.Username
	}
	avatarURL := u.AvatarURL
	if avatarURL == "" {
		avatarURL = defaultAvatarURL(u.Username)
	}
	return Profile{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
	}
}

// defaultAvatarURL returns the placeholder avatar reference for users with
// no avatar set. Deterministic per username.
func defaultAvatarURL(username string) string {
	return fmt.Sprintf("https://api.dicebear.com/7.x/initials/svg?seed=%s", url.QueryEscape(username))
}
