package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/taskdeck/taskdeck/internal/model"
)

const (
	// userKeyPrefix is the Redis key prefix for cached user records.
	userKeyPrefix = "user:id:"
	// userCacheTTL is the time-to-live for cached users. Users are never
	// mutated after registration, so a short TTL is purely a safety net.
	userCacheTTL = 5 * time.Minute
)

// ErrCacheMiss indicates the key was not found in the cache.
var ErrCacheMiss = errors.New("cache miss")

// cachedUser is the JSON shape stored in Redis. The password hash is
// deliberately not cached.
type cachedUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// GetUser retrieves a cached user by ID.
// Returns ErrCacheMiss if not found or the entry is corrupted.
func (c *Cache) GetUser(ctx context.Context, id string) (*model.User, error) {
	data, err := c.client.Get(ctx, userKeyPrefix+id).Bytes()
	if err != nil {
		return nil, ErrCacheMiss
	}

	var cached cachedUser
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted entry - treat as miss
		return nil, ErrCacheMiss
	}

	return &model.User{
		ID:        cached.ID,
		Name:      cached.Name,
		Email:     cached.Email,
		CreatedAt: cached.CreatedAt,
	}, nil
}

// SetUser stores a user in the cache.
func (c *Cache) SetUser(ctx context.Context, user *model.User) error {
	cached := cachedUser{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("failed to marshal cached user: %w", err)
	}

	if err := c.client.Set(ctx, userKeyPrefix+user.ID, data, userCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set user cache: %w", err)
	}

	return nil
}

// InvalidateUser removes a user from the cache.
func (c *Cache) InvalidateUser(ctx context.Context, id string) error {
	return c.client.Del(ctx, userKeyPrefix+id).Err()
}
