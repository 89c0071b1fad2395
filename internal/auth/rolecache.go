package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"doctorsportal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// RoleLookup resolves the stored role of a user. Unknown users have role "".
type RoleLookup interface {
	Role(ctx context.Context, email string) (string, error)
}

type RoleCache interface {
	Get(ctx context.Context, email string) (role string, hit bool, err error)
	Set(ctx context.Context, email, role string) error
	Invalidate(ctx context.Context, email string) error
}

const roleKeyPrefix = "doctorsportal:role:"

type RedisRoleCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisRoleCache(client redis.Cmdable, ttl time.Duration) *RedisRoleCache {
	return &RedisRoleCache{client: client, ttl: ttl}
}

func (c *RedisRoleCache) Get(ctx context.Context, email string) (string, bool, error) {
	role, err := c.client.Get(ctx, roleKeyPrefix+email).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read role cache: %w", err)
	}
	return role, true, nil
}

func (c *RedisRoleCache) Set(ctx context.Context, email, role string) error {
	if err := c.client.Set(ctx, roleKeyPrefix+email, role, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write role cache: %w", err)
	}
	return nil
}

func (c *RedisRoleCache) Invalidate(ctx context.Context, email string) error {
	if err := c.client.Del(ctx, roleKeyPrefix+email).Err(); err != nil {
		return fmt.Errorf("failed to invalidate role cache: %w", err)
	}
	return nil
}

// NoopRoleCache never hits, so every check reads the user store.
type NoopRoleCache struct{}

func (NoopRoleCache) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (NoopRoleCache) Set(context.Context, string, string) error        { return nil }
func (NoopRoleCache) Invalidate(context.Context, string) error         { return nil }

// CachedRoles reads through the cache. Cache failures degrade to a store read.
// Only granted roles are cached.
type CachedRoles struct {
	store RoleLookup
	cache RoleCache
	log   *logger.Logger
}

func NewCachedRoles(store RoleLookup, cache RoleCache, log *logger.Logger) *CachedRoles {
	if cache == nil {
		cache = NoopRoleCache{}
	}
	return &CachedRoles{store: store, cache: cache, log: log}
}

func (c *CachedRoles) Role(ctx context.Context, email string) (string, error) {
	role, hit, err := c.cache.Get(ctx, email)
	if err != nil {
		c.log.Warn("role cache read failed", "email", email, "error", err)
	} else if hit {
		return role, nil
	}

	role, err = c.store.Role(ctx, email)
	if err != nil {
		return "", err
	}

	// Roles only ever get granted, so a cached grant cannot go stale. An
	// empty role is never cached: a concurrent promotion could land between
	// the store read and the cache write.
	if role == "" {
		return role, nil
	}
	if err := c.cache.Set(ctx, email, role); err != nil {
		c.log.Warn("role cache write failed", "email", email, "error", err)
	}
	return role, nil
}

func (c *CachedRoles) Invalidate(ctx context.Context, email string) {
	if err := c.cache.Invalidate(ctx, email); err != nil {
		c.log.Warn("role cache invalidation failed", "email", email, "error", err)
	}
}
