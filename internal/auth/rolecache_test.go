package auth

import (
	"context"
	"errors"
	"testing"

	"doctorsportal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	roles  map[string]string
	getErr error
}

func (c *memoryCache) Get(_ context.Context, email string) (string, bool, error) {
	if c.getErr != nil {
		return "", false, c.getErr
	}
	role, ok := c.roles[email]
	return role, ok, nil
}

func (c *memoryCache) Set(_ context.Context, email, role string) error {
	c.roles[email] = role
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, email string) error {
	delete(c.roles, email)
	return nil
}

func TestCachedRoles_ReadsThrough(t *testing.T) {
	store := rolesOf(map[string]string{"admin@example.com": "admin"})
	cache := &memoryCache{roles: map[string]string{}}
	roles := NewCachedRoles(store, cache, logger.Discard())
	ctx := context.Background()

	role, err := roles.Role(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, "admin", role)

	role, err = roles.Role(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, "admin", role)
	assert.Equal(t, 1, store.calls)

	roles.Invalidate(ctx, "admin@example.com")
	_, err = roles.Role(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls)
}

func TestCachedRoles_CacheFailureFallsBackToStore(t *testing.T) {
	store := rolesOf(map[string]string{"admin@example.com": "admin"})
	cache := &memoryCache{roles: map[string]string{}, getErr: errors.New("redis down")}
	roles := NewCachedRoles(store, cache, logger.Discard())

	role, err := roles.Role(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, "admin", role)
}

func TestCachedRoles_NilCacheIsNoop(t *testing.T) {
	store := rolesOf(map[string]string{})
	roles := NewCachedRoles(store, nil, logger.Discard())

	for range 3 {
		role, err := roles.Role(context.Background(), "nobody@example.com")
		require.NoError(t, err)
		assert.Empty(t, role)
	}
	assert.Equal(t, 3, store.calls)
}

func TestCachedRoles_PromotionDuringReadIsNotMasked(t *testing.T) {
	stored := map[string]string{}
	cache := &memoryCache{roles: map[string]string{}}
	var roles *CachedRoles

	promoted := false
	store := &mockRoles{RoleFunc: func(ctx context.Context, email string) (string, error) {
		role := stored[email]
		if !promoted {
			// promotion commits and invalidates after this read, before the cache write
			promoted = true
			stored[email] = "admin"
			roles.Invalidate(ctx, email)
		}
		return role, nil
	}}
	roles = NewCachedRoles(store, cache, logger.Discard())
	ctx := context.Background()

	role, err := roles.Role(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Empty(t, role)
	assert.NotContains(t, cache.roles, "new@example.com")

	role, err = roles.Role(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "admin", role)
}

func TestCachedRoles_StoreErrorPropagates(t *testing.T) {
	store := &mockRoles{RoleFunc: func(context.Context, string) (string, error) {
		return "", errors.New("mongo down")
	}}
	roles := NewCachedRoles(store, NoopRoleCache{}, logger.Discard())

	_, err := roles.Role(context.Background(), "admin@example.com")
	assert.Error(t, err)
}
