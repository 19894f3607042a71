package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/findash/internal/auth"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return mr, client
}

func TestRedisRevoker(t *testing.T) {
	ctx := context.Background()
	mr, client := setupMiniredis(t)
	revoker := auth.NewRedisRevoker(client)

	revoked, err := revoker.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, revoker.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))

	revoked, err = revoker.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl := mr.TTL("revoked:jti-1")
	assert.Greater(t, ttl, 59*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)

	mr.FastForward(time.Hour + time.Second)

	revoked, err = revoker.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRevoker_AlreadyExpiredIsNoop(t *testing.T) {
	mr, client := setupMiniredis(t)

	require.NoError(t, auth.NewRedisRevoker(client).Revoke(context.Background(), "old", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists("revoked:old"))
}

func TestRedisRevoker_Unavailable(t *testing.T) {
	mr, client := setupMiniredis(t)
	mr.Close()

	_, err := auth.NewRedisRevoker(client).IsRevoked(context.Background(), "jti")
	assert.Error(t, err)
}

func TestMemoryRevoker(t *testing.T) {
	ctx := context.Background()
	revoker := auth.NewMemoryRevoker()

	require.NoError(t, revoker.Revoke(ctx, "live", time.Now().Add(time.Hour)))
	require.NoError(t, revoker.Revoke(ctx, "dead", time.Now().Add(-time.Hour)))

	revoked, err := revoker.IsRevoked(ctx, "live")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = revoker.IsRevoked(ctx, "dead")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = revoker.IsRevoked(ctx, "never")
	require.NoError(t, err)
	assert.False(t, revoked)
}
