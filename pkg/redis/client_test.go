package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/angelmondragon/gamewishlist-backend/pkg/config"
	"github.com/angelmondragon/gamewishlist-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := New(context.Background(), config.RedisConfig{
		URL:         "redis://" + mr.Addr(),
		PoolSize:    2,
		DialTimeout: time.Second,
	}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestSetNXGetDel(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()
	key := client.IdempotencyKey("POST|/wishlist", "abc")

	ok, err := client.SetNX(ctx, key, "first", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.SetNX(ctx, key, "second", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	value, err := client.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "first", value)
	assert.Equal(t, time.Hour, mr.TTL(key))

	require.NoError(t, client.Del(ctx, key))
	_, err = client.Get(ctx, key)
	assert.True(t, errors.Is(err, ErrNil))
}

func TestKeyExpires(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	_, err := client.SetNX(ctx, "k", "v", time.Minute)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	_, err = client.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNil)
}

func TestPingReportsOutage(t *testing.T) {
	client, mr := newTestClient(t)
	require.NoError(t, client.Ping(context.Background()))

	mr.Close()
	assert.Error(t, client.Ping(context.Background()))
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	assert.Equal(t, "wl:idempotency:scope:id", client.IdempotencyKey("scope", "id"))
	assert.Equal(t, "wl:idempotency:id", client.IdempotencyKey(" ", "id"))
}

func TestNewRequiresURL(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{}, nil)
	assert.Error(t, err)

	_, err = New(context.Background(), config.RedisConfig{URL: "://bad"}, nil)
	assert.Error(t, err)
}

func TestUninitializedClientErrors(t *testing.T) {
	client := &Client{}
	ctx := context.Background()

	_, err := client.Get(ctx, "k")
	assert.Error(t, err)
	_, err = client.SetNX(ctx, "k", "v", 0)
	assert.Error(t, err)
	assert.Error(t, client.Del(ctx, "k"))
	assert.Error(t, client.Ping(ctx))
	assert.NoError(t, client.Close())
}
