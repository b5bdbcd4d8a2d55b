package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	defer store.Close()

	require.NoError(t, store.Set(ctx, "k", "v", time.Minute))
	v, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	v, ok, err = store.Pop(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	_, ok, _ = store.Get(ctx, "k")
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "forever", "x", 0))
	require.NoError(t, store.Delete(ctx, "forever"))
	_, ok, _ = store.Get(ctx, "forever")
	assert.False(t, ok)
}

func TestMemoryStoreExpiration(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	defer store.Close()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "k", "v", time.Minute))
	now = now.Add(2 * time.Minute)

	_, ok, _ := store.Get(ctx, "k")
	assert.False(t, ok)
	_, ok, _ = store.Pop(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryStoreCloseIsIdempotent(t *testing.T) {
	store := NewMemoryStore(time.Millisecond)
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

func TestNewRedisStoreUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewRedisStore(ctx, RedisOptions{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
