package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoop(t *testing.T) {
	var c Cache = Noop{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	var out string
	hit, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.Invalidate(ctx, "k"))
}

func TestRedisCache_KeyPrefix(t *testing.T) {
	c := NewRedisCache(nil, "vehicles")
	assert.Equal(t, "vehicles:abc", c.key("abc"))
}

func TestRedisCache_InvalidateNothing(t *testing.T) {
	c := NewRedisCache(nil, "vehicles")
	assert.NoError(t, c.Invalidate(context.Background()))
}

func TestRedisCache_UnreachableServer(t *testing.T) {
	db := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer db.Close()
	c := NewRedisCache(db, "vehicles")

	var out map[string]any
	hit, err := c.Get(context.Background(), "x", &out)
	assert.False(t, hit)
	assert.Error(t, err)
}
