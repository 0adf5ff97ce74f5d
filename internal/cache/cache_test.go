package cache_test

import (
	"context"
	"testing"
	"time"

	"storefront/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	ctx := context.Background()
	c, err := cache.New(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, c.Enabled())

	require.NoError(t, c.Set(ctx, "k", []int{1, 2}, time.Minute))

	var out []int
	found, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, out)

	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Close())
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *cache.Cache
	found, err := c.Get(context.Background(), "k", new(string))
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Set(context.Background(), "k", "v", 0))
}
