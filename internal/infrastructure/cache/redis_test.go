package cache

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_UnavailableIsBypassed(t *testing.T) {
	r := NewRedisWithClient(nil, 0, log.New(io.Discard, "", 0))
	ctx := context.Background()

	var out map[string]int
	found, err := r.GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, r.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute))
	assert.NoError(t, r.Delete(ctx, "k"))
	assert.NoError(t, r.DeleteByPattern(ctx, "matches:*"))
	assert.Error(t, r.Ping(ctx))
	assert.NoError(t, r.Close())

	ok, err := r.TryLock(ctx, "lock", time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "lock is granted when redis is down")

	var nilCache *Redis
	ok, err = nilCache.TryLock(ctx, "lock", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}
