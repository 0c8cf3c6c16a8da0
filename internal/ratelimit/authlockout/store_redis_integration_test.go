//go:build integration

package authlockout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anuragmeds/pkg/testutil/containers"
)

func setupRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	rc := containers.GetManager().GetRedis(t)
	require.NoError(t, rc.FlushAll(context.Background()))
	return NewRedis(rc.Client)
}

func TestRedisStoreCounting(t *testing.T) {
	ctx := context.Background()
	store := setupRedisStore(t)

	for i := int64(1); i <= 3; i++ {
		count, err := store.RecordFailure(ctx, "a@x.com", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}

	count, err := store.Failures(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	count, err = store.Failures(ctx, "other@x.com")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRedisStoreClear(t *testing.T) {
	ctx := context.Background()
	store := setupRedisStore(t)

	_, err := store.RecordFailure(ctx, "a@x.com", time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Clear(ctx, "a@x.com"))

	count, err := store.Failures(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRedisStoreWindowExpiry(t *testing.T) {
	ctx := context.Background()
	store := setupRedisStore(t)

	_, err := store.RecordFailure(ctx, "a@x.com", time.Second)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		count, err := store.Failures(ctx, "a@x.com")
		return err == nil && count == 0
	}, 5*time.Second, 200*time.Millisecond)
}
