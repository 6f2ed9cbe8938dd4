package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pagedform/internal/testutils"
	"github.com/aretw0/pagedform/pkg/adapters/redis"
	"github.com/aretw0/pagedform/pkg/domain"
	"github.com/aretw0/pagedform/pkg/ports"
)

func setup(t *testing.T, opts ...redis.Option) (*miniredis.Miniredis, *redis.Store) {
	t.Helper()
	mr := testutils.StartRedis(t)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = store.Close() })
	return mr, store
}

func TestRedisStore_Contract(t *testing.T) {
	_, store := setup(t)
	ports.RunSubmissionStoreContract(t, store)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, store := setup(t, redis.WithPrefix("test:"))
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Save(ctx, &domain.Submission{ID: "x", Form: "f", CreatedAt: time.Now()}))
	assert.True(t, mr.Exists("test:x"))
	assert.True(t, mr.Exists("test:index:f"))
}

func TestRedisStore_TTLPrunesIndex(t *testing.T) {
	mr, store := setup(t, redis.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Submission{ID: "old", Form: "f", CreatedAt: time.Now()}))
	mr.FastForward(2 * time.Minute)
	require.NoError(t, store.Save(ctx, &domain.Submission{ID: "new", Form: "f", CreatedAt: time.Now()}))

	ids, err := store.List(ctx, "f")
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, ids)

	members, err := mr.ZMembers(redis.DefaultPrefix + "index:f")
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, members, "expired entries are pruned")

	_, err = store.Load(ctx, "old")
	assert.ErrorIs(t, err, domain.ErrSubmissionNotFound)
}
