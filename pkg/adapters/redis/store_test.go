package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/ladle/pkg/adapters/redis"
	"github.com/aretw0/ladle/pkg/domain"
	"github.com/aretw0/ladle/pkg/ports"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return mr, backend.NewClient(&backend.Options{Addr: mr.Addr()})
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newTestClient(t)
	ports.RunStateStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_ExpiredSessionsPruned(t *testing.T) {
	mr, client := newTestClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(time.Minute))
	ctx := context.Background()

	state := domain.NewWalkState("pancakes")
	require.NoError(t, store.Save(ctx, "s1", state))
	require.NoError(t, store.Save(ctx, "s2", state))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	// Fast-forward past the TTL; both the value key and the index entry
	// should disappear.
	mr.FastForward(2 * time.Minute)

	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = store.Load(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisStore_PrefixIsolation(t *testing.T) {
	mr, client := newTestClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("kitchen:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "abc", domain.NewWalkState("soup")))
	assert.True(t, mr.Exists("kitchen:abc"))
	assert.True(t, mr.Exists("kitchen:index"))
}
