package redis

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a Redis client backed by miniredis so the tests need
// no real Redis server.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		mr.Close()
		t.Fatalf("Failed to connect to miniredis: %v", err)
	}

	return client, mr
}

func cleanupTestRedis(client *redis.Client, mr *miniredis.Miniredis) {
	if client != nil {
		client.Close()
	}
	if mr != nil {
		mr.Close()
	}
}

func TestClaimTable_MutualExclusion(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	r := NewRedis(client, 0)
	ctx := context.Background()

	ok, err := r.ClaimTable(ctx, 1, 7, "session-a")
	require.NoError(t, err)
	assert.True(t, ok, "first claim should be granted")

	ok, err = r.ClaimTable(ctx, 1, 7, "session-b")
	require.NoError(t, err)
	assert.False(t, ok, "second session must be denied")

	occupied, err := r.IsOccupied(ctx, 1, 7)
	require.NoError(t, err)
	assert.True(t, occupied)

	// A different table at the same store is unaffected.
	ok, err = r.ClaimTable(ctx, 1, 8, "session-b")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClaimTable_Reentrant(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	r := NewRedis(client, 0)
	ctx := context.Background()

	ok, err := r.ClaimTable(ctx, 2, 3, "session-a")
	require.NoError(t, err)
	require.True(t, ok)

	// Same session claiming again keeps the table.
	ok, err = r.ClaimTable(ctx, 2, 3, "session-a")
	require.NoError(t, err)
	assert.True(t, ok, "holder re-claim should succeed")
}

func TestReleaseTable_OwnerOnly(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	r := NewRedis(client, 0)
	ctx := context.Background()

	ok, err := r.ClaimTable(ctx, 1, 5, "session-a")
	require.NoError(t, err)
	require.True(t, ok)

	// A stale session releasing is a no-op.
	require.NoError(t, r.ReleaseTable(ctx, 1, 5, "session-b"))
	occupied, err := r.IsOccupied(ctx, 1, 5)
	require.NoError(t, err)
	assert.True(t, occupied, "non-owner release must not evict the occupant")

	require.NoError(t, r.ReleaseTable(ctx, 1, 5, "session-a"))
	occupied, err = r.IsOccupied(ctx, 1, 5)
	require.NoError(t, err)
	assert.False(t, occupied)

	// Releasing an already-free table is fine.
	require.NoError(t, r.ReleaseTable(ctx, 1, 5, "session-a"))
}

func TestClaimTable_ConcurrentClaims(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	r := NewRedis(client, 0)
	ctx := context.Background()

	const sessions = 20
	var wg sync.WaitGroup
	granted := make(chan string, sessions)

	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			sid := fmt.Sprintf("session-%d", n)
			ok, err := r.ClaimTable(ctx, 9, 1, sid)
			require.NoError(t, err)
			if ok {
				granted <- sid
			}
		}(i)
	}
	wg.Wait()
	close(granted)

	winners := []string{}
	for sid := range granted {
		winners = append(winners, sid)
	}
	assert.Len(t, winners, 1, "exactly one of the racing claims must win")

	holder, err := r.HolderSession(ctx, 9, 1)
	require.NoError(t, err)
	assert.Equal(t, winners[0], holder)
}

func TestTableLockExpiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	r := NewRedis(client, 30*time.Minute)
	ctx := context.Background()

	ok, err := r.ClaimTable(ctx, 4, 2, "session-a")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, 30*time.Minute, mr.TTL(tableKey(4, 2)),
		"claim must carry the configured TTL")

	// A crashed client never releases; the TTL frees the table.
	mr.FastForward(30 * time.Minute)

	ok, err = r.ClaimTable(ctx, 4, 2, "session-b")
	require.NoError(t, err)
	assert.True(t, ok, "table should be claimable after the lock TTL expires")
}

func TestNewRedisDefaultsLockTTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	r := NewRedis(client, 0)
	assert.Equal(t, DefaultLockTTL, r.LockTTL)
}
