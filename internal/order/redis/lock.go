package redis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// DefaultLockTTL bounds a table claim when no TTL is configured.
const DefaultLockTTL = 120 * time.Minute

// Redis guards table occupancy. A table is the one exclusively-shared mutable
// resource: at most one session may hold it, and the lock carries a TTL so a
// crashed client cannot starve the table forever.
type Redis struct {
	Client  *redis.Client
	Logger  *log.Logger
	LockTTL time.Duration
}

func NewRedis(client *redis.Client, lockTTL time.Duration) *Redis {
	if lockTTL <= 0 {
		lockTTL = DefaultLockTTL
	}
	return &Redis{
		Client:  client,
		Logger:  log.Default(),
		LockTTL: lockTTL,
	}
}

func tableKey(storeID, tableID int64) string {
	return fmt.Sprintf("table_lock:%d:%d", storeID, tableID)
}

// IsOccupied reports whether the table is currently held by any session.
func (r *Redis) IsOccupied(ctx context.Context, storeID, tableID int64) (bool, error) {
	_, err := r.Client.Get(ctx, tableKey(storeID, tableID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ClaimTable attempts to take the table for sessionID. Exactly one of any set
// of racing claims wins; the rest see ok=false.
func (r *Redis) ClaimTable(ctx context.Context, storeID, tableID int64, sessionID string) (bool, error) {
	key := tableKey(storeID, tableID)
	ok, err := r.Client.SetNX(ctx, key, sessionID, r.LockTTL).Result()
	if err != nil {
		return false, err
	}
	if !ok {
		// Re-claiming a table you already hold is fine: the same physical
		// party re-entering the ordering page must not lock itself out.
		val, getErr := r.Client.Get(ctx, key).Result()
		if getErr == nil && val == sessionID {
			return true, nil
		}
	}
	return ok, err
}

// ReleaseTable frees the table if sessionID still holds it. Releasing a table
// held by someone else is a no-op, so a stale client cannot evict the current
// occupant.
func (r *Redis) ReleaseTable(ctx context.Context, storeID, tableID int64, sessionID string) error {
	key := tableKey(storeID, tableID)
	val, err := r.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil // already released
	}
	if err != nil {
		return err
	}
	if val == sessionID {
		_, err := r.Client.Del(ctx, key).Result()
		return err
	}
	return nil
}

// HolderSession returns the session currently occupying the table, or "" if
// the table is free.
func (r *Redis) HolderSession(ctx context.Context, storeID, tableID int64) (string, error) {
	val, err := r.Client.Get(ctx, tableKey(storeID, tableID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}
