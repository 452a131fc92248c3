// Package occupancy tracks the table lock a dine-in session holds and makes
// sure it is handed back no matter how the session ends.
package occupancy

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tableside/internal/client/api"
	"tableside/internal/logger"
	"tableside/internal/models"
)

// releaseTimeout bounds the teardown call. Teardown runs while the client is
// going away, so it must never hang on a slow backend.
const releaseTimeout = 3 * time.Second

// Guard claims a table before ordering starts and releases it on teardown.
// Types that never seat a guest pass through without any backend call.
type Guard struct {
	API    *api.API
	Logger *logger.Logger

	mu          sync.Mutex
	held        bool
	storeID     int64
	tableID     int64
	consumeType models.ConsumeType
}

func NewGuard(a *api.API, log *logger.Logger) *Guard {
	return &Guard{API: a, Logger: log}
}

// Claim locks the table for this session. A denied claim returns the
// conflict error untouched so the caller can route the diner elsewhere; no
// local state changes on denial.
func (g *Guard) Claim(ctx context.Context, storeID, tableID int64, consumeType models.ConsumeType) error {
	if !consumeType.NeedsTable() {
		return nil
	}

	if err := g.API.ClaimTable(ctx, storeID, tableID, consumeType); err != nil {
		return fmt.Errorf("claiming table %d at store %d: %w", tableID, storeID, err)
	}

	g.mu.Lock()
	g.held = true
	g.storeID = storeID
	g.tableID = tableID
	g.consumeType = consumeType
	g.mu.Unlock()

	if g.Logger != nil {
		g.Logger.LogTable("CLAIM", storeID, tableID, "table locked for session")
	}
	return nil
}

// Release frees the table. It is best-effort: failures are logged and
// swallowed because the lock's TTL reclaims abandoned tables anyway. Calling
// Release without a held table is a no-op.
func (g *Guard) Release() {
	g.mu.Lock()
	if !g.held {
		g.mu.Unlock()
		return
	}
	storeID, tableID, consumeType := g.storeID, g.tableID, g.consumeType
	g.held = false
	g.mu.Unlock()

	// Detached from any caller context so a cancelled session can still
	// hand the table back.
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()

	if err := g.API.ReleaseTable(ctx, storeID, tableID, consumeType); err != nil {
		if g.Logger != nil {
			g.Logger.LogTable("RELEASE", storeID, tableID, "release failed, lock will expire: "+err.Error())
		}
		return
	}
	if g.Logger != nil {
		g.Logger.LogTable("RELEASE", storeID, tableID, "table released")
	}
}

// Held reports whether this session currently owns a table lock.
func (g *Guard) Held() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.held
}
