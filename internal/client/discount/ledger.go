// Package discount keeps the client-side view of per-user promotion quotas.
// The backend enforces the caps; this ledger only decides what to display
// and whether an add should even ask for the promotional price.
package discount

import (
	"sync"

	"tableside/internal/models"
)

// Ledger tracks, per dish, the promotion policy, the units already bought at
// the promotional price in past orders, and the discounted units held by the
// open cart.
type Ledger struct {
	mu       sync.Mutex
	policies map[int64]models.DiscountPolicy
	used     map[int64]int
	held     map[int64]int
}

func NewLedger() *Ledger {
	return &Ledger{
		policies: make(map[int64]models.DiscountPolicy),
		used:     make(map[int64]int),
		held:     make(map[int64]int),
	}
}

// LoadCatalog seeds the ledger from annotated catalog dishes. Remaining on
// the wire already accounts for historical usage, so used is derived as
// cap minus remaining.
func (l *Ledger) LoadCatalog(dishes []models.Dish) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, d := range dishes {
		if d.Discount.Type == models.DiscountNone || d.Discount.Count <= 0 {
			continue
		}
		l.policies[d.ID] = d.Discount
		used := d.Discount.Count - d.Remaining
		if used < 0 {
			used = 0
		}
		l.used[d.ID] = used
	}
}

// SyncHeld replaces the held counts with what the backend's cart payload
// reports. The backend is authoritative after every mutation.
func (l *Ledger) SyncHeld(payload *models.CartPayload) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held = make(map[int64]int)
	for id, line := range payload.DishOrders {
		l.held[id] += line.DiscountUsedCount
	}
	for id, line := range payload.NewDishOrders {
		l.held[id] += line.DiscountUsedCount
	}
}

// Remaining is how many more units of the dish this user can still buy at
// the promotional price, never negative.
func (l *Ledger) Remaining(dishID int64) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	policy, ok := l.policies[dishID]
	if !ok {
		return 0
	}
	remaining := policy.Count - l.used[dishID] - l.held[dishID]
	if remaining < 0 {
		return 0
	}
	return remaining
}

// PerUnit is the amount taken off one unit of the dish under its policy.
func (l *Ledger) PerUnit(dishID int64, price float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	policy, ok := l.policies[dishID]
	if !ok {
		return 0
	}
	switch policy.Type {
	case models.DiscountPercentage:
		return price * policy.Value / 100
	case models.DiscountFlat:
		return policy.Value
	default:
		return 0
	}
}
