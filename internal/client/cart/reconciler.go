// Package cart keeps the client's cart converged with the backend. The
// backend splits its answers into pre-existing lines and new-delta lines;
// this package recombines them and drives quantity changes one unit at a
// time so every step is individually confirmed or refused.
package cart

import (
	"context"
	"fmt"
	"sync"

	"tableside/internal/client/api"
	"tableside/internal/client/discount"
	"tableside/internal/logger"
	"tableside/internal/models"
)

// Merge recombines the two halves of a cart payload into one line per dish.
// Quantities and discounted-unit counts add; identity fields come from
// whichever half carries the line.
func Merge(payload *models.CartPayload) map[int64]models.DishOrder {
	merged := make(map[int64]models.DishOrder, len(payload.DishOrders)+len(payload.NewDishOrders))
	for id, line := range payload.DishOrders {
		merged[id] = line
	}
	for id, line := range payload.NewDishOrders {
		prev, ok := merged[id]
		if !ok {
			merged[id] = line
			continue
		}
		prev.Quantity += line.Quantity
		prev.DiscountUsedCount += line.DiscountUsedCount
		prev.IsAddition = prev.IsAddition || line.IsAddition
		merged[id] = prev
	}
	return merged
}

// Reconciler converges local cart intent with backend state. All local state
// comes from backend payloads; a failed call changes nothing.
type Reconciler struct {
	API    *api.API
	Ledger *discount.Ledger
	Logger *logger.Logger

	StoreID int64
	TableID int64

	mu         sync.Mutex
	lines      map[int64]models.DishOrder
	totalPrice float64
	discount   float64

	inflightMu sync.Mutex
	inflight   map[int64]*sync.Mutex
}

func NewReconciler(a *api.API, ledger *discount.Ledger, log *logger.Logger, storeID, tableID int64) *Reconciler {
	return &Reconciler{
		API:      a,
		Ledger:   ledger,
		Logger:   log,
		StoreID:  storeID,
		TableID:  tableID,
		lines:    make(map[int64]models.DishOrder),
		inflight: make(map[int64]*sync.Mutex),
	}
}

// dishLock serializes mutations per dish. Changes to different dishes may
// run concurrently; two changes to the same dish never interleave.
func (r *Reconciler) dishLock(dishID int64) *sync.Mutex {
	r.inflightMu.Lock()
	defer r.inflightMu.Unlock()
	if m, ok := r.inflight[dishID]; ok {
		return m
	}
	m := &sync.Mutex{}
	r.inflight[dishID] = m
	return m
}

func (r *Reconciler) apply(payload *models.CartPayload) {
	merged := Merge(payload)
	r.mu.Lock()
	r.lines = merged
	r.totalPrice = payload.TotalPrice
	r.discount = payload.Discount
	r.mu.Unlock()
	if r.Ledger != nil {
		r.Ledger.SyncHeld(payload)
	}
}

// Refresh replaces local state with the backend's current cart.
func (r *Reconciler) Refresh(ctx context.Context) error {
	return r.load(ctx, "")
}

// LoadExisting seeds the cart from a submitted order so further changes
// become add-ons merged on top of what the kitchen already has.
func (r *Reconciler) LoadExisting(ctx context.Context, orderID string) error {
	return r.load(ctx, orderID)
}

func (r *Reconciler) load(ctx context.Context, orderID string) error {
	payload, err := r.API.GetCart(ctx, r.StoreID, orderID)
	if err != nil {
		return fmt.Errorf("loading cart: %w", err)
	}
	r.apply(payload)
	return nil
}

// Quantity is the merged unit count for the dish.
func (r *Reconciler) Quantity(dishID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lines[dishID].Quantity
}

// Lines returns a copy of the merged cart.
func (r *Reconciler) Lines() map[int64]models.DishOrder {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int64]models.DishOrder, len(r.lines))
	for id, line := range r.lines {
		out[id] = line
	}
	return out
}

// Totals returns the backend-computed cart price and discount.
func (r *Reconciler) Totals() (total, discount float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.totalPrice, r.discount
}

// ApplyDelta moves the dish's quantity to target, one confirmed unit per
// backend call. Matching quantities make no call at all. A refused step
// stops the walk and leaves the cart exactly as the last accepted step left
// it; a line the kitchen has already started cannot be walked down and
// surfaces as a kitchen-busy error.
func (r *Reconciler) ApplyDelta(ctx context.Context, dishID int64, target int) error {
	if target < 0 {
		return fmt.Errorf("target quantity %d is negative", target)
	}

	lock := r.dishLock(dishID)
	lock.Lock()
	defer lock.Unlock()

	for {
		current := r.Quantity(dishID)
		if current == target {
			return nil
		}

		var payload *models.CartPayload
		var err error
		if current < target {
			payload, err = r.API.AddDish(ctx, dishID, r.StoreID, r.TableID)
		} else {
			payload, err = r.API.RemoveDish(ctx, dishID, r.StoreID)
		}
		if err != nil {
			return fmt.Errorf("adjusting dish %d toward %d: %w", dishID, target, err)
		}
		r.apply(payload)

		if r.Quantity(dishID) == current {
			return fmt.Errorf("dish %d stuck at %d, backend accepted the call but moved nothing", dishID, current)
		}

		if r.Logger != nil {
			r.Logger.LogCart("ADJUST", dishID, fmt.Sprintf("quantity now %d, target %d", r.Quantity(dishID), target))
		}
	}
}

// ComboCap is how many units of the combo can still be added given current
// constituent stock.
func (r *Reconciler) ComboCap(combo models.Combo, stock map[int64]int) int {
	return models.ComboStock(combo, stock)
}
