package models

import "github.com/uptrace/bun"

// CartItem is one backend-authoritative cart row. Rows with IsAddition=false
// mirror lines of an already-submitted order at the table; rows with
// IsAddition=true are the current session's delta. The split is what the
// client's additive merge recombines.
type CartItem struct {
	bun.BaseModel `bun:"table:cart_items"`

	ID                int64   `bun:"id,pk,autoincrement"`
	UserID            string  `bun:"user_id"`
	StoreID           int64   `bun:"store_id"`
	TableID           int64   `bun:"table_id"`
	DishID            int64   `bun:"dish_id"`
	DishName          string  `bun:"dish_name"`
	DishPrice         float64 `bun:"dish_price"`
	Quantity          int     `bun:"quantity"`
	DiscountUsedCount int     `bun:"discount_used_count"`
	IsAddition        bool    `bun:"is_addition"`
	// IsCombo marks a combo line. Combo ids share the dish id key space, so
	// they must never collide with dish ids.
	IsCombo       bool   `bun:"is_combo"`
	ParentOrderID string `bun:"parent_order_id,nullzero"`
}

// DiscountUsage tracks how many promotional units a user has consumed for a
// dish, across all of their sessions.
type DiscountUsage struct {
	bun.BaseModel `bun:"table:discount_usage"`

	UserID    string `bun:"user_id,pk"`
	DishID    int64  `bun:"dish_id,pk"`
	UsedCount int    `bun:"used_count"`
}

// CatalogDish is the persisted dish row. Dish (the wire type) is derived from
// it at catalog-fetch time.
type CatalogDish struct {
	bun.BaseModel `bun:"table:dishes"`

	ID            int64   `bun:"dish_id,pk"`
	StoreID       int64   `bun:"store_id"`
	Name          string  `bun:"name"`
	Price         float64 `bun:"price"`
	Stock         int     `bun:"stock"`
	DiscountType  int     `bun:"discount_type"`
	DiscountValue float64 `bun:"discount_value"`
	DiscountCount int     `bun:"discount_count"`
}

// CatalogCombo is a persisted combo row: a fixed set of dishes sold together
// at one price. Its sellable quantity is bounded by the scarcest constituent.
type CatalogCombo struct {
	bun.BaseModel `bun:"table:combos"`

	ID      int64   `bun:"combo_id,pk"`
	StoreID int64   `bun:"store_id"`
	Name    string  `bun:"name"`
	Price   float64 `bun:"price"`
	DishIDs []int64 `bun:"dish_ids,type:jsonb"`
}

// Wire converts the persisted combo row to the catalog entry sent to
// clients. Stock is filled in by the caller from constituent dish stock.
func (c *CatalogCombo) Wire() Combo {
	return Combo{
		ID:      c.ID,
		Name:    c.Name,
		Price:   c.Price,
		DishIDs: c.DishIDs,
	}
}

// Wire converts the persisted row to the catalog entry sent to clients.
func (d *CatalogDish) Wire() Dish {
	return Dish{
		ID:    d.ID,
		Name:  d.Name,
		Price: d.Price,
		Stock: d.Stock,
		Discount: DiscountPolicy{
			Type:  DiscountType(d.DiscountType),
			Value: d.DiscountValue,
			Count: d.DiscountCount,
		},
	}
}
