package models

import (
	"time"

	"github.com/uptrace/bun"
)

// OrderType reflects the payment expectation attached to an order.
type OrderType int

const (
	OrderTypeDeposit      OrderType = iota // 20% deposit paid up front, rest settled with staff
	OrderTypeAwaitPayment                  // full payment required up front
	OrderTypeConfirming                    // no upfront payment, settled at checkout
)

// OrderStatus is the backend-side resolution state of a submitted order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderRejected  OrderStatus = "rejected"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
)

// Order aggregates everything the backend needs to resolve a submission. An
// order carrying a ParentID is an add-on to an order already in progress at
// the table.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID             string      `json:"id" bun:"order_id,pk"`
	ParentID       string      `json:"parentId,omitempty" bun:"parent_id,nullzero"`
	UserID         string      `json:"userId" bun:"user_id"`
	StoreID        int64       `json:"storeId" bun:"store_id"`
	TableID        int64       `json:"table" bun:"table_id"`
	ConsumeType    ConsumeType `json:"consumeType" bun:"consume_type"`
	OrderType      OrderType   `json:"orderType" bun:"order_type"`
	DishOrders     []DishOrder `json:"dishOrders" bun:"dish_orders,type:jsonb"`
	OriginalPrice  float64     `json:"originalPrice" bun:"original_price"`
	ShopDiscount   float64     `json:"shopDiscount" bun:"shop_discount"`
	CouponDiscount float64     `json:"couponDiscount" bun:"coupon_discount"`
	Status         OrderStatus `json:"status" bun:"status"`
	Remark         string      `json:"remark,omitempty" bun:"remark,nullzero"`
	Taste          int         `json:"taste,omitempty" bun:"taste"`
	ExpectedTime   int64       `json:"expectedTime,omitempty" bun:"expected_time"`
	CreatedAt      time.Time   `json:"createdAt" bun:"created_at"`
}

// NetPayable is the amount left after shop and coupon discounts. Totals are
// computed by the backend; the client only redisplays them.
func (o *Order) NetPayable() float64 {
	return o.OriginalPrice - o.ShopDiscount - o.CouponDiscount
}

// IsAddOn reports whether this submission extends an in-progress order.
func (o *Order) IsAddOn() bool {
	return o.ParentID != ""
}
