package models

import (
	"time"

	"github.com/uptrace/bun"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSuccess   PaymentStatus = "success"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Payment is the settlement record created when an order is placed. Amount is
// derived from the order totals and the consumption type's payment policy.
type Payment struct {
	bun.BaseModel `bun:"table:payments"`

	PayID     string        `json:"payId" bun:"pay_id,pk"`
	OrderID   string        `json:"orderId" bun:"order_id"`
	Amount    float64       `json:"amount" bun:"amount"`
	Status    PaymentStatus `json:"status" bun:"status"`
	CreatedAt time.Time     `json:"createdAt" bun:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt,omitempty" bun:"updated_at,nullzero"`
}

// PlaceOrderResult is the add_user_order response body.
type PlaceOrderResult struct {
	OrderID string  `json:"orderId"`
	PayID   string  `json:"payId"`
	Amount  float64 `json:"amount"`
}
