package models

// ConsumeType enumerates how a customer consumes an order. The numeric values
// are part of the wire contract with the ordering client.
type ConsumeType int

const (
	ScanToOrder ConsumeType = iota // ordered by scanning the table QR, already seated
	DineIn                         // reserve a table, pay a deposit up front
	Pickup                         // collect at the counter
	Delivery                       // delivered to an address
)

func (t ConsumeType) String() string {
	switch t {
	case ScanToOrder:
		return "scan-to-order"
	case DineIn:
		return "dine-in"
	case Pickup:
		return "pickup"
	case Delivery:
		return "delivery"
	default:
		return "unknown"
	}
}

// NeedsTable reports whether this consumption type occupies a physical table
// and therefore requires the occupancy lock before any cart mutation.
func (t ConsumeType) NeedsTable() bool {
	return t == ScanToOrder || t == DineIn
}

// DiscountType describes a dish's promotional pricing policy.
type DiscountType int

const (
	DiscountNone       DiscountType = iota
	DiscountPercentage              // Value is a percentage taken off the price
	DiscountFlat                    // Value is a fixed amount taken off the price
)

// DiscountPolicy is the promotion attached to a dish. Count caps how many
// units a single user may buy at the promotional price.
type DiscountPolicy struct {
	Type  DiscountType `json:"type"`
	Value float64      `json:"value"`
	Count int          `json:"count"`
}

// Dish is immutable catalog data for the duration of an ordering session.
type Dish struct {
	ID       int64          `json:"id"`
	Name     string         `json:"name"`
	Price    float64        `json:"price"`
	Stock    int            `json:"stock"`
	Discount DiscountPolicy `json:"discount"`

	// Remaining is the user's remaining discount quota, annotated client-side
	// by the discount ledger. Never trusted for enforcement.
	Remaining int `json:"remaining,omitempty"`
}

// Combo is a fixed set of dishes sold together. Its purchasable quantity is
// bounded by the scarcest constituent dish.
type Combo struct {
	ID       int64          `json:"id"`
	Name     string         `json:"name"`
	Price    float64        `json:"price"`
	DishIDs  []int64        `json:"dishIds"`
	Stock    int            `json:"stock"`
	Discount DiscountPolicy `json:"discount"`
}

// ComboStock returns how many units of the combo can still be sold given the
// current stock of its constituent dishes.
func ComboStock(c Combo, stock map[int64]int) int {
	if len(c.DishIDs) == 0 {
		return 0
	}
	min := -1
	for _, id := range c.DishIDs {
		n := stock[id]
		if min < 0 || n < min {
			min = n
		}
	}
	return min
}
