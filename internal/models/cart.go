package models

// DishOrder is one cart line on the wire: how many units of a dish and how
// many of those units received the promotional price.
type DishOrder struct {
	DishID            int64   `json:"dishId"`
	DishName          string  `json:"dishName"`
	DishPrice         float64 `json:"dishPrice"`
	Quantity          int     `json:"quantity"`
	DiscountUsedCount int     `json:"discountUsedCount"`
	// IsAddition marks lines added after the order was first submitted, so
	// staff can tell an add-on apart from the original lines.
	IsAddition bool `json:"isAddition,omitempty"`
	// IsCombo marks a combo line; stock settles per constituent dish.
	IsCombo bool `json:"isCombo,omitempty"`
}

// CartPayload is what the backend returns on every successful cart mutation
// and on get_cart. The backend may attribute part of a change to pre-existing
// rows (DishOrders) and part to the new delta (NewDishOrders); the client
// recombines them additively per dish id.
type CartPayload struct {
	DishOrders    map[int64]DishOrder `json:"dishOrders"`
	NewDishOrders map[int64]DishOrder `json:"newDishOrders"`
	TotalPrice    float64             `json:"totalPrice"`
	Discount      float64             `json:"discount"`
}
