package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tableside/internal/logger"
	"tableside/internal/models"

	"github.com/google/uuid"
)

// Business failures the API layer maps onto wire codes.
var (
	ErrTableOccupied  = errors.New("table is already occupied")
	ErrStockExhausted = errors.New("dish stock exhausted")
	ErrKitchenBusy    = errors.New("dish is already being prepared, please reduce it at the counter")
	ErrNotInCart      = errors.New("dish is not in the cart")
	ErrEmptyCart      = errors.New("cart is empty")
)

type DBLayer interface {
	GetDish(dishID int64) (*models.CatalogDish, error)
	ListDishes(storeID int64) ([]models.CatalogDish, error)
	GetCombo(comboID int64) (*models.CatalogCombo, error)
	ListCombos(storeID int64) ([]models.CatalogCombo, error)
	AdjustStock(dishID int64, delta int) error

	GetCartItems(userID string, storeID int64) ([]models.CartItem, error)
	GetCartItem(userID string, storeID, dishID int64, isAddition bool) (*models.CartItem, error)
	InsertCartItem(item *models.CartItem) error
	UpdateCartItem(item *models.CartItem) error
	DeleteCartItem(id int64) error
	ClearCart(userID string, storeID int64) error

	GetDiscountUsage(userID string) (map[int64]int, error)
	AddDiscountUsage(userID string, dishID int64, n int) error

	CreateOrder(order *models.Order) error
	GetOrderByID(id string) (*models.Order, error)
	UpdateOrderStatus(id string, status models.OrderStatus) error

	CreatePayment(payment *models.Payment) error
	GetPaymentByID(payID string) (*models.Payment, error)
	GetPaymentByOrder(orderID string) (*models.Payment, error)
	UpdatePaymentStatus(payID string, status models.PaymentStatus) error
}

type TableLock interface {
	IsOccupied(ctx context.Context, storeID, tableID int64) (bool, error)
	ClaimTable(ctx context.Context, storeID, tableID int64, sessionID string) (bool, error)
	ReleaseTable(ctx context.Context, storeID, tableID int64, sessionID string) error
}

type KafkaPublisher interface {
	PublishOrderPlaced(order models.Order) error
	PublishOrderResolved(order models.Order) error
	PublishOrderPaid(order models.Order) error
	PublishOrderCancelled(order models.Order) error
}

type OrderService struct {
	DB     DBLayer
	Lock   TableLock
	Kafka  KafkaPublisher
	Logger *logger.Logger

	resolveQueue chan string
}

func NewOrderService(db DBLayer, lock TableLock, kafka KafkaPublisher, log *logger.Logger) *OrderService {
	return &OrderService{
		DB:           db,
		Lock:         lock,
		Kafka:        kafka,
		Logger:       log,
		resolveQueue: make(chan string, 64),
	}
}

// ---------------- OCCUPANCY ----------------

// ClaimTable takes the table for the session. For consumption types without a
// physical table the claim is granted trivially.
func (s *OrderService) ClaimTable(ctx context.Context, storeID, tableID int64, consumeType models.ConsumeType, sessionID string) error {
	if !consumeType.NeedsTable() {
		return nil
	}
	ok, err := s.Lock.ClaimTable(ctx, storeID, tableID, sessionID)
	if err != nil {
		return fmt.Errorf("claim table: %w", err)
	}
	if !ok {
		return ErrTableOccupied
	}
	s.Logger.LogTable("CLAIM", storeID, tableID, "granted to "+sessionID)
	return nil
}

func (s *OrderService) ReleaseTable(ctx context.Context, storeID, tableID int64, consumeType models.ConsumeType, sessionID string) error {
	if !consumeType.NeedsTable() {
		return nil
	}
	if err := s.Lock.ReleaseTable(ctx, storeID, tableID, sessionID); err != nil {
		return fmt.Errorf("release table: %w", err)
	}
	s.Logger.LogTable("RELEASE", storeID, tableID, "released by "+sessionID)
	return nil
}

// ---------------- CART ----------------

// lineSource is what a cart line is priced and capacity-checked against:
// either a catalog dish or a combo bounded by its scarcest constituent.
type lineSource struct {
	name          string
	price         float64
	capacity      int
	discountType  models.DiscountType
	discountValue float64
	discountCount int
	isCombo       bool
}

func (s *OrderService) lineSource(id int64) (*lineSource, error) {
	dish, err := s.DB.GetDish(id)
	if err != nil {
		return nil, fmt.Errorf("load dish %d: %w", id, err)
	}
	if dish != nil {
		return &lineSource{
			name:          dish.Name,
			price:         dish.Price,
			capacity:      dish.Stock,
			discountType:  models.DiscountType(dish.DiscountType),
			discountValue: dish.DiscountValue,
			discountCount: dish.DiscountCount,
		}, nil
	}

	combo, err := s.DB.GetCombo(id)
	if err != nil {
		return nil, fmt.Errorf("load combo %d: %w", id, err)
	}
	if combo == nil {
		return nil, fmt.Errorf("dish %d not found", id)
	}

	capacity, err := s.comboCapacity(combo)
	if err != nil {
		return nil, err
	}
	return &lineSource{
		name:     combo.Name,
		price:    combo.Price,
		capacity: capacity,
		isCombo:  true,
	}, nil
}

// comboCapacity is the combo's sellable quantity right now: the scarcest
// constituent dish bounds it.
func (s *OrderService) comboCapacity(combo *models.CatalogCombo) (int, error) {
	stock := make(map[int64]int, len(combo.DishIDs))
	for _, dishID := range combo.DishIDs {
		dish, err := s.DB.GetDish(dishID)
		if err != nil {
			return 0, fmt.Errorf("load dish %d: %w", dishID, err)
		}
		if dish == nil {
			return 0, fmt.Errorf("combo %d references missing dish %d", combo.ID, dishID)
		}
		stock[dishID] = dish.Stock
	}
	return models.ComboStock(combo.Wire(), stock), nil
}

// AddDish adds one unit of a dish or combo to the session's cart. The
// service is the sole writer of quantities and discount usage; the returned
// payload is the authoritative cart split into pre-existing and newly-added
// rows.
func (s *OrderService) AddDish(userID string, dishID, storeID, tableID int64) (*models.CartPayload, error) {
	src, err := s.lineSource(dishID)
	if err != nil {
		return nil, err
	}

	items, err := s.DB.GetCartItems(userID, storeID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	inCart := 0
	for _, item := range items {
		if item.DishID == dishID {
			inCart += item.Quantity
		}
	}
	if inCart+1 > src.capacity {
		return nil, ErrStockExhausted
	}

	line, err := s.DB.GetCartItem(userID, storeID, dishID, true)
	if err != nil {
		return nil, fmt.Errorf("load cart line: %w", err)
	}
	if line == nil {
		line = &models.CartItem{
			UserID:     userID,
			StoreID:    storeID,
			TableID:    tableID,
			DishID:     dishID,
			DishName:   src.name,
			DishPrice:  src.price,
			IsAddition: true,
			IsCombo:    src.isCombo,
		}
		if err := s.DB.InsertCartItem(line); err != nil {
			return nil, fmt.Errorf("insert cart line: %w", err)
		}
	}

	line.Quantity++

	// One more unit gets the promotional price if the user still has quota.
	// Usage consumed by earlier orders and usage held in this cart both count
	// against the cap.
	if src.discountCount > 0 && src.discountType != models.DiscountNone {
		used, err := s.DB.GetDiscountUsage(userID)
		if err != nil {
			return nil, fmt.Errorf("load discount usage: %w", err)
		}
		heldElsewhere := 0
		for _, item := range items {
			if item.DishID == dishID && item.ID != line.ID {
				heldElsewhere += item.DiscountUsedCount
			}
		}
		if used[dishID]+heldElsewhere+line.DiscountUsedCount < src.discountCount {
			line.DiscountUsedCount++
		}
	}

	if err := s.DB.UpdateCartItem(line); err != nil {
		return nil, fmt.Errorf("update cart line: %w", err)
	}

	s.Logger.LogCart("ADD", dishID, fmt.Sprintf("user %s now holds %d", userID, line.Quantity))
	return s.cartPayload(userID, storeID)
}

// RemoveDish removes one unit of a dish from the session's additions. Lines
// mirrored from a submitted order cannot be reduced here: the kitchen may
// already be preparing them.
func (s *OrderService) RemoveDish(userID string, dishID, storeID int64) (*models.CartPayload, error) {
	line, err := s.DB.GetCartItem(userID, storeID, dishID, true)
	if err != nil {
		return nil, fmt.Errorf("load cart line: %w", err)
	}
	if line == nil || line.Quantity == 0 {
		submitted, err := s.DB.GetCartItem(userID, storeID, dishID, false)
		if err != nil {
			return nil, fmt.Errorf("load cart line: %w", err)
		}
		if submitted != nil && submitted.Quantity > 0 {
			return nil, ErrKitchenBusy
		}
		return nil, ErrNotInCart
	}

	line.Quantity--
	if line.DiscountUsedCount > line.Quantity {
		line.DiscountUsedCount = line.Quantity
	}

	if line.Quantity == 0 {
		if err := s.DB.DeleteCartItem(line.ID); err != nil {
			return nil, fmt.Errorf("delete cart line: %w", err)
		}
	} else {
		if err := s.DB.UpdateCartItem(line); err != nil {
			return nil, fmt.Errorf("update cart line: %w", err)
		}
	}

	s.Logger.LogCart("REMOVE", dishID, fmt.Sprintf("user %s now holds %d", userID, line.Quantity))
	return s.cartPayload(userID, storeID)
}

// GetCart returns the current split cart. If orderID names a submitted order
// whose lines are not mirrored yet, they are seeded as pre-existing rows so
// an add-on session starts from the in-progress order.
func (s *OrderService) GetCart(userID, orderID string, storeID int64) (*models.CartPayload, error) {
	if orderID != "" {
		if err := s.seedFromOrder(userID, orderID, storeID); err != nil {
			return nil, err
		}
	}
	return s.cartPayload(userID, storeID)
}

func (s *OrderService) seedFromOrder(userID, orderID string, storeID int64) error {
	order, err := s.DB.GetOrderByID(orderID)
	if err != nil {
		return fmt.Errorf("order %s not found: %w", orderID, err)
	}
	for _, do := range order.DishOrders {
		existing, err := s.DB.GetCartItem(userID, storeID, do.DishID, false)
		if err != nil {
			return fmt.Errorf("load cart line: %w", err)
		}
		if existing != nil {
			continue
		}
		item := &models.CartItem{
			UserID:            userID,
			StoreID:           storeID,
			TableID:           order.TableID,
			DishID:            do.DishID,
			DishName:          do.DishName,
			DishPrice:         do.DishPrice,
			Quantity:          do.Quantity,
			DiscountUsedCount: do.DiscountUsedCount,
			IsAddition:        false,
			IsCombo:           do.IsCombo,
			ParentOrderID:     orderID,
		}
		if err := s.DB.InsertCartItem(item); err != nil {
			return fmt.Errorf("seed cart line: %w", err)
		}
	}
	return nil
}

// cartPayload builds the wire payload: pre-existing rows and addition rows in
// separate maps, plus authoritative totals over the union.
func (s *OrderService) cartPayload(userID string, storeID int64) (*models.CartPayload, error) {
	items, err := s.DB.GetCartItems(userID, storeID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	payload := &models.CartPayload{
		DishOrders:    make(map[int64]models.DishOrder),
		NewDishOrders: make(map[int64]models.DishOrder),
	}

	for _, item := range items {
		do := models.DishOrder{
			DishID:            item.DishID,
			DishName:          item.DishName,
			DishPrice:         item.DishPrice,
			Quantity:          item.Quantity,
			DiscountUsedCount: item.DiscountUsedCount,
			IsAddition:        item.IsAddition,
			IsCombo:           item.IsCombo,
		}
		if item.IsAddition {
			payload.NewDishOrders[item.DishID] = do
		} else {
			payload.DishOrders[item.DishID] = do
		}

		payload.TotalPrice += float64(item.Quantity) * item.DishPrice

		if item.IsCombo {
			continue // combos carry no per-user promotion
		}
		dish, err := s.DB.GetDish(item.DishID)
		if err != nil {
			return nil, fmt.Errorf("load dish %d: %w", item.DishID, err)
		}
		if dish == nil {
			return nil, fmt.Errorf("dish %d missing from catalog", item.DishID)
		}
		payload.Discount += float64(item.DiscountUsedCount) * perUnitDiscount(dish)
	}

	return payload, nil
}

func perUnitDiscount(dish *models.CatalogDish) float64 {
	switch models.DiscountType(dish.DiscountType) {
	case models.DiscountPercentage:
		return dish.Price * dish.DiscountValue / 100
	case models.DiscountFlat:
		return dish.DiscountValue
	default:
		return 0
	}
}

// ---------------- ORDERS ----------------

// DraftOrder assembles the authoritative order snapshot from the cart. The
// client fetches this immediately before submission instead of recomputing
// totals locally.
func (s *OrderService) DraftOrder(userID string, storeID, tableID int64, consumeType models.ConsumeType, seated bool) (*models.Order, error) {
	payload, err := s.cartPayload(userID, storeID)
	if err != nil {
		return nil, err
	}
	if len(payload.DishOrders) == 0 && len(payload.NewDishOrders) == 0 {
		return nil, ErrEmptyCart
	}

	items, err := s.DB.GetCartItems(userID, storeID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	order := &models.Order{
		UserID:        userID,
		StoreID:       storeID,
		TableID:       tableID,
		ConsumeType:   consumeType,
		OrderType:     paymentPolicy(consumeType, seated),
		OriginalPrice: payload.TotalPrice,
		ShopDiscount:  payload.Discount,
		CreatedAt:     time.Now(),
	}
	for _, item := range items {
		order.DishOrders = append(order.DishOrders, models.DishOrder{
			DishID:            item.DishID,
			DishName:          item.DishName,
			DishPrice:         item.DishPrice,
			Quantity:          item.Quantity,
			DiscountUsedCount: item.DiscountUsedCount,
			IsAddition:        item.IsAddition,
		})
		if item.ParentOrderID != "" {
			order.ParentID = item.ParentOrderID
		}
	}
	return order, nil
}

// paymentPolicy maps consumption type to payment expectation: seated guests
// settle at checkout, a reserved dine-in table takes a deposit, everything
// else pays in full up front.
func paymentPolicy(consumeType models.ConsumeType, seated bool) models.OrderType {
	switch {
	case consumeType == models.ScanToOrder:
		return models.OrderTypeConfirming
	case consumeType == models.DineIn && seated:
		return models.OrderTypeConfirming
	case consumeType == models.DineIn:
		return models.OrderTypeDeposit
	default:
		return models.OrderTypeAwaitPayment
	}
}

// DepositRate is the fraction of net payable collected up front for a
// reserved dine-in table.
const DepositRate = 0.2

// PlaceOrder persists the order as pending, creates its payment record,
// consumes the user's discount quota, clears the cart and queues the order
// for asynchronous resolution.
func (s *OrderService) PlaceOrder(order *models.Order) (*models.PlaceOrderResult, error) {
	if len(order.DishOrders) == 0 {
		return nil, ErrEmptyCart
	}

	order.ID = uuid.NewString()
	order.Status = models.OrderPending
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}

	if err := s.DB.CreateOrder(order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	amount := order.NetPayable()
	switch order.OrderType {
	case models.OrderTypeConfirming:
		amount = 0
	case models.OrderTypeDeposit:
		amount = amount * DepositRate
	}

	payment := &models.Payment{
		PayID:     uuid.NewString(),
		OrderID:   order.ID,
		Amount:    amount,
		Status:    models.PaymentPending,
		CreatedAt: time.Now(),
	}
	if err := s.DB.CreatePayment(payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	for _, do := range order.DishOrders {
		if do.IsAddition && do.DiscountUsedCount > 0 {
			if err := s.DB.AddDiscountUsage(order.UserID, do.DishID, do.DiscountUsedCount); err != nil {
				s.Logger.Error("ORDER", fmt.Sprintf("record discount usage for dish %d: %v", do.DishID, err))
			}
		}
	}

	if err := s.DB.ClearCart(order.UserID, order.StoreID); err != nil {
		s.Logger.Error("ORDER", fmt.Sprintf("clear cart for %s: %v", order.UserID, err))
	}

	if err := s.Kafka.PublishOrderPlaced(*order); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("publish order placed: %v", err))
	}

	s.Logger.LogOrder("PLACE", order.ID, fmt.Sprintf("pending, pay %s amount %.2f", payment.PayID, amount))
	s.enqueueResolve(order.ID)

	return &models.PlaceOrderResult{
		OrderID: order.ID,
		PayID:   payment.PayID,
		Amount:  amount,
	}, nil
}

// Check reports the resolution state of a submitted order as a wire code.
func (s *OrderService) Check(orderID string) (int, error) {
	order, err := s.DB.GetOrderByID(orderID)
	if err != nil {
		return 0, fmt.Errorf("order %s not found: %w", orderID, err)
	}
	switch order.Status {
	case models.OrderPending:
		return models.CodePending, nil
	case models.OrderRejected, models.OrderCancelled:
		return models.CodeConflict, nil
	default:
		return models.CodeOK, nil
	}
}

// PickupOrder fetches a confirmed pickup order owned by the caller, for
// rendering a collection code at the counter.
func (s *OrderService) PickupOrder(userID, orderID string) (*models.Order, error) {
	order, err := s.DB.GetOrderByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("order %s not found: %w", orderID, err)
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order %s does not belong to user %s", orderID, userID)
	}
	if order.ConsumeType != models.Pickup {
		return nil, fmt.Errorf("order %s is not a pickup order", orderID)
	}
	if order.Status != models.OrderConfirmed && order.Status != models.OrderPaid {
		return nil, fmt.Errorf("order %s is %s, no pickup code yet", orderID, order.Status)
	}
	return order, nil
}

// Pay settles the payment record and marks the order paid.
func (s *OrderService) Pay(payID string) error {
	payment, err := s.DB.GetPaymentByID(payID)
	if err != nil {
		return fmt.Errorf("payment %s not found: %w", payID, err)
	}
	if payment.Status != models.PaymentPending {
		return fmt.Errorf("payment %s is %s, cannot pay", payID, payment.Status)
	}

	if err := s.DB.UpdatePaymentStatus(payID, models.PaymentSuccess); err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if err := s.DB.UpdateOrderStatus(payment.OrderID, models.OrderPaid); err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	if order, err := s.DB.GetOrderByID(payment.OrderID); err == nil {
		if err := s.Kafka.PublishOrderPaid(*order); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("publish order paid: %v", err))
		}
	}
	s.Logger.LogOrder("PAY", payment.OrderID, "paid "+payID)
	return nil
}

// CancelPay cancels the pending payment and the order it belongs to.
func (s *OrderService) CancelPay(orderID string) error {
	payment, err := s.DB.GetPaymentByOrder(orderID)
	if err != nil {
		return fmt.Errorf("payment for order %s not found: %w", orderID, err)
	}

	if err := s.DB.UpdatePaymentStatus(payment.PayID, models.PaymentCancelled); err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if err := s.DB.UpdateOrderStatus(orderID, models.OrderCancelled); err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	if order, err := s.DB.GetOrderByID(orderID); err == nil {
		if err := s.Kafka.PublishOrderCancelled(*order); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("publish order cancelled: %v", err))
		}
	}
	s.Logger.LogOrder("CANCEL", orderID, "payment cancelled")
	return nil
}

// ---------------- ASYNC RESOLUTION ----------------

func (s *OrderService) enqueueResolve(orderID string) {
	select {
	case s.resolveQueue <- orderID:
	default:
		// Queue full: resolve inline rather than dropping the order.
		s.ResolveOrder(orderID)
	}
}

// StartResolver drains the resolve queue until ctx is cancelled. Submitted
// orders stay PENDING until the resolver settles stock for their lines.
func (s *OrderService) StartResolver(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case orderID := <-s.resolveQueue:
				s.ResolveOrder(orderID)
			}
		}
	}()
}

// ResolveOrder settles stock for the order's new lines and moves it to
// confirmed, or rejects it when another order took the stock first.
func (s *OrderService) ResolveOrder(orderID string) {
	order, err := s.DB.GetOrderByID(orderID)
	if err != nil {
		s.Logger.Error("ORDER", fmt.Sprintf("resolve %s: %v", orderID, err))
		return
	}
	if order.Status != models.OrderPending {
		return
	}

	type stockDelta struct {
		dishID int64
		qty    int
	}
	adjusted := []stockDelta{}
	take := func(dishID int64, qty int) error {
		if err := s.DB.AdjustStock(dishID, -qty); err != nil {
			return err
		}
		adjusted = append(adjusted, stockDelta{dishID: dishID, qty: qty})
		return nil
	}
	reject := func(cause error) {
		for _, rb := range adjusted {
			if rbErr := s.DB.AdjustStock(rb.dishID, rb.qty); rbErr != nil {
				s.Logger.Error("ORDER", fmt.Sprintf("rollback stock for dish %d: %v", rb.dishID, rbErr))
			}
		}
		if err := s.DB.UpdateOrderStatus(orderID, models.OrderRejected); err != nil {
			s.Logger.Error("ORDER", fmt.Sprintf("reject %s: %v", orderID, err))
		}
		order.Status = models.OrderRejected
		if err := s.Kafka.PublishOrderResolved(*order); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("publish order resolved: %v", err))
		}
		s.Logger.LogOrder("RESOLVE", orderID, "rejected: "+cause.Error())
	}

	for _, do := range order.DishOrders {
		if !do.IsAddition && order.IsAddOn() {
			continue // stock for the parent order's lines is already settled
		}
		if do.IsCombo {
			// A combo line consumes stock from every constituent dish.
			combo, err := s.DB.GetCombo(do.DishID)
			if err == nil && combo == nil {
				err = fmt.Errorf("combo %d missing from catalog", do.DishID)
			}
			if err != nil {
				reject(err)
				return
			}
			for _, dishID := range combo.DishIDs {
				if err := take(dishID, do.Quantity); err != nil {
					reject(err)
					return
				}
			}
			continue
		}
		if err := take(do.DishID, do.Quantity); err != nil {
			reject(err)
			return
		}
	}

	if err := s.DB.UpdateOrderStatus(orderID, models.OrderConfirmed); err != nil {
		s.Logger.Error("ORDER", fmt.Sprintf("confirm %s: %v", orderID, err))
		return
	}
	order.Status = models.OrderConfirmed
	if err := s.Kafka.PublishOrderResolved(*order); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("publish order resolved: %v", err))
	}
	s.Logger.LogOrder("RESOLVE", orderID, "confirmed")
}

// CatalogForUser returns the store catalog annotated with the user's
// remaining discount quota, clamped at zero against stale usage data.
func (s *OrderService) CatalogForUser(userID string, storeID int64) ([]models.Dish, error) {
	rows, err := s.DB.ListDishes(storeID)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	used, err := s.DB.GetDiscountUsage(userID)
	if err != nil {
		return nil, fmt.Errorf("load discount usage: %w", err)
	}

	dishes := make([]models.Dish, 0, len(rows))
	for _, row := range rows {
		dish := row.Wire()
		remaining := dish.Discount.Count - used[dish.ID]
		if remaining < 0 {
			remaining = 0
		}
		dish.Remaining = remaining
		dishes = append(dishes, dish)
	}
	return dishes, nil
}

// ComboCatalog returns the store's combos with sellable stock derived from
// the scarcest constituent of each.
func (s *OrderService) ComboCatalog(storeID int64) ([]models.Combo, error) {
	rows, err := s.DB.ListCombos(storeID)
	if err != nil {
		return nil, fmt.Errorf("list combos: %w", err)
	}

	combos := make([]models.Combo, 0, len(rows))
	for i := range rows {
		capacity, err := s.comboCapacity(&rows[i])
		if err != nil {
			return nil, err
		}
		combo := rows[i].Wire()
		combo.Stock = capacity
		combos = append(combos, combo)
	}
	return combos, nil
}
