package db_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"tableside/internal/models"
	"tableside/internal/order/db"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) (*db.DB, *bun.DB) {
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	for _, model := range []interface{}{
		(*models.CatalogDish)(nil),
		(*models.CatalogCombo)(nil),
		(*models.CartItem)(nil),
		(*models.DiscountUsage)(nil),
		(*models.Order)(nil),
		(*models.Payment)(nil),
	} {
		if _, err := bunDB.NewCreateTable().Model(model).Exec(ctx); err != nil {
			t.Fatalf("Failed to create table: %v", err)
		}
	}

	return &db.DB{Bun: bunDB}, bunDB
}

func TestCartItemRoundTrip(t *testing.T) {
	orderDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	item := &models.CartItem{
		UserID:     "user123",
		StoreID:    1,
		TableID:    7,
		DishID:     42,
		DishName:   "Mapo Tofu",
		DishPrice:  16.0,
		Quantity:   2,
		IsAddition: true,
	}
	require.NoError(t, orderDB.InsertCartItem(item))
	assert.NotZero(t, item.ID)

	got, err := orderDB.GetCartItem("user123", 1, 42, true)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Quantity)

	// The non-addition row for the same dish is distinct.
	got, err = orderDB.GetCartItem("user123", 1, 42, false)
	require.NoError(t, err)
	assert.Nil(t, got)

	item.Quantity = 3
	item.DiscountUsedCount = 1
	require.NoError(t, orderDB.UpdateCartItem(item))

	items, err := orderDB.GetCartItems("user123", 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 1, items[0].DiscountUsedCount)

	require.NoError(t, orderDB.ClearCart("user123", 1))
	items, err = orderDB.GetCartItems("user123", 1)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDiscountUsageAccumulates(t *testing.T) {
	orderDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	require.NoError(t, orderDB.AddDiscountUsage("user123", 42, 1))
	require.NoError(t, orderDB.AddDiscountUsage("user123", 42, 2))
	require.NoError(t, orderDB.AddDiscountUsage("user123", 43, 1))

	used, err := orderDB.GetDiscountUsage("user123")
	require.NoError(t, err)
	assert.Equal(t, 3, used[42])
	assert.Equal(t, 1, used[43])

	used, err = orderDB.GetDiscountUsage("someone-else")
	require.NoError(t, err)
	assert.Empty(t, used)
}

func TestAdjustStockGuardsNegative(t *testing.T) {
	orderDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	dish := &models.CatalogDish{ID: 1, StoreID: 1, Name: "Braised Pork", Price: 28, Stock: 2}
	_, err := bunDB.NewInsert().Model(dish).Exec(context.Background())
	require.NoError(t, err)

	require.NoError(t, orderDB.AdjustStock(1, -2))

	got, err := orderDB.GetDish(1)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)

	err = orderDB.AdjustStock(1, -1)
	assert.Error(t, err, "stock must not go negative")
}

func TestOrderAndPaymentLifecycle(t *testing.T) {
	orderDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	orderID := uuid.New().String()
	order := &models.Order{
		ID:            orderID,
		UserID:        "user123",
		StoreID:       1,
		TableID:       7,
		ConsumeType:   models.DineIn,
		OrderType:     models.OrderTypeDeposit,
		OriginalPrice: 100,
		ShopDiscount:  10,
		Status:        models.OrderPending,
		CreatedAt:     time.Now(),
		DishOrders: []models.DishOrder{
			{DishID: 42, DishName: "Mapo Tofu", DishPrice: 16, Quantity: 2, IsAddition: true},
		},
	}
	require.NoError(t, orderDB.CreateOrder(order))

	got, err := orderDB.GetOrderByID(orderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, got.Status)
	require.Len(t, got.DishOrders, 1)
	assert.Equal(t, int64(42), got.DishOrders[0].DishID)

	require.NoError(t, orderDB.UpdateOrderStatus(orderID, models.OrderConfirmed))
	got, err = orderDB.GetOrderByID(orderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmed, got.Status)

	payment := &models.Payment{
		PayID:     uuid.New().String(),
		OrderID:   orderID,
		Amount:    18,
		Status:    models.PaymentPending,
		CreatedAt: time.Now(),
	}
	require.NoError(t, orderDB.CreatePayment(payment))

	byOrder, err := orderDB.GetPaymentByOrder(orderID)
	require.NoError(t, err)
	assert.Equal(t, payment.PayID, byOrder.PayID)

	require.NoError(t, orderDB.UpdatePaymentStatus(payment.PayID, models.PaymentSuccess))
	byID, err := orderDB.GetPaymentByID(payment.PayID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSuccess, byID.Status)
}

func TestComboLookup(t *testing.T) {
	orderDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	combo := &models.CatalogCombo{ID: 101, StoreID: 1, Name: "Pork Set", Price: 40, DishIDs: []int64{1, 2}}
	_, err := bunDB.NewInsert().Model(combo).Exec(context.Background())
	require.NoError(t, err)

	got, err := orderDB.GetCombo(101)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, got.DishIDs)

	// Combo ids miss the dish table without an error.
	dish, err := orderDB.GetDish(101)
	require.NoError(t, err)
	assert.Nil(t, dish)

	missing, err := orderDB.GetCombo(999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	listed, err := orderDB.ListCombos(1)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, int64(101), listed[0].ID)
}
