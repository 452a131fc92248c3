package db

import (
	"context"
	"database/sql"
	"errors"

	"tableside/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

// ---------------- CATALOG ----------------

// GetDish fetches one catalog dish, or nil if the id is not a dish. Combo
// ids miss here and resolve through GetCombo instead.
func (d *DB) GetDish(dishID int64) (*models.CatalogDish, error) {
	var dish models.CatalogDish
	err := d.Bun.NewSelect().
		Model(&dish).
		Where("dish_id = ?", dishID).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dish, nil
}

// GetCombo fetches one combo row, or nil if the id is not a combo.
func (d *DB) GetCombo(comboID int64) (*models.CatalogCombo, error) {
	var combo models.CatalogCombo
	err := d.Bun.NewSelect().
		Model(&combo).
		Where("combo_id = ?", comboID).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &combo, nil
}

func (d *DB) ListCombos(storeID int64) ([]models.CatalogCombo, error) {
	var combos []models.CatalogCombo
	err := d.Bun.NewSelect().
		Model(&combos).
		Where("store_id = ?", storeID).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return combos, nil
}

func (d *DB) ListDishes(storeID int64) ([]models.CatalogDish, error) {
	var dishes []models.CatalogDish
	err := d.Bun.NewSelect().
		Model(&dishes).
		Where("store_id = ?", storeID).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return dishes, nil
}

// AdjustStock applies a stock delta and fails if the result would go
// negative. Used by the order resolver when an order is confirmed.
func (d *DB) AdjustStock(dishID int64, delta int) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.CatalogDish)(nil)).
		Set("stock = stock + ?", delta).
		Where("dish_id = ?", dishID).
		Where("stock + ? >= 0", delta).
		Exec(context.Background())
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.New("insufficient stock")
	}
	return nil
}

// ---------------- CART ----------------

func (d *DB) GetCartItems(userID string, storeID int64) ([]models.CartItem, error) {
	var items []models.CartItem
	err := d.Bun.NewSelect().
		Model(&items).
		Where("user_id = ?", userID).
		Where("store_id = ?", storeID).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return items, nil
}

// GetCartItem fetches one cart row by dish and addition flag, or nil if the
// row does not exist.
func (d *DB) GetCartItem(userID string, storeID, dishID int64, isAddition bool) (*models.CartItem, error) {
	var item models.CartItem
	err := d.Bun.NewSelect().
		Model(&item).
		Where("user_id = ?", userID).
		Where("store_id = ?", storeID).
		Where("dish_id = ?", dishID).
		Where("is_addition = ?", isAddition).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (d *DB) InsertCartItem(item *models.CartItem) error {
	_, err := d.Bun.NewInsert().
		Model(item).
		Exec(context.Background())
	return err
}

func (d *DB) UpdateCartItem(item *models.CartItem) error {
	_, err := d.Bun.NewUpdate().
		Model(item).
		Column("quantity", "discount_used_count").
		Where("id = ?", item.ID).
		Exec(context.Background())
	return err
}

func (d *DB) DeleteCartItem(id int64) error {
	_, err := d.Bun.NewDelete().
		Model((*models.CartItem)(nil)).
		Where("id = ?", id).
		Exec(context.Background())
	return err
}

func (d *DB) ClearCart(userID string, storeID int64) error {
	_, err := d.Bun.NewDelete().
		Model((*models.CartItem)(nil)).
		Where("user_id = ?", userID).
		Where("store_id = ?", storeID).
		Exec(context.Background())
	return err
}

// ---------------- DISCOUNT USAGE ----------------

func (d *DB) GetDiscountUsage(userID string) (map[int64]int, error) {
	var rows []models.DiscountUsage
	err := d.Bun.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	used := make(map[int64]int, len(rows))
	for _, row := range rows {
		used[row.DishID] = row.UsedCount
	}
	return used, nil
}

func (d *DB) AddDiscountUsage(userID string, dishID int64, n int) error {
	usage := &models.DiscountUsage{UserID: userID, DishID: dishID, UsedCount: n}
	_, err := d.Bun.NewInsert().
		Model(usage).
		On("CONFLICT (user_id, dish_id) DO UPDATE").
		Set("used_count = discount_usage.used_count + ?", n).
		Exec(context.Background())
	return err
}

// ---------------- ORDERS ----------------

func (d *DB) CreateOrder(order *models.Order) error {
	_, err := d.Bun.NewInsert().
		Model(order).
		Exec(context.Background())
	return err
}

func (d *DB) GetOrderByID(id string) (*models.Order, error) {
	var order models.Order
	err := d.Bun.NewSelect().
		Model(&order).
		Where("order_id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (d *DB) UpdateOrderStatus(id string, status models.OrderStatus) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Order)(nil)).
		Set("status = ?", status).
		Where("order_id = ?", id).
		Exec(context.Background())
	return err
}

// ---------------- PAYMENTS ----------------

func (d *DB) CreatePayment(payment *models.Payment) error {
	_, err := d.Bun.NewInsert().
		Model(payment).
		Exec(context.Background())
	return err
}

func (d *DB) GetPaymentByID(payID string) (*models.Payment, error) {
	var payment models.Payment
	err := d.Bun.NewSelect().
		Model(&payment).
		Where("pay_id = ?", payID).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (d *DB) GetPaymentByOrder(orderID string) (*models.Payment, error) {
	var payment models.Payment
	err := d.Bun.NewSelect().
		Model(&payment).
		Where("order_id = ?", orderID).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (d *DB) UpdatePaymentStatus(payID string, status models.PaymentStatus) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Payment)(nil)).
		Set("status = ?", status).
		Set("updated_at = CURRENT_TIMESTAMP").
		Where("pay_id = ?", payID).
		Exec(context.Background())
	return err
}
