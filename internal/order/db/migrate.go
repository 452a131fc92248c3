package db

import (
	"context"
	"log"
	"time"

	"tableside/internal/models"

	"github.com/uptrace/bun"
)

func Migrate(db *bun.DB) {
	ctx := context.Background()

	tables := []interface{}{
		(*models.CatalogDish)(nil),
		(*models.CatalogCombo)(nil),
		(*models.CartItem)(nil),
		(*models.DiscountUsage)(nil),
		(*models.Order)(nil),
		(*models.Payment)(nil),
	}

	for _, model := range tables {
		_, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx)
		if err != nil {
			log.Fatalf("create table failed: %v", err)
		}
	}

	log.Println("tables created")
}

// Seed inserts a small demo catalog so a fresh instance can serve orders.
func Seed(db *bun.DB) {
	ctx := context.Background()

	count, err := db.NewSelect().Model((*models.CatalogDish)(nil)).Count(ctx)
	if err != nil {
		log.Fatalf("seed check failed: %v", err)
	}
	if count > 0 {
		return
	}

	dishes := []models.CatalogDish{
		{ID: 1, StoreID: 1, Name: "Braised Pork", Price: 28.0, Stock: 50,
			DiscountType: int(models.DiscountFlat), DiscountValue: 5.0, DiscountCount: 2},
		{ID: 2, StoreID: 1, Name: "Mapo Tofu", Price: 16.0, Stock: 80,
			DiscountType: int(models.DiscountPercentage), DiscountValue: 15.0, DiscountCount: 3},
		{ID: 3, StoreID: 1, Name: "Steamed Rice", Price: 3.0, Stock: 500},
	}

	_, err = db.NewInsert().Model(&dishes).Exec(ctx)
	if err != nil {
		log.Fatalf("seed insert failed: %v", err)
	}

	// Combo ids start well above the dish id range; the cart keys both kinds
	// of line by the same id column.
	combos := []models.CatalogCombo{
		{ID: 101, StoreID: 1, Name: "Pork Set", Price: 29.0, DishIDs: []int64{1, 3}},
	}

	_, err = db.NewInsert().Model(&combos).Exec(ctx)
	if err != nil {
		log.Fatalf("seed insert failed: %v", err)
	}

	log.Printf("seeded %d dishes and %d combos at %s", len(dishes), len(combos), time.Now().Format(time.RFC3339))
}
