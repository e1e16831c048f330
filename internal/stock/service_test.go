package stock

import (
	"context"
	"testing"

	"github.com/dashty/shoe-store-backend/pkg/db/models"
	pkgerrors "github.com/dashty/shoe-store-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Shoe{}, &models.Stock{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func seedShoe(t *testing.T, db *gorm.DB) *models.Shoe {
	t.Helper()
	shoe := &models.Shoe{
		ID:        uuid.New(),
		Name:      "Air Runner",
		Brand:     "Nike",
		Category:  "men",
		Price:     decimal.NewFromInt(130000),
		CostPrice: decimal.NewFromInt(60),
		SKU:       uuid.NewString(),
	}
	if err := db.Create(shoe).Error; err != nil {
		t.Fatalf("seed shoe: %v", err)
	}
	return shoe
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc, err := NewService(ServiceParams{Repo: NewRepository(db)})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, db
}

func TestAddCreatesThenIncrements(t *testing.T) {
	svc, db := newTestService(t)
	shoe := seedShoe(t, db)
	ctx := context.Background()

	row, err := svc.Add(ctx, AddInput{ShoeID: shoe.ID, Size: "42", Quantity: 5})
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	if row.Quantity != 5 {
		t.Fatalf("expected 5, got %d", row.Quantity)
	}

	row, err = svc.Add(ctx, AddInput{ShoeID: shoe.ID, Size: "42", Quantity: 3})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if row.Quantity != 8 {
		t.Fatalf("expected increment to 8, got %d", row.Quantity)
	}

	var count int64
	if err := db.Model(&models.Stock{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected single row per shoe/size, got %d", count)
	}
}

func TestDeductFailsClosed(t *testing.T) {
	svc, db := newTestService(t)
	shoe := seedShoe(t, db)
	ctx := context.Background()

	if _, err := svc.Add(ctx, AddInput{ShoeID: shoe.ID, Size: "42", Quantity: 5}); err != nil {
		t.Fatalf("seed stock: %v", err)
	}

	// short deduct leaves the row unchanged
	err := svc.Deduct(ctx, shoe.ID, "42", 10)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT for insufficient stock, got %v", err)
	}

	var row models.Stock
	if err := db.Where("shoe_id = ? AND size = ?", shoe.ID, "42").First(&row).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if row.Quantity != 5 {
		t.Fatalf("failed deduct must not change quantity, got %d", row.Quantity)
	}

	if err := svc.Deduct(ctx, shoe.ID, "42", 5); err != nil {
		t.Fatalf("exact deduct: %v", err)
	}
	if err := db.Where("shoe_id = ? AND size = ?", shoe.ID, "42").First(&row).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if row.Quantity != 0 {
		t.Fatalf("expected 0 after deduct, got %d", row.Quantity)
	}
}

func TestDeductMissingRow(t *testing.T) {
	svc, db := newTestService(t)
	shoe := seedShoe(t, db)

	err := svc.Deduct(context.Background(), shoe.ID, "45", 1)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for missing row, got %v", err)
	}
}

func TestBulkAddAggregatesFailures(t *testing.T) {
	svc, db := newTestService(t)
	shoe := seedShoe(t, db)
	ctx := context.Background()

	result, err := svc.BulkAdd(ctx, []AddInput{
		{ShoeID: shoe.ID, Size: "40", Quantity: 2},
		{ShoeID: shoe.ID, Size: "41", Quantity: 0},      // skipped
		{ShoeID: uuid.Nil, Size: "42", Quantity: 1},     // fails validation
		{ShoeID: shoe.ID, Size: "43", Quantity: 4},
	})
	if result.Applied != 2 {
		t.Fatalf("expected 2 applied, got %d", result.Applied)
	}
	if result.Skipped != 2 {
		t.Fatalf("expected 2 skipped, got %d", result.Skipped)
	}
	if err == nil {
		t.Fatal("expected aggregated error for invalid entry")
	}

	// the valid entries must have landed despite the failure
	var count int64
	if err := db.Model(&models.Stock{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows, got %d", count)
	}
}

func TestUpdateSetsQuantity(t *testing.T) {
	svc, db := newTestService(t)
	shoe := seedShoe(t, db)
	ctx := context.Background()

	row, err := svc.Add(ctx, AddInput{ShoeID: shoe.ID, Size: "42", Quantity: 5})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	updated, err := svc.Update(ctx, row.ID, UpdateInput{Quantity: 0})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Quantity != 0 {
		t.Fatalf("expected 0, got %d", updated.Quantity)
	}

	_, err = svc.Update(ctx, row.ID, UpdateInput{Quantity: -1})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for negative quantity, got %v", err)
	}
}

func TestLowStock(t *testing.T) {
	svc, db := newTestService(t)
	low := seedShoe(t, db)
	healthy := seedShoe(t, db)
	ctx := context.Background()

	if _, err := svc.Add(ctx, AddInput{ShoeID: low.ID, Size: "40", Quantity: 1}); err != nil {
		t.Fatalf("seed low: %v", err)
	}
	if _, err := svc.Add(ctx, AddInput{ShoeID: low.ID, Size: "41", Quantity: 1}); err != nil {
		t.Fatalf("seed low: %v", err)
	}
	if _, err := svc.Add(ctx, AddInput{ShoeID: healthy.ID, Size: "42", Quantity: 10}); err != nil {
		t.Fatalf("seed healthy: %v", err)
	}

	items, err := svc.LowStock(ctx, 0) // falls back to default threshold 3
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 low stock shoe, got %d", len(items))
	}
	if items[0].ShoeID != low.ID || items[0].TotalQuantity != 2 {
		t.Fatalf("unexpected low stock item %+v", items[0])
	}
}
