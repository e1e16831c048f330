package purchases

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dashty/shoe-store-backend/internal/stock"
	"github.com/dashty/shoe-store-backend/pkg/db"
	"github.com/dashty/shoe-store-backend/pkg/db/models"
	pkgerrors "github.com/dashty/shoe-store-backend/pkg/errors"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = conn.AutoMigrate(&models.Supplier{}, &models.Shoe{}, &models.Stock{},
		&models.Purchase{}, &models.SupplierPayment{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(ServiceParams{
		Repo:  NewRepository(conn),
		Stock: stock.NewRepository(conn),
		Tx:    db.NewWithConn(conn),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func seedSupplier(t *testing.T, conn *gorm.DB, name string) *models.Supplier {
	t.Helper()
	supplier := &models.Supplier{ID: uuid.New(), Name: name}
	if err := conn.Create(supplier).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
	return supplier
}

func seedShoe(t *testing.T, conn *gorm.DB) *models.Shoe {
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
	if err := conn.Create(shoe).Error; err != nil {
		t.Fatalf("seed shoe: %v", err)
	}
	return shoe
}

func TestCreateComputesTotalCost(t *testing.T) {
	svc, conn := newTestService(t)
	supplier := seedSupplier(t, conn, "Al-Noor Wholesale")
	shoe := seedShoe(t, conn)

	purchase, err := svc.Create(context.Background(), CreateInput{
		SupplierID: supplier.ID,
		ShoeID:     shoe.ID,
		Size:       "42",
		Quantity:   10,
		UnitCost:   decimal.NewFromInt(80000),
		IsCredit:   true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !purchase.TotalCost.Equal(decimal.NewFromInt(800000)) {
		t.Fatalf("expected total 800000, got %s", purchase.TotalCost)
	}
	if !purchase.PaidAmount.IsZero() {
		t.Fatalf("expected credit purchase unpaid, got %s", purchase.PaidAmount)
	}
	if purchase.PurchaseDate.IsZero() {
		t.Fatal("expected purchase date defaulted")
	}
}

func TestCreateCashPurchaseIsSettled(t *testing.T) {
	svc, conn := newTestService(t)
	supplier := seedSupplier(t, conn, "Al-Noor Wholesale")
	shoe := seedShoe(t, conn)

	purchase, err := svc.Create(context.Background(), CreateInput{
		SupplierID: supplier.ID,
		ShoeID:     shoe.ID,
		Size:       "42",
		Quantity:   2,
		UnitCost:   decimal.NewFromInt(80000),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !purchase.PaidAmount.Equal(purchase.TotalCost) {
		t.Fatalf("expected cash purchase settled, paid %s of %s", purchase.PaidAmount, purchase.TotalCost)
	}
}

func TestCreateAddToStockUpserts(t *testing.T) {
	svc, conn := newTestService(t)
	supplier := seedSupplier(t, conn, "Al-Noor Wholesale")
	shoe := seedShoe(t, conn)
	ctx := context.Background()

	input := CreateInput{
		SupplierID: supplier.ID,
		ShoeID:     shoe.ID,
		Size:       "42",
		Quantity:   5,
		UnitCost:   decimal.NewFromInt(80000),
		AddToStock: true,
	}
	if _, err := svc.Create(ctx, input); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(ctx, input); err != nil {
		t.Fatalf("second create: %v", err)
	}

	var row models.Stock
	if err := conn.First(&row, "shoe_id = ? AND size = ?", shoe.ID, "42").Error; err != nil {
		t.Fatalf("load stock: %v", err)
	}
	if row.Quantity != 10 {
		t.Fatalf("expected stock 10 after two purchases, got %d", row.Quantity)
	}
}

func TestUpdateRecomputesTotalAndClampsPaid(t *testing.T) {
	svc, conn := newTestService(t)
	supplier := seedSupplier(t, conn, "Al-Noor Wholesale")
	shoe := seedShoe(t, conn)
	ctx := context.Background()

	purchase, err := svc.Create(ctx, CreateInput{
		SupplierID: supplier.ID,
		ShoeID:     shoe.ID,
		Size:       "42",
		Quantity:   10,
		UnitCost:   decimal.NewFromInt(80000),
		IsCredit:   true,
		PaidAmount: decimal.NewFromInt(500000),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	quantity := 4
	updated, err := svc.Update(ctx, purchase.ID, UpdateInput{Quantity: &quantity})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.TotalCost.Equal(decimal.NewFromInt(320000)) {
		t.Fatalf("expected recomputed total 320000, got %s", updated.TotalCost)
	}
	if !updated.PaidAmount.Equal(decimal.NewFromInt(320000)) {
		t.Fatalf("expected paid clamped to 320000, got %s", updated.PaidAmount)
	}
}

func TestBalanceRemaining(t *testing.T) {
	svc, conn := newTestService(t)
	supplier := seedSupplier(t, conn, "Al-Noor Wholesale")
	shoe := seedShoe(t, conn)

	purchase, err := svc.Create(context.Background(), CreateInput{
		SupplierID: supplier.ID,
		ShoeID:     shoe.ID,
		Size:       "42",
		Quantity:   10,
		UnitCost:   decimal.NewFromInt(80000),
		IsCredit:   true,
		PaidAmount: decimal.NewFromInt(300000),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	balance, err := svc.Balance(context.Background(), purchase.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Remaining.Equal(decimal.NewFromInt(500000)) {
		t.Fatalf("expected remaining 500000, got %s", balance.Remaining)
	}
}

func TestTodosGroupedBySupplier(t *testing.T) {
	svc, conn := newTestService(t)
	first := seedSupplier(t, conn, "Al-Noor Wholesale")
	second := seedSupplier(t, conn, "Baghdad Shoes Co")
	shoe := seedShoe(t, conn)
	ctx := context.Background()

	mk := func(supplierID uuid.UUID, todo bool) *models.Purchase {
		purchase, err := svc.Create(ctx, CreateInput{
			SupplierID: supplierID,
			ShoeID:     shoe.ID,
			Size:       "42",
			Quantity:   1,
			UnitCost:   decimal.NewFromInt(80000),
			IsTodo:     todo,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		return purchase
	}
	mk(first.ID, true)
	mk(first.ID, true)
	mk(second.ID, true)
	mk(second.ID, false)

	groups, err := svc.Todos(ctx)
	if err != nil {
		t.Fatalf("todos: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 supplier groups, got %d", len(groups))
	}
	byID := map[uuid.UUID]TodoGroup{}
	for _, g := range groups {
		byID[g.SupplierID] = g
	}
	if len(byID[first.ID].Purchases) != 2 {
		t.Fatalf("expected 2 todos for first supplier, got %d", len(byID[first.ID].Purchases))
	}
	if len(byID[second.ID].Purchases) != 1 {
		t.Fatalf("expected 1 todo for second supplier, got %d", len(byID[second.ID].Purchases))
	}
	if byID[first.ID].SupplierName != "Al-Noor Wholesale" {
		t.Fatalf("expected supplier name resolved, got %q", byID[first.ID].SupplierName)
	}
}

func TestMarkTodoAndDone(t *testing.T) {
	svc, conn := newTestService(t)
	supplier := seedSupplier(t, conn, "Al-Noor Wholesale")
	shoe := seedShoe(t, conn)
	ctx := context.Background()

	purchase, err := svc.Create(ctx, CreateInput{
		SupplierID: supplier.ID,
		ShoeID:     shoe.ID,
		Size:       "42",
		Quantity:   1,
		UnitCost:   decimal.NewFromInt(80000),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	marked, err := svc.MarkTodo(ctx, purchase.ID, Actor{})
	if err != nil {
		t.Fatalf("mark todo: %v", err)
	}
	if !marked.IsTodo {
		t.Fatal("expected todo flag set")
	}

	done, err := svc.MarkDone(ctx, purchase.ID, Actor{})
	if err != nil {
		t.Fatalf("mark done: %v", err)
	}
	if done.IsTodo {
		t.Fatal("expected todo flag cleared")
	}
}

func TestCreditBySupplierFilters(t *testing.T) {
	svc, conn := newTestService(t)
	supplier := seedSupplier(t, conn, "Al-Noor Wholesale")
	shoe := seedShoe(t, conn)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{
		SupplierID: supplier.ID, ShoeID: shoe.ID, Size: "42",
		Quantity: 1, UnitCost: decimal.NewFromInt(80000), IsCredit: true,
	}); err != nil {
		t.Fatalf("credit purchase: %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{
		SupplierID: supplier.ID, ShoeID: shoe.ID, Size: "43",
		Quantity: 1, UnitCost: decimal.NewFromInt(80000),
	}); err != nil {
		t.Fatalf("cash purchase: %v", err)
	}

	rows, total, err := svc.CreditBySupplier(ctx, supplier.ID, pagination.Params{})
	if err != nil {
		t.Fatalf("credit by supplier: %v", err)
	}
	if total != 1 || len(rows) != 1 || !rows[0].IsCredit {
		t.Fatalf("expected only the credit purchase, got total=%d", total)
	}
}

func TestGetByIDUnknown(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetByID(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
