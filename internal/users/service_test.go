package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dashty/shoe-store-backend/internal/sales"
	"github.com/dashty/shoe-store-backend/internal/shoes"
	"github.com/dashty/shoe-store-backend/internal/stock"
	"github.com/dashty/shoe-store-backend/pkg/config"
	"github.com/dashty/shoe-store-backend/pkg/db"
	"github.com/dashty/shoe-store-backend/pkg/db/models"
	"github.com/dashty/shoe-store-backend/pkg/enums"
	pkgerrors "github.com/dashty/shoe-store-backend/pkg/errors"
)

type stubRates struct{}

func (stubRates) Current(_ context.Context) (decimal.Decimal, error) {
	return decimal.NewFromInt(1300), nil
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = conn.AutoMigrate(&models.User{}, &models.Shoe{}, &models.Stock{}, &models.Sale{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	salesSvc, err := sales.NewService(sales.ServiceParams{
		Repo:  sales.NewRepository(conn),
		Shoes: shoes.NewRepository(conn),
		Stock: stock.NewRepository(conn),
		Rates: stubRates{},
		Tx:    db.NewWithConn(conn),
	})
	if err != nil {
		t.Fatalf("sales service: %v", err)
	}

	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(conn),
		Sales:    salesSvc,
		Password: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("user service: %v", err)
	}
	return svc, conn
}

func createUser(t *testing.T, svc Service, phone string) View {
	t.Helper()
	view, err := svc.Create(context.Background(), CreateInput{
		Name:        "Dashty",
		PhoneNumber: phone,
		Password:    "secret1",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return view
}

func TestValidPhone(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"07701234567", true},
		{"0770123456", true},
		{"770123456", false},
		{"007701234567", false},
		{"07701234", false},
		{"077012345678", false},
		{"077a1234567", false},
	}
	for _, tc := range cases {
		if got := ValidPhone(tc.value); got != tc.want {
			t.Errorf("ValidPhone(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestCreateDefaultsToUserRole(t *testing.T) {
	svc, _ := newTestService(t)
	view := createUser(t, svc, "07701234567")

	if view.Role != enums.RoleUser {
		t.Fatalf("expected role user, got %s", view.Role)
	}
	if !view.IsActive {
		t.Fatal("expected new account active")
	}
}

func TestCreateDuplicatePhoneConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	createUser(t, svc, "07701234567")

	_, err := svc.Create(context.Background(), CreateInput{
		Name:        "Another",
		PhoneNumber: "07701234567",
		Password:    "secret1",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateDuplicatePhoneConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	createUser(t, svc, "07701234567")
	other := createUser(t, svc, "07709876543")

	taken := "07701234567"
	_, err := svc.Update(context.Background(), other.ID, UpdateInput{
		PhoneNumber: &taken,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateShortPasswordRejected(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateInput{
		Name:        "Dashty",
		PhoneNumber: "07701234567",
		Password:    "short",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetActiveBlocksSelfDeactivation(t *testing.T) {
	svc, _ := newTestService(t)
	view := createUser(t, svc, "07701234567")

	_, err := svc.SetActive(context.Background(), view.ID, false, Actor{UserID: view.ID})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	updated, err := svc.SetActive(context.Background(), view.ID, false, Actor{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if updated.IsActive {
		t.Fatal("expected account deactivated")
	}
}

func TestSetRolePromotes(t *testing.T) {
	svc, _ := newTestService(t)
	view := createUser(t, svc, "07701234567")

	updated, err := svc.SetRole(context.Background(), view.ID, enums.RoleAdmin, Actor{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("set role: %v", err)
	}
	if updated.Role != enums.RoleAdmin {
		t.Fatalf("expected admin, got %s", updated.Role)
	}
}

func TestDeleteBlocksSelf(t *testing.T) {
	svc, _ := newTestService(t)
	view := createUser(t, svc, "07701234567")

	err := svc.Delete(context.Background(), view.ID, Actor{UserID: view.ID})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStatsForCountsOwnSales(t *testing.T) {
	svc, conn := newTestService(t)
	view := createUser(t, svc, "07701234567")
	ctx := context.Background()

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
	userID := view.ID
	sale := &models.Sale{
		ID:           uuid.New(),
		ShoeID:       shoe.ID,
		UserID:       &userID,
		Size:         "42",
		Quantity:     2,
		UnitPrice:    decimal.NewFromInt(130000),
		TotalPrice:   decimal.NewFromInt(260000),
		Profit:       decimal.NewFromInt(104000),
		ExchangeRate: decimal.NewFromInt(1300),
	}
	if err := conn.Create(sale).Error; err != nil {
		t.Fatalf("seed sale: %v", err)
	}

	stats, err := svc.StatsFor(ctx, view.ID)
	if err != nil {
		t.Fatalf("stats for: %v", err)
	}
	if stats.Stats.Today.Count != 1 {
		t.Fatalf("expected 1 sale today, got %d", stats.Stats.Today.Count)
	}
}
