package expenses

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dashty/shoe-store-backend/pkg/db/models"
	"github.com/dashty/shoe-store-backend/pkg/enums"
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
	if err := conn.AutoMigrate(&models.Expense{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(ServiceParams{Repo: NewRepository(conn)})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func createExpense(t *testing.T, svc Service, title string, amount int64, category enums.ExpenseCategory, typ enums.ExpenseType, date time.Time) *models.Expense {
	t.Helper()
	expense, err := svc.Create(context.Background(), CreateInput{
		Title:    title,
		Amount:   decimal.NewFromInt(amount),
		Category: category,
		Type:     typ,
		Date:     date,
	})
	if err != nil {
		t.Fatalf("create %q: %v", title, err)
	}
	return expense
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateInput
	}{
		{"empty title", CreateInput{Amount: decimal.NewFromInt(100), Category: enums.ExpenseCategoryRent, Type: enums.ExpenseTypeMonthly}},
		{"zero amount", CreateInput{Title: "rent", Category: enums.ExpenseCategoryRent, Type: enums.ExpenseTypeMonthly}},
		{"negative amount", CreateInput{Title: "rent", Amount: decimal.NewFromInt(-5), Category: enums.ExpenseCategoryRent, Type: enums.ExpenseTypeMonthly}},
		{"bad category", CreateInput{Title: "rent", Amount: decimal.NewFromInt(100), Category: "fuel", Type: enums.ExpenseTypeMonthly}},
		{"bad type", CreateInput{Title: "rent", Amount: decimal.NewFromInt(100), Category: enums.ExpenseCategoryRent, Type: "weekly"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateDefaultsDateToNow(t *testing.T) {
	svc, _ := newTestService(t)

	expense, err := svc.Create(context.Background(), CreateInput{
		Title:    "electricity",
		Amount:   decimal.NewFromInt(45000),
		Category: enums.ExpenseCategoryUtilities,
		Type:     enums.ExpenseTypeMonthly,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if expense.Date.IsZero() {
		t.Fatal("expected date defaulted, got zero")
	}
}

func TestUpdatePartial(t *testing.T) {
	svc, _ := newTestService(t)
	expense := createExpense(t, svc, "rent", 500000, enums.ExpenseCategoryRent, enums.ExpenseTypeMonthly, time.Now())

	amount := decimal.NewFromInt(550000)
	updated, err := svc.Update(context.Background(), expense.ID, UpdateInput{Amount: &amount})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Amount.Equal(amount) {
		t.Fatalf("expected amount 550000, got %s", updated.Amount)
	}
	if updated.Title != "rent" {
		t.Fatalf("expected title untouched, got %q", updated.Title)
	}
}

func TestDeleteMissing(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Delete(context.Background(), uuid.New(), Actor{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListFiltersByType(t *testing.T) {
	svc, _ := newTestService(t)
	now := time.Now()
	createExpense(t, svc, "lunch", 10000, enums.ExpenseCategoryOther, enums.ExpenseTypeDaily, now)
	createExpense(t, svc, "rent", 500000, enums.ExpenseCategoryRent, enums.ExpenseTypeMonthly, now)

	daily := enums.ExpenseTypeDaily
	rows, total, err := svc.List(context.Background(), Filters{Type: &daily}, pagination.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].Title != "lunch" {
		t.Fatalf("expected only the daily expense, got total=%d", total)
	}
}

func TestStatsByRangeGroups(t *testing.T) {
	svc, _ := newTestService(t)
	now := time.Now()
	createExpense(t, svc, "salary A", 300000, enums.ExpenseCategorySalary, enums.ExpenseTypeMonthly, now)
	createExpense(t, svc, "salary B", 200000, enums.ExpenseCategorySalary, enums.ExpenseTypeMonthly, now)
	createExpense(t, svc, "bags", 50000, enums.ExpenseCategorySupplies, enums.ExpenseTypeDaily, now)
	// outside the range
	createExpense(t, svc, "old rent", 500000, enums.ExpenseCategoryRent, enums.ExpenseTypeMonthly, now.AddDate(0, -2, 0))

	from := now.AddDate(0, 0, -1)
	to := now.AddDate(0, 0, 1)
	stats, err := svc.StatsByRange(context.Background(), from, to)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Count != 3 {
		t.Fatalf("expected 3 expenses in range, got %d", stats.Count)
	}
	if !stats.Total.Equal(decimal.NewFromInt(550000)) {
		t.Fatalf("expected total 550000, got %s", stats.Total)
	}
	if len(stats.ByCategory) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(stats.ByCategory))
	}
	if stats.ByCategory[0].Category != enums.ExpenseCategorySalary ||
		!stats.ByCategory[0].Total.Equal(decimal.NewFromInt(500000)) {
		t.Fatalf("expected salary on top with 500000, got %+v", stats.ByCategory[0])
	}
	if len(stats.ByType) != 2 {
		t.Fatalf("expected 2 types, got %d", len(stats.ByType))
	}
}

func TestStatsByRangeRejectsInvertedRange(t *testing.T) {
	svc, _ := newTestService(t)
	now := time.Now()

	_, err := svc.StatsByRange(context.Background(), now, now.AddDate(0, 0, -1))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTodayStatsExcludesYesterday(t *testing.T) {
	svc, _ := newTestService(t)
	now := time.Now()
	createExpense(t, svc, "lunch", 10000, enums.ExpenseCategoryOther, enums.ExpenseTypeDaily, now)
	createExpense(t, svc, "yesterday", 20000, enums.ExpenseCategoryOther, enums.ExpenseTypeDaily, now.AddDate(0, 0, -1))

	stats, err := svc.TodayStats(context.Background())
	if err != nil {
		t.Fatalf("today stats: %v", err)
	}
	if stats.Count != 1 || !stats.Total.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("expected only today's 10000, got count=%d total=%s", stats.Count, stats.Total)
	}
}
