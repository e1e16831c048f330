package rates

import (
	"context"
	"testing"
	"time"

	"github.com/dashty/shoe-store-backend/pkg/db/models"
	pkgerrors "github.com/dashty/shoe-store-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.ExchangeRate{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(ServiceParams{Repo: NewRepository(conn)})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func TestCurrentDefaultsWhenEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	rate, err := svc.Current(context.Background())
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if !rate.Equal(DefaultRate) {
		t.Fatalf("expected default 1300, got %s", rate)
	}
}

func TestSetAndCurrent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Set(ctx, SetInput{Rate: decimal.NewFromInt(1310)}); err != nil {
		t.Fatalf("set: %v", err)
	}

	rate, err := svc.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if !rate.Equal(decimal.NewFromInt(1310)) {
		t.Fatalf("expected 1310, got %s", rate)
	}
}

func TestSetRejectsNonPositive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, value := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := svc.Set(ctx, SetInput{Rate: value})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected VALIDATION_ERROR for %s, got %v", value, err)
		}
	}
}

func TestSetSkipsUnchangedRate(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Set(ctx, SetInput{Rate: decimal.NewFromInt(1310)}); err != nil {
		t.Fatalf("first set: %v", err)
	}
	if _, err := svc.Set(ctx, SetInput{Rate: decimal.NewFromInt(1310)}); err != nil {
		t.Fatalf("second set: %v", err)
	}

	var count int64
	if err := db.Model(&models.ExchangeRate{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("unchanged rate must not append, got %d rows", count)
	}
}

func TestHistoryOrderAndLimit(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		rate := &models.ExchangeRate{
			Rate:      decimal.NewFromInt(int64(1300 + i)),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if _, err := NewRepository(db).Create(ctx, rate); err != nil {
			t.Fatalf("seed rate: %v", err)
		}
	}

	history, err := svc.History(ctx, 2)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	if !history[0].Rate.Equal(decimal.NewFromInt(1302)) {
		t.Fatalf("expected newest first, got %s", history[0].Rate)
	}
}
