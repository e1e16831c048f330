package payments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dashty/shoe-store-backend/pkg/db/models"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
)

func setupPaymentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Supplier{}, &models.Purchase{}, &models.SupplierPayment{}))
	return conn
}

func insertPayment(t *testing.T, conn *gorm.DB, supplierID uuid.UUID, purchaseID *uuid.UUID, amount int64, when time.Time) *models.SupplierPayment {
	t.Helper()

	payment := &models.SupplierPayment{
		ID:          uuid.New(),
		SupplierID:  supplierID,
		PurchaseID:  purchaseID,
		Amount:      decimal.NewFromInt(amount),
		PaymentDate: when,
	}
	require.NoError(t, conn.Create(payment).Error)
	return payment
}

func TestPaymentRepoCreateAndFind(t *testing.T) {
	conn := setupPaymentsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	supplierID := uuid.New()
	created, err := repo.Create(ctx, &models.SupplierPayment{
		SupplierID:  supplierID,
		Amount:      decimal.NewFromInt(250),
		PaymentDate: time.Now(),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID, "expected a generated id")

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, supplierID, found.SupplierID)
	assert.True(t, found.Amount.Equal(decimal.NewFromInt(250)))
}

func TestPaymentRepoListFilters(t *testing.T) {
	conn := setupPaymentsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	supplierA := uuid.New()
	supplierB := uuid.New()
	purchaseID := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	insertPayment(t, conn, supplierA, &purchaseID, 100, base)
	insertPayment(t, conn, supplierA, nil, 200, base.AddDate(0, 0, 5))
	insertPayment(t, conn, supplierB, nil, 300, base.AddDate(0, 0, 10))

	rows, total, err := repo.List(ctx, Filters{SupplierID: &supplierA}, pagination.Params{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, rows, 2)
	// newest first
	assert.True(t, rows[0].PaymentDate.After(rows[1].PaymentDate))

	rows, total, err = repo.List(ctx, Filters{PurchaseID: &purchaseID}, pagination.Params{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Amount.Equal(decimal.NewFromInt(100)))

	from := base.AddDate(0, 0, 7)
	rows, total, err = repo.List(ctx, Filters{DateFrom: &from}, pagination.Params{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, supplierB, rows[0].SupplierID)
}

func TestPaymentRepoSumForPurchase(t *testing.T) {
	conn := setupPaymentsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	supplierID := uuid.New()
	purchaseID := uuid.New()
	other := uuid.New()

	insertPayment(t, conn, supplierID, &purchaseID, 120, time.Now())
	insertPayment(t, conn, supplierID, &purchaseID, 80, time.Now())
	insertPayment(t, conn, supplierID, &other, 999, time.Now())

	sum, err := repo.SumForPurchase(ctx, purchaseID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(200)), "got %s", sum)

	sum, err = repo.SumForPurchase(ctx, uuid.New())
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
}

func TestPaymentRepoDeleteMissing(t *testing.T) {
	conn := setupPaymentsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	err := repo.Delete(ctx, uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	payment := insertPayment(t, conn, uuid.New(), nil, 50, time.Now())
	require.NoError(t, repo.Delete(ctx, payment.ID))

	_, err = repo.FindByID(ctx, payment.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
