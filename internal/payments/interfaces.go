package payments

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dashty/shoe-store-backend/pkg/db/models"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
)

// Repository defines persistence operations for supplier payments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, payment *models.SupplierPayment) (*models.SupplierPayment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.SupplierPayment, error)
	Update(ctx context.Context, payment *models.SupplierPayment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters Filters, params pagination.Params) ([]models.SupplierPayment, int64, error)
	SumForPurchase(ctx context.Context, purchaseID uuid.UUID) (decimal.Decimal, error)
}

// Service exposes supplier payment operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.SupplierPayment, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.SupplierPayment, error)
	Delete(ctx context.Context, id uuid.UUID, actor Actor) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SupplierPayment, error)
	List(ctx context.Context, filters Filters, params pagination.Params) ([]models.SupplierPayment, int64, error)
	BySupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params) ([]models.SupplierPayment, int64, error)
}
