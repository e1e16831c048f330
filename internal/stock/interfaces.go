package stock

import (
	"context"

	"github.com/dashty/shoe-store-backend/pkg/db/models"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for stock rows. Deduct and
// Increment are written so they compose inside a caller-owned transaction
// through WithTx.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, row *models.Stock) (*models.Stock, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Stock, error)
	FindByShoeAndSize(ctx context.Context, shoeID uuid.UUID, size string) (*models.Stock, error)
	Increment(ctx context.Context, shoeID uuid.UUID, size string, qty int) (int64, error)
	Deduct(ctx context.Context, shoeID uuid.UUID, size string, qty int) (int64, error)
	SetQuantity(ctx context.Context, id uuid.UUID, qty int) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params pagination.Params) ([]models.Stock, int64, error)
	ListByShoe(ctx context.Context, shoeID uuid.UUID) ([]models.Stock, error)
	LowStock(ctx context.Context, threshold int) ([]LowStockItem, error)
}

// Service exposes stock operations.
type Service interface {
	Add(ctx context.Context, input AddInput) (*models.Stock, error)
	BulkAdd(ctx context.Context, inputs []AddInput) (BulkResult, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Stock, error)
	Deduct(ctx context.Context, shoeID uuid.UUID, size string, qty int) error
	Delete(ctx context.Context, id uuid.UUID, actor Actor) error
	List(ctx context.Context, params pagination.Params) ([]models.Stock, int64, error)
	ByShoe(ctx context.Context, shoeID uuid.UUID) ([]models.Stock, error)
	LowStock(ctx context.Context, threshold int) ([]LowStockItem, error)
}
