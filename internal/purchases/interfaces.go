package purchases

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dashty/shoe-store-backend/pkg/db/models"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
)

// Repository defines persistence operations for purchases.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, purchase *models.Purchase) (*models.Purchase, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Purchase, error)
	Update(ctx context.Context, purchase *models.Purchase) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters Filters, params pagination.Params) ([]models.Purchase, int64, error)
	Todos(ctx context.Context) ([]models.Purchase, error)
}

// Service exposes purchase operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Purchase, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Purchase, error)
	Delete(ctx context.Context, id uuid.UUID, actor Actor) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Purchase, error)
	List(ctx context.Context, filters Filters, params pagination.Params) ([]models.Purchase, int64, error)
	BySupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params) ([]models.Purchase, int64, error)
	CreditBySupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params) ([]models.Purchase, int64, error)
	Balance(ctx context.Context, id uuid.UUID) (BalanceView, error)
	Todos(ctx context.Context) ([]TodoGroup, error)
	MarkTodo(ctx context.Context, id uuid.UUID, actor Actor) (*models.Purchase, error)
	MarkDone(ctx context.Context, id uuid.UUID, actor Actor) (*models.Purchase, error)
}
