package suppliers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dashty/shoe-store-backend/pkg/db/models"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
)

// Repository defines persistence operations for suppliers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	Update(ctx context.Context, supplier *models.Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string, params pagination.Params) ([]models.Supplier, int64, error)
	BalanceFor(ctx context.Context, id uuid.UUID) (Balance, error)
	Balances(ctx context.Context) ([]Balance, error)
}

// Service exposes supplier operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Supplier, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Supplier, error)
	Delete(ctx context.Context, id uuid.UUID, actor Actor) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	List(ctx context.Context, search string, params pagination.Params) ([]models.Supplier, int64, error)
	Balance(ctx context.Context, id uuid.UUID) (Balance, error)
	Balances(ctx context.Context) ([]Balance, error)
}
