package shoes

import (
	"context"

	"github.com/dashty/shoe-store-backend/pkg/db/models"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the shoe catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, shoe *models.Shoe) (*models.Shoe, error)
	Update(ctx context.Context, shoe *models.Shoe) (*models.Shoe, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shoe, error)
	FindBySKU(ctx context.Context, sku string) (*models.Shoe, error)
	List(ctx context.Context, filters Filters, params pagination.Params) ([]models.Shoe, int64, error)
}

// Service exposes shoe catalog operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Shoe, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Shoe, error)
	Delete(ctx context.Context, id uuid.UUID, actor Actor) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Shoe, error)
	List(ctx context.Context, filters Filters, params pagination.Params) ([]models.Shoe, int64, error)
}
