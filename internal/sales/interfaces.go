package sales

import (
	"context"
	"time"

	"github.com/dashty/shoe-store-backend/pkg/db/models"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for sales.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, sale *models.Sale) (*models.Sale, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context, onlineOnly bool) (int64, error)
	List(ctx context.Context, filters Filters, params pagination.Params) ([]models.Sale, int64, error)
	Aggregate(ctx context.Context, userID *uuid.UUID, since *time.Time) (PeriodStats, error)
	BestSellers(ctx context.Context, userID *uuid.UUID, since *time.Time, limit int) ([]BestSeller, error)
}

// Service exposes sale operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Sale, error)
	Delete(ctx context.Context, id uuid.UUID, actor Actor) error
	DeleteAll(ctx context.Context, actor Actor) (int64, error)
	DeleteAllOnline(ctx context.Context, actor Actor) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	List(ctx context.Context, filters Filters, params pagination.Params) ([]models.Sale, int64, error)
	Today(ctx context.Context, params pagination.Params) ([]models.Sale, int64, error)
	Stats(ctx context.Context) (Stats, error)
	StatsForUser(ctx context.Context, userID uuid.UUID) (UserStats, error)
}
