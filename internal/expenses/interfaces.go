package expenses

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dashty/shoe-store-backend/pkg/db/models"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
)

// Repository defines persistence operations for expenses.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, expense *models.Expense) (*models.Expense, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Expense, error)
	Update(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters Filters, params pagination.Params) ([]models.Expense, int64, error)
	Aggregate(ctx context.Context, from, to *time.Time) (total decimal.Decimal, count int64, err error)
	TotalsByCategory(ctx context.Context, from, to *time.Time) ([]CategoryTotal, error)
	TotalsByType(ctx context.Context, from, to *time.Time) ([]TypeTotal, error)
}

// Service exposes expense operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Expense, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Expense, error)
	Delete(ctx context.Context, id uuid.UUID, actor Actor) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Expense, error)
	List(ctx context.Context, filters Filters, params pagination.Params) ([]models.Expense, int64, error)
	StatsByRange(ctx context.Context, from, to time.Time) (RangeStats, error)
	TodayStats(ctx context.Context) (RangeStats, error)
	MonthStats(ctx context.Context) (RangeStats, error)
}
