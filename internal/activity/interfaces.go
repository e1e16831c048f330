package activity

import (
	"context"

	"github.com/dashty/shoe-store-backend/pkg/db/models"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for activity logs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, log *models.ActivityLog) (*models.ActivityLog, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ActivityLog, error)
	List(ctx context.Context, filters Filters, params pagination.Params) ([]models.ActivityLog, int64, error)
}

// Service exposes the read surface over activity logs.
type Service interface {
	List(ctx context.Context, filters Filters, params pagination.Params) ([]models.ActivityLog, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.ActivityLog, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.ActivityLog, int64, error)
}
