package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dashty/shoe-store-backend/pkg/db/models"
	"github.com/dashty/shoe-store-backend/pkg/enums"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
)

// Repository defines persistence operations for users. Auth shares it for
// credential and reset-token lookups.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	FindByResetToken(ctx context.Context, token string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string, params pagination.Params) ([]models.User, int64, error)
}

// Service exposes the admin-facing user operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (View, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (View, error)
	Delete(ctx context.Context, id uuid.UUID, actor Actor) error
	GetByID(ctx context.Context, id uuid.UUID) (View, error)
	List(ctx context.Context, search string, params pagination.Params) ([]View, int64, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool, actor Actor) (View, error)
	SetRole(ctx context.Context, id uuid.UUID, role enums.Role, actor Actor) (View, error)
	StatsFor(ctx context.Context, id uuid.UUID) (WithStats, error)
	ListWithStats(ctx context.Context, params pagination.Params) ([]WithStats, int64, error)
}
