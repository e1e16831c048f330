package rates

import (
	"context"

	"github.com/dashty/shoe-store-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository defines persistence for the append-only rate history.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, rate *models.ExchangeRate) (*models.ExchangeRate, error)
	Latest(ctx context.Context) (*models.ExchangeRate, error)
	History(ctx context.Context, limit int) ([]models.ExchangeRate, error)
}

// Service exposes exchange rate operations. Rates are IQD per USD.
type Service interface {
	Current(ctx context.Context) (decimal.Decimal, error)
	Set(ctx context.Context, input SetInput) (*models.ExchangeRate, error)
	History(ctx context.Context, limit int) ([]models.ExchangeRate, error)
}
