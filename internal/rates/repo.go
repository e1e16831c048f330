package rates

import (
	"context"

	"github.com/dashty/shoe-store-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an exchange rate repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, rate *models.ExchangeRate) (*models.ExchangeRate, error) {
	if rate.ID == uuid.Nil {
		rate.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(rate).Error; err != nil {
		return nil, err
	}
	return rate, nil
}

func (r *repository) Latest(ctx context.Context) (*models.ExchangeRate, error) {
	var rate models.ExchangeRate
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *repository) History(ctx context.Context, limit int) ([]models.ExchangeRate, error) {
	var rates []models.ExchangeRate
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}
