package sales

import (
	"context"
	"time"

	"github.com/dashty/shoe-store-backend/pkg/db/models"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a sales repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, sale *models.Sale) (*models.Sale, error) {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(sale).Error; err != nil {
		return nil, err
	}
	return sale, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.WithContext(ctx).
		Preload("Shoe").
		Where("id = ?", id).
		First(&sale).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Sale{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) DeleteAll(ctx context.Context, onlineOnly bool) (int64, error) {
	query := r.db.WithContext(ctx)
	if onlineOnly {
		query = query.Where("is_online = ?", true)
	} else {
		query = query.Where("1 = 1")
	}
	result := query.Delete(&models.Sale{})
	return result.RowsAffected, result.Error
}

func (r *repository) List(ctx context.Context, filters Filters, params pagination.Params) ([]models.Sale, int64, error) {
	params = params.Normalize()

	query := r.db.WithContext(ctx).Model(&models.Sale{})
	if filters.ShoeID != nil {
		query = query.Where("shoe_id = ?", *filters.ShoeID)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.OnlineOnly {
		query = query.Where("is_online = ?", true)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var result []models.Sale
	err := query.
		Preload("Shoe").
		Order("created_at DESC").
		Offset(params.Skip).
		Limit(params.Take).
		Find(&result).Error
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

type aggregateRow struct {
	Count   int64
	Revenue decimal.Decimal
	Profit  decimal.Decimal
}

func (r *repository) Aggregate(ctx context.Context, userID *uuid.UUID, since *time.Time) (PeriodStats, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total_price), 0) AS revenue, COALESCE(SUM(profit), 0) AS profit")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	var row aggregateRow
	if err := query.Scan(&row).Error; err != nil {
		return PeriodStats{}, err
	}
	return PeriodStats{Count: row.Count, Revenue: row.Revenue, Profit: row.Profit}, nil
}

func (r *repository) BestSellers(ctx context.Context, userID *uuid.UUID, since *time.Time, limit int) ([]BestSeller, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Select("sales.shoe_id AS shoe_id, shoes.name AS name, shoes.brand AS brand, SUM(sales.quantity) AS quantity").
		Joins("JOIN shoes ON shoes.id = sales.shoe_id").
		Group("sales.shoe_id, shoes.name, shoes.brand").
		Order("quantity DESC").
		Limit(limit)
	if userID != nil {
		query = query.Where("sales.user_id = ?", *userID)
	}
	if since != nil {
		query = query.Where("sales.created_at >= ?", *since)
	}

	var sellers []BestSeller
	if err := query.Scan(&sellers).Error; err != nil {
		return nil, err
	}
	return sellers, nil
}
