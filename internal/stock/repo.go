package stock

import (
	"context"

	"github.com/dashty/shoe-store-backend/pkg/db/models"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a stock repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, row *models.Stock) (*models.Stock, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Stock, error) {
	var row models.Stock
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) FindByShoeAndSize(ctx context.Context, shoeID uuid.UUID, size string) (*models.Stock, error) {
	var row models.Stock
	err := r.db.WithContext(ctx).
		Where("shoe_id = ? AND size = ?", shoeID, size).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) Increment(ctx context.Context, shoeID uuid.UUID, size string, qty int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Stock{}).
		Where("shoe_id = ? AND size = ?", shoeID, size).
		Update("quantity", gorm.Expr("quantity + ?", qty))
	return result.RowsAffected, result.Error
}

// Deduct decrements only when enough stock remains. Zero rows affected means
// the row is missing or short.
func (r *repository) Deduct(ctx context.Context, shoeID uuid.UUID, size string, qty int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Stock{}).
		Where("shoe_id = ? AND size = ? AND quantity >= ?", shoeID, size, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	return result.RowsAffected, result.Error
}

func (r *repository) SetQuantity(ctx context.Context, id uuid.UUID, qty int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Stock{}).
		Where("id = ?", id).
		Update("quantity", qty)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Stock{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, params pagination.Params) ([]models.Stock, int64, error) {
	params = params.Normalize()

	query := r.db.WithContext(ctx).Model(&models.Stock{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Stock
	err := query.
		Order("updated_at DESC").
		Offset(params.Skip).
		Limit(params.Take).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) ListByShoe(ctx context.Context, shoeID uuid.UUID) ([]models.Stock, error) {
	var rows []models.Stock
	err := r.db.WithContext(ctx).
		Where("shoe_id = ?", shoeID).
		Order("size ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) LowStock(ctx context.Context, threshold int) ([]LowStockItem, error) {
	var items []LowStockItem
	err := r.db.WithContext(ctx).
		Model(&models.Stock{}).
		Select("stocks.shoe_id AS shoe_id, shoes.name AS name, shoes.brand AS brand, SUM(stocks.quantity) AS total_quantity").
		Joins("JOIN shoes ON shoes.id = stocks.shoe_id").
		Group("stocks.shoe_id, shoes.name, shoes.brand").
		Having("SUM(stocks.quantity) < ?", threshold).
		Order("total_quantity ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
