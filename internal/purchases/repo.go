package purchases

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dashty/shoe-store-backend/pkg/db/models"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
)

type repository struct {
	conn *gorm.DB
}

// NewRepository builds a gorm-backed purchase repository.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{conn: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{conn: tx}
}

func (r *repository) Create(ctx context.Context, purchase *models.Purchase) (*models.Purchase, error) {
	if purchase.ID == uuid.Nil {
		purchase.ID = uuid.New()
	}
	if err := r.conn.WithContext(ctx).Create(purchase).Error; err != nil {
		return nil, err
	}
	return purchase, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.conn.WithContext(ctx).
		Preload("Supplier").
		Preload("Shoe").
		First(&purchase, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *repository) Update(ctx context.Context, purchase *models.Purchase) error {
	return r.conn.WithContext(ctx).Omit("Supplier", "Shoe").Save(purchase).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.conn.WithContext(ctx).Delete(&models.Purchase{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, filters Filters, params pagination.Params) ([]models.Purchase, int64, error) {
	params = params.Normalize()
	query := r.applyFilters(r.conn.WithContext(ctx).Model(&models.Purchase{}), filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Purchase
	err := query.
		Preload("Supplier").
		Preload("Shoe").
		Order("purchase_date DESC").
		Offset(params.Skip).
		Limit(params.Take).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Todos returns every open todo purchase with its supplier, oldest first,
// so the service can group them per supplier.
func (r *repository) Todos(ctx context.Context) ([]models.Purchase, error) {
	var rows []models.Purchase
	err := r.conn.WithContext(ctx).
		Preload("Supplier").
		Preload("Shoe").
		Where("is_todo = ?", true).
		Order("purchase_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) applyFilters(query *gorm.DB, filters Filters) *gorm.DB {
	if filters.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filters.SupplierID)
	}
	if filters.ShoeID != nil {
		query = query.Where("shoe_id = ?", *filters.ShoeID)
	}
	if filters.CreditOnly {
		query = query.Where("is_credit = ?", true)
	}
	if filters.TodoOnly {
		query = query.Where("is_todo = ?", true)
	}
	if filters.DateFrom != nil {
		query = query.Where("purchase_date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("purchase_date < ?", *filters.DateTo)
	}
	return query
}
