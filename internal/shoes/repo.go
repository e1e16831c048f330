package shoes

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

// NewRepository builds a shoe repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, shoe *models.Shoe) (*models.Shoe, error) {
	if shoe.ID == uuid.Nil {
		shoe.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(shoe).Error; err != nil {
		return nil, err
	}
	return shoe, nil
}

func (r *repository) Update(ctx context.Context, shoe *models.Shoe) (*models.Shoe, error) {
	if err := r.db.WithContext(ctx).Save(shoe).Error; err != nil {
		return nil, err
	}
	return shoe, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Shoe{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Shoe, error) {
	var shoe models.Shoe
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&shoe).Error
	if err != nil {
		return nil, err
	}
	return &shoe, nil
}

func (r *repository) FindBySKU(ctx context.Context, sku string) (*models.Shoe, error) {
	var shoe models.Shoe
	err := r.db.WithContext(ctx).
		Where("sku = ?", sku).
		First(&shoe).Error
	if err != nil {
		return nil, err
	}
	return &shoe, nil
}

func (r *repository) List(ctx context.Context, filters Filters, params pagination.Params) ([]models.Shoe, int64, error) {
	params = params.Normalize()

	query := r.db.WithContext(ctx).Model(&models.Shoe{})
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.Brand != "" {
		query = query.Where("brand = ?", filters.Brand)
	}
	if filters.Search != "" {
		like := "%" + filters.Search + "%"
		query = query.Where("name LIKE ? OR brand LIKE ? OR sku LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var result []models.Shoe
	err := query.
		Order("created_at DESC").
		Offset(params.Skip).
		Limit(params.Take).
		Find(&result).Error
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}
