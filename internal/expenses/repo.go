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

type repository struct {
	conn *gorm.DB
}

// NewRepository builds a gorm-backed expense repository.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{conn: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{conn: tx}
}

func (r *repository) Create(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	if err := r.conn.WithContext(ctx).Create(expense).Error; err != nil {
		return nil, err
	}
	return expense, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	var expense models.Expense
	if err := r.conn.WithContext(ctx).First(&expense, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *repository) Update(ctx context.Context, expense *models.Expense) error {
	return r.conn.WithContext(ctx).Save(expense).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.conn.WithContext(ctx).Delete(&models.Expense{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, filters Filters, params pagination.Params) ([]models.Expense, int64, error) {
	params = params.Normalize()
	query := r.applyFilters(r.conn.WithContext(ctx).Model(&models.Expense{}), filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Expense
	err := query.
		Order("date DESC").
		Offset(params.Skip).
		Limit(params.Take).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

type sumRow struct {
	Total decimal.Decimal
	Count int64
}

func (r *repository) Aggregate(ctx context.Context, from, to *time.Time) (decimal.Decimal, int64, error) {
	var row sumRow
	query := r.rangeQuery(ctx, from, to).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count")
	if err := query.Scan(&row).Error; err != nil {
		return decimal.Zero, 0, err
	}
	return row.Total, row.Count, nil
}

func (r *repository) TotalsByCategory(ctx context.Context, from, to *time.Time) ([]CategoryTotal, error) {
	var rows []CategoryTotal
	err := r.rangeQuery(ctx, from, to).
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Group("category").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) TotalsByType(ctx context.Context, from, to *time.Time) ([]TypeTotal, error) {
	var rows []TypeTotal
	err := r.rangeQuery(ctx, from, to).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Group("type").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) rangeQuery(ctx context.Context, from, to *time.Time) *gorm.DB {
	query := r.conn.WithContext(ctx).Model(&models.Expense{})
	if from != nil {
		query = query.Where("date >= ?", *from)
	}
	if to != nil {
		query = query.Where("date < ?", *to)
	}
	return query
}

func (r *repository) applyFilters(query *gorm.DB, filters Filters) *gorm.DB {
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.DateFrom != nil {
		query = query.Where("date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("date < ?", *filters.DateTo)
	}
	return query
}
