package payments

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dashty/shoe-store-backend/pkg/db/models"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
)

type repository struct {
	conn *gorm.DB
}

// NewRepository builds a gorm-backed supplier payment repository.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{conn: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{conn: tx}
}

func (r *repository) Create(ctx context.Context, payment *models.SupplierPayment) (*models.SupplierPayment, error) {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	if err := r.conn.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SupplierPayment, error) {
	var payment models.SupplierPayment
	if err := r.conn.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) Update(ctx context.Context, payment *models.SupplierPayment) error {
	return r.conn.WithContext(ctx).Omit("Supplier").Save(payment).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.conn.WithContext(ctx).Delete(&models.SupplierPayment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, filters Filters, params pagination.Params) ([]models.SupplierPayment, int64, error) {
	params = params.Normalize()
	query := r.conn.WithContext(ctx).Model(&models.SupplierPayment{})
	if filters.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filters.SupplierID)
	}
	if filters.PurchaseID != nil {
		query = query.Where("purchase_id = ?", *filters.PurchaseID)
	}
	if filters.DateFrom != nil {
		query = query.Where("payment_date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("payment_date < ?", *filters.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.SupplierPayment
	err := query.
		Order("payment_date DESC").
		Offset(params.Skip).
		Limit(params.Take).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) SumForPurchase(ctx context.Context, purchaseID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.conn.WithContext(ctx).Model(&models.SupplierPayment{}).
		Where("purchase_id = ?", purchaseID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}
