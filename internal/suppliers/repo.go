package suppliers

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

// NewRepository builds a gorm-backed supplier repository.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{conn: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{conn: tx}
}

func (r *repository) Create(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error) {
	if supplier.ID == uuid.Nil {
		supplier.ID = uuid.New()
	}
	if err := r.conn.WithContext(ctx).Create(supplier).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.conn.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *repository) Update(ctx context.Context, supplier *models.Supplier) error {
	return r.conn.WithContext(ctx).Save(supplier).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.conn.WithContext(ctx).Delete(&models.Supplier{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, search string, params pagination.Params) ([]models.Supplier, int64, error) {
	params = params.Normalize()
	query := r.conn.WithContext(ctx).Model(&models.Supplier{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name LIKE ?", pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Supplier
	err := query.
		Order("name ASC").
		Offset(params.Skip).
		Limit(params.Take).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

type balanceRow struct {
	SupplierID  uuid.UUID
	Name        string
	TotalCredit decimal.Decimal
	TotalPaid   decimal.Decimal
}

// BalanceFor sums credit purchases against all payments for one supplier.
func (r *repository) BalanceFor(ctx context.Context, id uuid.UUID) (Balance, error) {
	var supplier models.Supplier
	if err := r.conn.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return Balance{}, err
	}

	var credit decimal.Decimal
	err := r.conn.WithContext(ctx).Model(&models.Purchase{}).
		Where("supplier_id = ? AND is_credit = ?", id, true).
		Select("COALESCE(SUM(total_cost), 0)").
		Scan(&credit).Error
	if err != nil {
		return Balance{}, err
	}

	var paid decimal.Decimal
	err = r.conn.WithContext(ctx).Model(&models.SupplierPayment{}).
		Where("supplier_id = ?", id).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&paid).Error
	if err != nil {
		return Balance{}, err
	}

	return Balance{
		SupplierID:  supplier.ID,
		Name:        supplier.Name,
		TotalCredit: credit,
		TotalPaid:   paid,
		Remaining:   credit.Sub(paid),
	}, nil
}

// Balances computes the credit position for every supplier in one pass.
func (r *repository) Balances(ctx context.Context) ([]Balance, error) {
	var rows []balanceRow
	err := r.conn.WithContext(ctx).Model(&models.Supplier{}).
		Select(`suppliers.id AS supplier_id, suppliers.name,
			COALESCE((SELECT SUM(total_cost) FROM purchases
				WHERE purchases.supplier_id = suppliers.id AND purchases.is_credit = ?), 0) AS total_credit,
			COALESCE((SELECT SUM(amount) FROM supplier_payments
				WHERE supplier_payments.supplier_id = suppliers.id), 0) AS total_paid`, true).
		Order("suppliers.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	balances := make([]Balance, 0, len(rows))
	for _, row := range rows {
		balances = append(balances, Balance{
			SupplierID:  row.SupplierID,
			Name:        row.Name,
			TotalCredit: row.TotalCredit,
			TotalPaid:   row.TotalPaid,
			Remaining:   row.TotalCredit.Sub(row.TotalPaid),
		})
	}
	return balances, nil
}
