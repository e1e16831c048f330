package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase records stock bought from a supplier. Credit purchases carry an
// accumulating PaidAmount that never exceeds TotalCost.
type Purchase struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	SupplierID   uuid.UUID       `gorm:"column:supplier_id;type:uuid;not null;index"`
	ShoeID       uuid.UUID       `gorm:"column:shoe_id;type:uuid;not null;index"`
	Size         string          `gorm:"column:size;not null"`
	Quantity     int             `gorm:"column:quantity;not null"`
	UnitCost     decimal.Decimal `gorm:"column:unit_cost;type:numeric(14,2);not null"`
	TotalCost    decimal.Decimal `gorm:"column:total_cost;type:numeric(14,2);not null"`
	IsCredit     bool            `gorm:"column:is_credit;not null;default:false"`
	PaidAmount   decimal.Decimal `gorm:"column:paid_amount;type:numeric(14,2);not null;default:0"`
	IsTodo       bool            `gorm:"column:is_todo;not null;default:false"`
	Notes        *string         `gorm:"column:notes"`
	PurchaseDate time.Time       `gorm:"column:purchase_date;not null;index"`
	Supplier     *Supplier       `gorm:"foreignKey:SupplierID"`
	Shoe         *Shoe           `gorm:"foreignKey:ShoeID"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
