package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierPayment is money paid toward a supplier, optionally linked to one purchase.
type SupplierPayment struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	SupplierID  uuid.UUID       `gorm:"column:supplier_id;type:uuid;not null;index"`
	PurchaseID  *uuid.UUID      `gorm:"column:purchase_id;type:uuid;index"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	PaymentDate time.Time       `gorm:"column:payment_date;not null;index"`
	Notes       *string         `gorm:"column:notes"`
	Supplier    *Supplier       `gorm:"foreignKey:SupplierID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
