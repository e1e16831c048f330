package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dashty/shoe-store-backend/pkg/enums"
)

// Expense captures a business expense in IQD.
type Expense struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Title       string                `gorm:"column:title;not null"`
	Description *string               `gorm:"column:description"`
	Amount      decimal.Decimal       `gorm:"column:amount;type:numeric(14,2);not null"`
	Category    enums.ExpenseCategory `gorm:"column:category;not null"`
	Type        enums.ExpenseType     `gorm:"column:type;not null"`
	Date        time.Time             `gorm:"column:date;not null;index"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
