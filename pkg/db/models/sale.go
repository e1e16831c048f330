package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale records one completed sale with the exchange rate frozen at sale time.
type Sale struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ShoeID       uuid.UUID       `gorm:"column:shoe_id;type:uuid;not null;index"`
	UserID       *uuid.UUID      `gorm:"column:user_id;type:uuid;index"`
	Size         string          `gorm:"column:size;not null"`
	Quantity     int             `gorm:"column:quantity;not null"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:numeric(14,2);not null"`
	TotalPrice   decimal.Decimal `gorm:"column:total_price;type:numeric(14,2);not null"`
	Profit       decimal.Decimal `gorm:"column:profit;type:numeric(14,2);not null"`
	ExchangeRate decimal.Decimal `gorm:"column:exchange_rate;type:numeric(14,2);not null"`
	IsOnline     bool            `gorm:"column:is_online;not null;default:false"`
	Shoe         *Shoe           `gorm:"foreignKey:ShoeID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime;index"`
}
