package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExchangeRate is an append-only IQD-per-USD rate history row.
type ExchangeRate struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Rate      decimal.Decimal `gorm:"column:rate;type:numeric(14,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
