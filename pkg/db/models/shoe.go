package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dashty/shoe-store-backend/pkg/enums"
)

// Shoe represents a catalog entry. Price is IQD, CostPrice is USD.
type Shoe struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Name        string             `gorm:"column:name;not null"`
	Brand       string             `gorm:"column:brand;not null"`
	Category    enums.ShoeCategory `gorm:"column:category;not null"`
	Sizes       StringList         `gorm:"column:sizes;not null"`
	Price       decimal.Decimal    `gorm:"column:price;type:numeric(14,2);not null"`
	CostPrice   decimal.Decimal    `gorm:"column:cost_price;type:numeric(14,2);not null"`
	SKU         string             `gorm:"column:sku;not null;uniqueIndex"`
	Description *string            `gorm:"column:description"`
	ImageURL    *string            `gorm:"column:image_url"`
	Stocks      []Stock            `gorm:"foreignKey:ShoeID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
