package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is a wholesale source for purchases.
type Supplier struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Name      string     `gorm:"column:name;not null"`
	Contact   *string    `gorm:"column:contact"`
	Address   *string    `gorm:"column:address"`
	Notes     *string    `gorm:"column:notes"`
	Purchases []Purchase `gorm:"foreignKey:SupplierID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
