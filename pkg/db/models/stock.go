package models

import (
	"time"

	"github.com/google/uuid"
)

// Stock tracks on-hand quantity for a single shoe size.
type Stock struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ShoeID    uuid.UUID `gorm:"column:shoe_id;type:uuid;not null;uniqueIndex:idx_stocks_shoe_size"`
	Size      string    `gorm:"column:size;not null;uniqueIndex:idx_stocks_shoe_size"`
	Quantity  int       `gorm:"column:quantity;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
