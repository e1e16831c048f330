package stock

import (
	"github.com/google/uuid"
)

// Actor identifies who performed a mutation, for audit purposes.
type Actor struct {
	UserID    uuid.UUID
	IPAddress *string
	UserAgent *string
}

// AddInput adds quantity to one shoe/size bucket, creating it when missing.
type AddInput struct {
	ShoeID   uuid.UUID
	Size     string
	Quantity int
	Actor    Actor
}

// UpdateInput replaces the quantity of one stock row.
type UpdateInput struct {
	Quantity int
	Actor    Actor
}

// BulkResult reports which bulk entries were applied.
type BulkResult struct {
	Applied int
	Skipped int
}

// LowStockItem flags a shoe whose total on-hand quantity fell under the threshold.
type LowStockItem struct {
	ShoeID        uuid.UUID `json:"shoeId"`
	Name          string    `json:"name"`
	Brand         string    `json:"brand"`
	TotalQuantity int       `json:"totalQuantity"`
}

// DefaultLowStockThreshold is used when the caller does not supply one.
const DefaultLowStockThreshold = 3
