package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Actor identifies who performed a mutation, for the activity trail.
type Actor struct {
	UserID    uuid.UUID
	IPAddress *string
	UserAgent *string
}

// CreateInput carries a new supplier payment. PurchaseID, when set, links
// the payment to one purchase and updates that purchase's paid amount.
type CreateInput struct {
	SupplierID  uuid.UUID
	PurchaseID  *uuid.UUID
	Amount      decimal.Decimal
	PaymentDate time.Time
	Notes       *string
	Actor       Actor
}

// UpdateInput carries a partial payment update. Nil fields stay untouched;
// relinking to another purchase updates both purchases' paid amounts.
type UpdateInput struct {
	PurchaseID    *uuid.UUID
	ClearPurchase bool
	Amount        *decimal.Decimal
	PaymentDate   *time.Time
	Notes         *string
	Actor         Actor
}

// Filters narrows payment listings.
type Filters struct {
	SupplierID *uuid.UUID
	PurchaseID *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
}
