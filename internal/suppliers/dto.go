package suppliers

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Actor identifies who performed a mutation, for the activity trail.
type Actor struct {
	UserID    uuid.UUID
	IPAddress *string
	UserAgent *string
}

// CreateInput carries a new supplier.
type CreateInput struct {
	Name    string
	Contact *string
	Address *string
	Notes   *string
	Actor   Actor
}

// UpdateInput carries a partial supplier update. Nil fields stay untouched.
type UpdateInput struct {
	Name    *string
	Contact *string
	Address *string
	Notes   *string
	Actor   Actor
}

// Balance is the supplier-level credit position: everything bought on credit
// against everything ever paid, regardless of which purchase a payment was
// linked to.
type Balance struct {
	SupplierID  uuid.UUID       `json:"supplierId"`
	Name        string          `json:"name"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	TotalPaid   decimal.Decimal `json:"totalPaid"`
	Remaining   decimal.Decimal `json:"remaining"`
}
