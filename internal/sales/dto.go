package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Actor identifies who performed a mutation, for audit purposes.
type Actor struct {
	UserID    uuid.UUID
	IPAddress *string
	UserAgent *string
}

// CreateInput carries a new sale. UnitPrice defaults to the shoe's list price
// when nil.
type CreateInput struct {
	ShoeID    uuid.UUID
	Size      string
	Quantity  int
	UnitPrice *decimal.Decimal
	IsOnline  bool
	Actor     Actor
}

// Filters describe the inputs supported by the sales list.
type Filters struct {
	ShoeID     *uuid.UUID
	UserID     *uuid.UUID
	OnlineOnly bool
	DateFrom   *time.Time
	DateTo     *time.Time
}

// Stats aggregates count, revenue and profit over all time and today.
type Stats struct {
	TotalCount   int64           `json:"totalCount"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalProfit  decimal.Decimal `json:"totalProfit"`
	TodayCount   int64           `json:"todayCount"`
	TodayRevenue decimal.Decimal `json:"todayRevenue"`
	TodayProfit  decimal.Decimal `json:"todayProfit"`
}

// PeriodStats aggregates one time window.
type PeriodStats struct {
	Count   int64           `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
	Profit  decimal.Decimal `json:"profit"`
}

// BestSeller ranks a shoe by units sold.
type BestSeller struct {
	ShoeID   uuid.UUID `json:"shoeId"`
	Name     string    `json:"name"`
	Brand    string    `json:"brand"`
	Quantity int64     `json:"quantity"`
}

// UserStats summarizes one seller's recent performance.
type UserStats struct {
	Today       PeriodStats  `json:"today"`
	Week        PeriodStats  `json:"week"`
	Month       PeriodStats  `json:"month"`
	BestSellers []BestSeller `json:"bestSellers"`
}
