package purchases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dashty/shoe-store-backend/internal/activity"
	"github.com/dashty/shoe-store-backend/internal/stock"
	"github.com/dashty/shoe-store-backend/pkg/db/models"
	pkgerrors "github.com/dashty/shoe-store-backend/pkg/errors"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     Repository
	stock    stock.Repository
	tx       txRunner
	recorder *activity.Recorder
	now      func() time.Time
}

// ServiceParams collects the purchase service dependencies.
type ServiceParams struct {
	Repo     Repository
	Stock    stock.Repository
	Tx       txRunner
	Recorder *activity.Recorder
}

// NewService builds the purchase service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("purchase repository required")
	}
	if params.Stock == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:     params.Repo,
		stock:    params.Stock,
		tx:       params.Tx,
		recorder: params.Recorder,
		now:      time.Now,
	}, nil
}

// Create inserts the purchase and, when requested, upserts the bought
// quantity into stock in the same transaction.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Purchase, error) {
	if input.SupplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}
	if input.ShoeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shoe id required")
	}
	if strings.TrimSpace(input.Size) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.UnitCost.IsNegative() || input.UnitCost.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit cost must be positive")
	}
	if input.PaidAmount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "paid amount cannot be negative")
	}

	totalCost := input.UnitCost.Mul(decimal.NewFromInt(int64(input.Quantity)))
	paid := input.PaidAmount
	if paid.GreaterThan(totalCost) {
		paid = totalCost
	}
	// a cash purchase with no explicit down payment is settled in full
	if !input.IsCredit && paid.IsZero() {
		paid = totalCost
	}

	date := input.PurchaseDate
	if date.IsZero() {
		date = s.now()
	}

	purchase := &models.Purchase{
		SupplierID:   input.SupplierID,
		ShoeID:       input.ShoeID,
		Size:         strings.TrimSpace(input.Size),
		Quantity:     input.Quantity,
		UnitCost:     input.UnitCost,
		TotalCost:    totalCost,
		IsCredit:     input.IsCredit,
		PaidAmount:   paid,
		IsTodo:       input.IsTodo,
		Notes:        input.Notes,
		PurchaseDate: date,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, purchase); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inserting purchase")
		}
		if !input.AddToStock {
			return nil
		}
		stockRepo := s.stock.WithTx(tx)
		affected, err := stockRepo.Increment(ctx, purchase.ShoeID, purchase.Size, purchase.Quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "incrementing stock")
		}
		if affected == 0 {
			if _, err := stockRepo.Create(ctx, &models.Stock{
				ShoeID:   purchase.ShoeID,
				Size:     purchase.Size,
				Quantity: purchase.Quantity,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating stock row")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, input.Actor, activity.ActionCreate, purchase.ID,
		fmt.Sprintf("recorded purchase of %d x shoe %s (size %s)", purchase.Quantity, purchase.ShoeID, purchase.Size))
	return purchase, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Purchase, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase id required")
	}

	purchase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading purchase")
	}

	if input.Size != nil {
		if strings.TrimSpace(*input.Size) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "size required")
		}
		purchase.Size = strings.TrimSpace(*input.Size)
	}
	if input.Quantity != nil {
		if *input.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		purchase.Quantity = *input.Quantity
	}
	if input.UnitCost != nil {
		if input.UnitCost.IsNegative() || input.UnitCost.IsZero() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit cost must be positive")
		}
		purchase.UnitCost = *input.UnitCost
	}
	if input.IsCredit != nil {
		purchase.IsCredit = *input.IsCredit
	}
	if input.Notes != nil {
		purchase.Notes = input.Notes
	}
	if input.PurchaseDate != nil {
		purchase.PurchaseDate = *input.PurchaseDate
	}

	if input.Quantity != nil || input.UnitCost != nil {
		purchase.TotalCost = purchase.UnitCost.Mul(decimal.NewFromInt(int64(purchase.Quantity)))
		if purchase.PaidAmount.GreaterThan(purchase.TotalCost) {
			purchase.PaidAmount = purchase.TotalCost
		}
	}

	if err := s.repo.Update(ctx, purchase); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating purchase")
	}

	s.record(ctx, input.Actor, activity.ActionUpdate, purchase.ID, "updated purchase")
	return purchase, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, actor Actor) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "purchase id required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting purchase")
	}
	s.record(ctx, actor, activity.ActionDelete, id, "deleted purchase")
	return nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Purchase, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase id required")
	}
	purchase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading purchase")
	}
	return purchase, nil
}

func (s *service) List(ctx context.Context, filters Filters, params pagination.Params) ([]models.Purchase, int64, error) {
	rows, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing purchases")
	}
	return rows, total, nil
}

func (s *service) BySupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params) ([]models.Purchase, int64, error) {
	if supplierID == uuid.Nil {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}
	return s.List(ctx, Filters{SupplierID: &supplierID}, params)
}

func (s *service) CreditBySupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params) ([]models.Purchase, int64, error) {
	if supplierID == uuid.Nil {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}
	return s.List(ctx, Filters{SupplierID: &supplierID, CreditOnly: true}, params)
}

// Balance reports the remaining debt on one purchase. PaidAmount is kept in
// sync with linked payments by the payments service, so remaining is simply
// the clamped difference.
func (s *service) Balance(ctx context.Context, id uuid.UUID) (BalanceView, error) {
	purchase, err := s.GetByID(ctx, id)
	if err != nil {
		return BalanceView{}, err
	}
	remaining := purchase.TotalCost.Sub(purchase.PaidAmount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return BalanceView{
		PurchaseID: purchase.ID,
		TotalCost:  purchase.TotalCost,
		PaidAmount: purchase.PaidAmount,
		Remaining:  remaining,
	}, nil
}

func (s *service) Todos(ctx context.Context) ([]TodoGroup, error) {
	rows, err := s.repo.Todos(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing todos")
	}

	groups := make([]TodoGroup, 0)
	index := map[uuid.UUID]int{}
	for _, row := range rows {
		pos, seen := index[row.SupplierID]
		if !seen {
			name := ""
			if row.Supplier != nil {
				name = row.Supplier.Name
			}
			groups = append(groups, TodoGroup{
				SupplierID:   row.SupplierID,
				SupplierName: name,
			})
			pos = len(groups) - 1
			index[row.SupplierID] = pos
		}
		groups[pos].Purchases = append(groups[pos].Purchases, row)
	}
	return groups, nil
}

func (s *service) MarkTodo(ctx context.Context, id uuid.UUID, actor Actor) (*models.Purchase, error) {
	return s.setTodo(ctx, id, actor, true)
}

func (s *service) MarkDone(ctx context.Context, id uuid.UUID, actor Actor) (*models.Purchase, error) {
	return s.setTodo(ctx, id, actor, false)
}

func (s *service) setTodo(ctx context.Context, id uuid.UUID, actor Actor, todo bool) (*models.Purchase, error) {
	purchase, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase.IsTodo == todo {
		return purchase, nil
	}
	purchase.IsTodo = todo
	if err := s.repo.Update(ctx, purchase); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating purchase")
	}

	description := "marked purchase as todo"
	if !todo {
		description = "marked purchase as done"
	}
	s.record(ctx, actor, activity.ActionUpdate, purchase.ID, description)
	return purchase, nil
}

func (s *service) record(ctx context.Context, actor Actor, action string, purchaseID uuid.UUID, description string) {
	if actor.UserID == uuid.Nil {
		return
	}
	entityID := purchaseID
	s.recorder.Record(ctx, activity.Entry{
		UserID:      actor.UserID,
		Action:      action,
		EntityType:  "purchase",
		EntityID:    &entityID,
		Description: &description,
		IPAddress:   actor.IPAddress,
		UserAgent:   actor.UserAgent,
	})
}
