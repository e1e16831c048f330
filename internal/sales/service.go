package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dashty/shoe-store-backend/internal/activity"
	"github.com/dashty/shoe-store-backend/internal/stock"
	"github.com/dashty/shoe-store-backend/pkg/db/models"
	pkgerrors "github.com/dashty/shoe-store-backend/pkg/errors"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type shoeFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shoe, error)
}

type rateSource interface {
	Current(ctx context.Context) (decimal.Decimal, error)
}

type service struct {
	repo     Repository
	shoes    shoeFinder
	stock    stock.Repository
	rates    rateSource
	tx       txRunner
	recorder *activity.Recorder
}

// ServiceParams collects the sales service dependencies.
type ServiceParams struct {
	Repo     Repository
	Shoes    shoeFinder
	Stock    stock.Repository
	Rates    rateSource
	Tx       txRunner
	Recorder *activity.Recorder
}

// NewService builds the sales service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if params.Shoes == nil {
		return nil, fmt.Errorf("shoe finder required")
	}
	if params.Stock == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if params.Rates == nil {
		return nil, fmt.Errorf("rate source required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:     params.Repo,
		shoes:    params.Shoes,
		stock:    params.Stock,
		rates:    params.Rates,
		tx:       params.Tx,
		recorder: params.Recorder,
	}, nil
}

// Create deducts stock and inserts the sale in one transaction. The exchange
// rate is frozen on the row so later rate changes never rewrite history.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Sale, error) {
	if input.ShoeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shoe id required")
	}
	if strings.TrimSpace(input.Size) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.UnitPrice != nil && (input.UnitPrice.IsNegative() || input.UnitPrice.IsZero()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must be positive")
	}

	shoe, err := s.shoes.FindByID(ctx, input.ShoeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shoe not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading shoe")
	}

	rate, err := s.rates.Current(ctx)
	if err != nil {
		return nil, err
	}

	unitPrice := shoe.Price
	if input.UnitPrice != nil {
		unitPrice = *input.UnitPrice
	}

	qty := decimal.NewFromInt(int64(input.Quantity))
	totalPrice := unitPrice.Mul(qty)
	profit := unitPrice.Sub(shoe.CostPrice.Mul(rate)).Mul(qty)

	sale := &models.Sale{
		ShoeID:       shoe.ID,
		Size:         strings.TrimSpace(input.Size),
		Quantity:     input.Quantity,
		UnitPrice:    unitPrice,
		TotalPrice:   totalPrice,
		Profit:       profit,
		ExchangeRate: rate,
		IsOnline:     input.IsOnline,
	}
	if input.Actor.UserID != uuid.Nil {
		userID := input.Actor.UserID
		sale.UserID = &userID
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		stockRepo := s.stock.WithTx(tx)
		affected, err := stockRepo.Deduct(ctx, sale.ShoeID, sale.Size, sale.Quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deducting stock")
		}
		if affected == 0 {
			if _, err := stockRepo.FindByShoeAndSize(ctx, sale.ShoeID, sale.Size); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "no stock row for this shoe and size")
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking stock row")
			}
			return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock")
		}

		if _, err := s.repo.WithTx(tx).Create(ctx, sale); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inserting sale")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, input.Actor, activity.ActionCreate, sale.ID,
		fmt.Sprintf("sold %d x %s (size %s)", sale.Quantity, shoe.Name, sale.Size))
	return sale, nil
}

// Delete restores the deducted stock and removes the sale in one transaction.
func (s *service) Delete(ctx context.Context, id uuid.UUID, actor Actor) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale id required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		sale, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading sale")
		}

		stockRepo := s.stock.WithTx(tx)
		affected, err := stockRepo.Increment(ctx, sale.ShoeID, sale.Size, sale.Quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restoring stock")
		}
		if affected == 0 {
			// stock row was removed since the sale; recreate it with the restored qty
			if _, err := stockRepo.Create(ctx, &models.Stock{
				ShoeID:   sale.ShoeID,
				Size:     sale.Size,
				Quantity: sale.Quantity,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recreating stock row")
			}
		}

		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting sale")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.record(ctx, actor, activity.ActionDelete, id, "deleted sale and restored stock")
	return nil
}

func (s *service) DeleteAll(ctx context.Context, actor Actor) (int64, error) {
	return s.deleteAll(ctx, actor, false)
}

func (s *service) DeleteAllOnline(ctx context.Context, actor Actor) (int64, error) {
	return s.deleteAll(ctx, actor, true)
}

func (s *service) deleteAll(ctx context.Context, actor Actor, onlineOnly bool) (int64, error) {
	deleted, err := s.repo.DeleteAll(ctx, onlineOnly)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting sales")
	}
	scope := "all sales"
	if onlineOnly {
		scope = "all online sales"
	}
	s.record(ctx, actor, activity.ActionDelete, uuid.Nil, fmt.Sprintf("purged %s (%d rows)", scope, deleted))
	return deleted, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale id required")
	}
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading sale")
	}
	return sale, nil
}

func (s *service) List(ctx context.Context, filters Filters, params pagination.Params) ([]models.Sale, int64, error) {
	result, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing sales")
	}
	return result, total, nil
}

func (s *service) Today(ctx context.Context, params pagination.Params) ([]models.Sale, int64, error) {
	start := startOfDay(time.Now())
	return s.List(ctx, Filters{DateFrom: &start}, params)
}

func (s *service) Stats(ctx context.Context) (Stats, error) {
	total, err := s.repo.Aggregate(ctx, nil, nil)
	if err != nil {
		return Stats{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregating sales")
	}
	start := startOfDay(time.Now())
	today, err := s.repo.Aggregate(ctx, nil, &start)
	if err != nil {
		return Stats{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregating today's sales")
	}
	return Stats{
		TotalCount:   total.Count,
		TotalRevenue: total.Revenue,
		TotalProfit:  total.Profit,
		TodayCount:   today.Count,
		TodayRevenue: today.Revenue,
		TodayProfit:  today.Profit,
	}, nil
}

func (s *service) StatsForUser(ctx context.Context, userID uuid.UUID) (UserStats, error) {
	if userID == uuid.Nil {
		return UserStats{}, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	now := time.Now()
	dayStart := startOfDay(now)
	weekStart := dayStart.AddDate(0, 0, -6)
	monthStart := dayStart.AddDate(0, 0, -29)

	var stats UserStats
	var err error
	if stats.Today, err = s.repo.Aggregate(ctx, &userID, &dayStart); err != nil {
		return UserStats{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregating today")
	}
	if stats.Week, err = s.repo.Aggregate(ctx, &userID, &weekStart); err != nil {
		return UserStats{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregating week")
	}
	if stats.Month, err = s.repo.Aggregate(ctx, &userID, &monthStart); err != nil {
		return UserStats{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregating month")
	}
	if stats.BestSellers, err = s.repo.BestSellers(ctx, &userID, &monthStart, 5); err != nil {
		return UserStats{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "ranking best sellers")
	}
	return stats, nil
}

func (s *service) record(ctx context.Context, actor Actor, action string, saleID uuid.UUID, description string) {
	if actor.UserID == uuid.Nil {
		return
	}
	entry := activity.Entry{
		UserID:      actor.UserID,
		Action:      action,
		EntityType:  "sale",
		Description: &description,
		IPAddress:   actor.IPAddress,
		UserAgent:   actor.UserAgent,
	}
	if saleID != uuid.Nil {
		entry.EntityID = &saleID
	}
	s.recorder.Record(ctx, entry)
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
