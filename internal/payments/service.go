package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dashty/shoe-store-backend/internal/activity"
	"github.com/dashty/shoe-store-backend/internal/purchases"
	"github.com/dashty/shoe-store-backend/pkg/db/models"
	pkgerrors "github.com/dashty/shoe-store-backend/pkg/errors"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo      Repository
	purchases purchases.Repository
	tx        txRunner
	recorder  *activity.Recorder
	now       func() time.Time
}

// ServiceParams collects the payment service dependencies.
type ServiceParams struct {
	Repo      Repository
	Purchases purchases.Repository
	Tx        txRunner
	Recorder  *activity.Recorder
}

// NewService builds the supplier payment service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("payment repository required")
	}
	if params.Purchases == nil {
		return nil, fmt.Errorf("purchase repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:      params.Repo,
		purchases: params.Purchases,
		tx:        params.Tx,
		recorder:  params.Recorder,
		now:       time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.SupplierPayment, error) {
	if input.SupplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}
	if input.Amount.IsNegative() || input.Amount.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	date := input.PaymentDate
	if date.IsZero() {
		date = s.now()
	}

	payment := &models.SupplierPayment{
		SupplierID:  input.SupplierID,
		PurchaseID:  input.PurchaseID,
		Amount:      input.Amount,
		PaymentDate: date,
		Notes:       input.Notes,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if input.PurchaseID != nil {
			purchase, err := s.loadPurchase(ctx, tx, *input.PurchaseID)
			if err != nil {
				return err
			}
			if purchase.SupplierID != input.SupplierID {
				return pkgerrors.New(pkgerrors.CodeValidation, "purchase belongs to another supplier")
			}
		}
		down, err := s.downPayments(ctx, tx, input.PurchaseID)
		if err != nil {
			return err
		}
		if _, err := s.repo.WithTx(tx).Create(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inserting payment")
		}
		return s.syncPurchases(ctx, tx, down)
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, input.Actor, activity.ActionCreate, payment.ID,
		fmt.Sprintf("recorded supplier payment of %s", payment.Amount))
	return payment, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.SupplierPayment, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id required")
	}
	if input.Amount != nil && (input.Amount.IsNegative() || input.Amount.IsZero()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if input.PurchaseID != nil && input.ClearPurchase {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot relink and unlink in one update")
	}

	var payment *models.SupplierPayment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		loaded, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading payment")
		}

		// both the old and the (possibly different) new purchase get resynced
		down, err := s.downPayments(ctx, tx, loaded.PurchaseID, input.PurchaseID)
		if err != nil {
			return err
		}

		if input.PurchaseID != nil {
			purchase, err := s.loadPurchase(ctx, tx, *input.PurchaseID)
			if err != nil {
				return err
			}
			if purchase.SupplierID != loaded.SupplierID {
				return pkgerrors.New(pkgerrors.CodeValidation, "purchase belongs to another supplier")
			}
			loaded.PurchaseID = input.PurchaseID
		}
		if input.ClearPurchase {
			loaded.PurchaseID = nil
		}
		if input.Amount != nil {
			loaded.Amount = *input.Amount
		}
		if input.PaymentDate != nil {
			loaded.PaymentDate = *input.PaymentDate
		}
		if input.Notes != nil {
			loaded.Notes = input.Notes
		}

		if err := repo.Update(ctx, loaded); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating payment")
		}
		payment = loaded
		return s.syncPurchases(ctx, tx, down)
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, input.Actor, activity.ActionUpdate, payment.ID, "updated supplier payment")
	return payment, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, actor Actor) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment id required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		payment, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading payment")
		}
		down, err := s.downPayments(ctx, tx, payment.PurchaseID)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting payment")
		}
		return s.syncPurchases(ctx, tx, down)
	})
	if err != nil {
		return err
	}

	s.record(ctx, actor, activity.ActionDelete, id, "deleted supplier payment")
	return nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.SupplierPayment, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id required")
	}
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading payment")
	}
	return payment, nil
}

func (s *service) List(ctx context.Context, filters Filters, params pagination.Params) ([]models.SupplierPayment, int64, error) {
	rows, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing payments")
	}
	return rows, total, nil
}

func (s *service) BySupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params) ([]models.SupplierPayment, int64, error) {
	if supplierID == uuid.Nil {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}
	return s.List(ctx, Filters{SupplierID: &supplierID}, params)
}

func (s *service) loadPurchase(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Purchase, error) {
	purchase, err := s.purchases.WithTx(tx).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading purchase")
	}
	return purchase, nil
}

// downPayments captures, before a payment mutation, each affected purchase's
// down payment: the part of PaidAmount not covered by linked payments.
func (s *service) downPayments(ctx context.Context, tx *gorm.DB, ids ...*uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	down := map[uuid.UUID]decimal.Decimal{}
	for _, id := range ids {
		if id == nil {
			continue
		}
		if _, seen := down[*id]; seen {
			continue
		}
		purchase, err := s.loadPurchase(ctx, tx, *id)
		if err != nil {
			return nil, err
		}
		sum, err := s.repo.WithTx(tx).SumForPurchase(ctx, *id)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing payments")
		}
		base := purchase.PaidAmount.Sub(sum)
		if base.IsNegative() {
			base = decimal.Zero
		}
		down[*id] = base
	}
	return down, nil
}

// syncPurchases rewrites each affected purchase's PaidAmount as the down
// payment plus the linked payment sum, clamped to TotalCost.
func (s *service) syncPurchases(ctx context.Context, tx *gorm.DB, down map[uuid.UUID]decimal.Decimal) error {
	for id, base := range down {
		purchase, err := s.loadPurchase(ctx, tx, id)
		if err != nil {
			return err
		}
		sum, err := s.repo.WithTx(tx).SumForPurchase(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing payments")
		}
		paid := base.Add(sum)
		if paid.GreaterThan(purchase.TotalCost) {
			paid = purchase.TotalCost
		}
		purchase.PaidAmount = paid
		if err := s.purchases.WithTx(tx).Update(ctx, purchase); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating purchase paid amount")
		}
	}
	return nil
}

func (s *service) record(ctx context.Context, actor Actor, action string, paymentID uuid.UUID, description string) {
	if actor.UserID == uuid.Nil {
		return
	}
	entityID := paymentID
	s.recorder.Record(ctx, activity.Entry{
		UserID:      actor.UserID,
		Action:      action,
		EntityType:  "supplier_payment",
		EntityID:    &entityID,
		Description: &description,
		IPAddress:   actor.IPAddress,
		UserAgent:   actor.UserAgent,
	})
}
