package stock

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dashty/shoe-store-backend/internal/activity"
	"github.com/dashty/shoe-store-backend/pkg/db/models"
	pkgerrors "github.com/dashty/shoe-store-backend/pkg/errors"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

type service struct {
	repo     Repository
	recorder *activity.Recorder
}

// ServiceParams collects the stock service dependencies.
type ServiceParams struct {
	Repo     Repository
	Recorder *activity.Recorder
}

// NewService builds the stock service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	return &service{repo: params.Repo, recorder: params.Recorder}, nil
}

func (s *service) Add(ctx context.Context, input AddInput) (*models.Stock, error) {
	if err := validateAdd(input); err != nil {
		return nil, err
	}

	affected, err := s.repo.Increment(ctx, input.ShoeID, input.Size, input.Quantity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "incrementing stock")
	}
	if affected == 0 {
		created, err := s.repo.Create(ctx, &models.Stock{
			ShoeID:   input.ShoeID,
			Size:     strings.TrimSpace(input.Size),
			Quantity: input.Quantity,
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating stock row")
		}
		s.record(ctx, input.Actor, activity.ActionCreate, created.ID, input)
		return created, nil
	}

	row, err := s.repo.FindByShoeAndSize(ctx, input.ShoeID, input.Size)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading stock row")
	}
	s.record(ctx, input.Actor, activity.ActionUpdate, row.ID, input)
	return row, nil
}

// BulkAdd applies entries independently. Entries with non-positive quantity
// are skipped, failures are aggregated and returned alongside the counts.
func (s *service) BulkAdd(ctx context.Context, inputs []AddInput) (BulkResult, error) {
	var result BulkResult
	var errs error

	for i, input := range inputs {
		if input.Quantity <= 0 {
			result.Skipped++
			continue
		}
		if _, err := s.Add(ctx, input); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("entry %d: %w", i, err))
			result.Skipped++
			continue
		}
		result.Applied++
	}

	return result, errs
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Stock, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock id required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	if err := s.repo.SetQuantity(ctx, id, input.Quantity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock row not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating stock quantity")
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading stock row")
	}

	if input.Actor.UserID != uuid.Nil {
		description := fmt.Sprintf("set stock %s/%s to %d", row.ShoeID, row.Size, input.Quantity)
		s.recorder.Record(ctx, activity.Entry{
			UserID:      input.Actor.UserID,
			Action:      activity.ActionUpdate,
			EntityType:  "stock",
			EntityID:    &id,
			Description: &description,
			IPAddress:   input.Actor.IPAddress,
			UserAgent:   input.Actor.UserAgent,
		})
	}
	return row, nil
}

// Deduct fails closed: when the row is missing it returns NOT_FOUND, when the
// quantity is short it returns CONFLICT and the row stays unchanged.
func (s *service) Deduct(ctx context.Context, shoeID uuid.UUID, size string, qty int) error {
	if shoeID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "shoe id required")
	}
	if strings.TrimSpace(size) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "size required")
	}
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	affected, err := s.repo.Deduct(ctx, shoeID, size, qty)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deducting stock")
	}
	if affected > 0 {
		return nil
	}

	if _, err := s.repo.FindByShoeAndSize(ctx, shoeID, size); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "no stock row for this shoe and size")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking stock row")
	}
	return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock")
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, actor Actor) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock id required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "stock row not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting stock row")
	}
	if actor.UserID != uuid.Nil {
		s.recorder.Record(ctx, activity.Entry{
			UserID:     actor.UserID,
			Action:     activity.ActionDelete,
			EntityType: "stock",
			EntityID:   &id,
			IPAddress:  actor.IPAddress,
			UserAgent:  actor.UserAgent,
		})
	}
	return nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]models.Stock, int64, error) {
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing stock")
	}
	return rows, total, nil
}

func (s *service) ByShoe(ctx context.Context, shoeID uuid.UUID) ([]models.Stock, error) {
	if shoeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shoe id required")
	}
	rows, err := s.repo.ListByShoe(ctx, shoeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing stock by shoe")
	}
	return rows, nil
}

func (s *service) LowStock(ctx context.Context, threshold int) ([]LowStockItem, error) {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	items, err := s.repo.LowStock(ctx, threshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing low stock")
	}
	return items, nil
}

func (s *service) record(ctx context.Context, actor Actor, action string, id uuid.UUID, input AddInput) {
	if actor.UserID == uuid.Nil {
		return
	}
	description := fmt.Sprintf("added %d to stock %s/%s", input.Quantity, input.ShoeID, input.Size)
	s.recorder.Record(ctx, activity.Entry{
		UserID:      actor.UserID,
		Action:      action,
		EntityType:  "stock",
		EntityID:    &id,
		Description: &description,
		IPAddress:   actor.IPAddress,
		UserAgent:   actor.UserAgent,
	})
}

func validateAdd(input AddInput) error {
	if input.ShoeID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "shoe id required")
	}
	if strings.TrimSpace(input.Size) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "size required")
	}
	if input.Quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	return nil
}
