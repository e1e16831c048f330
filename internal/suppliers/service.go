package suppliers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dashty/shoe-store-backend/internal/activity"
	"github.com/dashty/shoe-store-backend/pkg/db/models"
	pkgerrors "github.com/dashty/shoe-store-backend/pkg/errors"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
)

type service struct {
	repo     Repository
	recorder *activity.Recorder
}

// ServiceParams collects the supplier service dependencies.
type ServiceParams struct {
	Repo     Repository
	Recorder *activity.Recorder
}

// NewService builds the supplier service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("supplier repository required")
	}
	return &service{repo: params.Repo, recorder: params.Recorder}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Supplier, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}

	supplier, err := s.repo.Create(ctx, &models.Supplier{
		Name:    strings.TrimSpace(input.Name),
		Contact: input.Contact,
		Address: input.Address,
		Notes:   input.Notes,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating supplier")
	}

	s.record(ctx, input.Actor, activity.ActionCreate, supplier.ID,
		fmt.Sprintf("added supplier %q", supplier.Name))
	return supplier, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Supplier, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}

	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading supplier")
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
		}
		supplier.Name = strings.TrimSpace(*input.Name)
	}
	if input.Contact != nil {
		supplier.Contact = input.Contact
	}
	if input.Address != nil {
		supplier.Address = input.Address
	}
	if input.Notes != nil {
		supplier.Notes = input.Notes
	}

	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating supplier")
	}

	s.record(ctx, input.Actor, activity.ActionUpdate, supplier.ID,
		fmt.Sprintf("updated supplier %q", supplier.Name))
	return supplier, nil
}

// Delete removes the supplier; purchases and payments cascade at the database.
func (s *service) Delete(ctx context.Context, id uuid.UUID, actor Actor) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting supplier")
	}
	s.record(ctx, actor, activity.ActionDelete, id, "deleted supplier")
	return nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading supplier")
	}
	return supplier, nil
}

func (s *service) List(ctx context.Context, search string, params pagination.Params) ([]models.Supplier, int64, error) {
	rows, total, err := s.repo.List(ctx, strings.TrimSpace(search), params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing suppliers")
	}
	return rows, total, nil
}

func (s *service) Balance(ctx context.Context, id uuid.UUID) (Balance, error) {
	if id == uuid.Nil {
		return Balance{}, pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}
	balance, err := s.repo.BalanceFor(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Balance{}, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return Balance{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "computing balance")
	}
	return balance, nil
}

func (s *service) Balances(ctx context.Context) ([]Balance, error) {
	balances, err := s.repo.Balances(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "computing balances")
	}
	return balances, nil
}

func (s *service) record(ctx context.Context, actor Actor, action string, supplierID uuid.UUID, description string) {
	if actor.UserID == uuid.Nil {
		return
	}
	entityID := supplierID
	s.recorder.Record(ctx, activity.Entry{
		UserID:      actor.UserID,
		Action:      action,
		EntityType:  "supplier",
		EntityID:    &entityID,
		Description: &description,
		IPAddress:   actor.IPAddress,
		UserAgent:   actor.UserAgent,
	})
}
