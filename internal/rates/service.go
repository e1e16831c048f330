package rates

import (
	"context"
	"errors"
	"fmt"

	"github.com/dashty/shoe-store-backend/internal/activity"
	"github.com/dashty/shoe-store-backend/pkg/db/models"
	pkgerrors "github.com/dashty/shoe-store-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultRate applies while the history table is empty.
var DefaultRate = decimal.NewFromInt(1300)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 50
)

// SetInput records a new current rate.
type SetInput struct {
	Rate      decimal.Decimal
	UserID    uuid.UUID
	IPAddress *string
	UserAgent *string
}

type service struct {
	repo     Repository
	recorder *activity.Recorder
}

// ServiceParams collects the rate service dependencies.
type ServiceParams struct {
	Repo     Repository
	Recorder *activity.Recorder
}

// NewService builds the exchange rate service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("rates repository required")
	}
	return &service{repo: params.Repo, recorder: params.Recorder}, nil
}

func (s *service) Current(ctx context.Context) (decimal.Decimal, error) {
	latest, err := s.repo.Latest(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DefaultRate, nil
		}
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading current rate")
	}
	return latest.Rate, nil
}

func (s *service) Set(ctx context.Context, input SetInput) (*models.ExchangeRate, error) {
	if input.Rate.IsNegative() || input.Rate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rate must be positive")
	}

	latest, err := s.repo.Latest(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading current rate")
	}
	// unchanged rate does not grow the history
	if latest != nil && latest.Rate.Equal(input.Rate) {
		return latest, nil
	}

	created, err := s.repo.Create(ctx, &models.ExchangeRate{Rate: input.Rate})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving exchange rate")
	}

	if input.UserID != uuid.Nil {
		description := fmt.Sprintf("set exchange rate to %s", input.Rate)
		s.recorder.Record(ctx, activity.Entry{
			UserID:      input.UserID,
			Action:      activity.ActionUpdate,
			EntityType:  "exchange_rate",
			EntityID:    &created.ID,
			Description: &description,
			IPAddress:   input.IPAddress,
			UserAgent:   input.UserAgent,
		})
	}
	return created, nil
}

func (s *service) History(ctx context.Context, limit int) ([]models.ExchangeRate, error) {
	if limit <= 0 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}
	history, err := s.repo.History(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading rate history")
	}
	return history, nil
}
