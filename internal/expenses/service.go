package expenses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

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
	now      func() time.Time
}

// ServiceParams collects the expense service dependencies.
type ServiceParams struct {
	Repo     Repository
	Recorder *activity.Recorder
}

// NewService builds the expense service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("expense repository required")
	}
	return &service{
		repo:     params.Repo,
		recorder: params.Recorder,
		now:      time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Expense, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}
	if input.Amount.IsNegative() || input.Amount.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown expense category")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown expense type")
	}

	date := input.Date
	if date.IsZero() {
		date = s.now()
	}

	expense, err := s.repo.Create(ctx, &models.Expense{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Amount:      input.Amount,
		Category:    input.Category,
		Type:        input.Type,
		Date:        date,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating expense")
	}

	s.record(ctx, input.Actor, activity.ActionCreate, expense.ID,
		fmt.Sprintf("added expense %q (%s)", expense.Title, expense.Amount))
	return expense, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Expense, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expense id required")
	}

	expense, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "expense not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading expense")
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
		}
		expense.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		expense.Description = input.Description
	}
	if input.Amount != nil {
		if input.Amount.IsNegative() || input.Amount.IsZero() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
		}
		expense.Amount = *input.Amount
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown expense category")
		}
		expense.Category = *input.Category
	}
	if input.Type != nil {
		if !input.Type.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown expense type")
		}
		expense.Type = *input.Type
	}
	if input.Date != nil {
		expense.Date = *input.Date
	}

	if err := s.repo.Update(ctx, expense); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating expense")
	}

	s.record(ctx, input.Actor, activity.ActionUpdate, expense.ID,
		fmt.Sprintf("updated expense %q", expense.Title))
	return expense, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, actor Actor) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "expense id required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "expense not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting expense")
	}
	s.record(ctx, actor, activity.ActionDelete, id, "deleted expense")
	return nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expense id required")
	}
	expense, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "expense not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading expense")
	}
	return expense, nil
}

func (s *service) List(ctx context.Context, filters Filters, params pagination.Params) ([]models.Expense, int64, error) {
	rows, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing expenses")
	}
	return rows, total, nil
}

func (s *service) StatsByRange(ctx context.Context, from, to time.Time) (RangeStats, error) {
	if !to.After(from) {
		return RangeStats{}, pkgerrors.New(pkgerrors.CodeValidation, "range end must be after start")
	}
	return s.stats(ctx, &from, &to)
}

func (s *service) TodayStats(ctx context.Context) (RangeStats, error) {
	from := startOfDay(s.now())
	to := from.AddDate(0, 0, 1)
	return s.stats(ctx, &from, &to)
}

func (s *service) MonthStats(ctx context.Context) (RangeStats, error) {
	now := s.now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, 0)
	return s.stats(ctx, &from, &to)
}

func (s *service) stats(ctx context.Context, from, to *time.Time) (RangeStats, error) {
	total, count, err := s.repo.Aggregate(ctx, from, to)
	if err != nil {
		return RangeStats{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregating expenses")
	}
	byCategory, err := s.repo.TotalsByCategory(ctx, from, to)
	if err != nil {
		return RangeStats{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "grouping by category")
	}
	byType, err := s.repo.TotalsByType(ctx, from, to)
	if err != nil {
		return RangeStats{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "grouping by type")
	}
	return RangeStats{
		Total:      total,
		Count:      count,
		ByCategory: byCategory,
		ByType:     byType,
	}, nil
}

func (s *service) record(ctx context.Context, actor Actor, action string, expenseID uuid.UUID, description string) {
	if actor.UserID == uuid.Nil {
		return
	}
	entityID := expenseID
	s.recorder.Record(ctx, activity.Entry{
		UserID:      actor.UserID,
		Action:      action,
		EntityType:  "expense",
		EntityID:    &entityID,
		Description: &description,
		IPAddress:   actor.IPAddress,
		UserAgent:   actor.UserAgent,
	})
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
