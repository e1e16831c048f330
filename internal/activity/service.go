package activity

import (
	"context"
	"errors"
	"fmt"

	"github.com/dashty/shoe-store-backend/pkg/db/models"
	pkgerrors "github.com/dashty/shoe-store-backend/pkg/errors"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type service struct {
	repo Repository
}

// NewService builds the activity log read service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("activity repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filters Filters, params pagination.Params) ([]models.ActivityLog, int64, error) {
	logs, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing activity logs")
	}
	return logs, total, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.ActivityLog, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "activity log id required")
	}
	log, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "activity log not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading activity log")
	}
	return log, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.ActivityLog, int64, error) {
	if userID == uuid.Nil {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	return s.List(ctx, Filters{UserID: &userID}, params)
}
