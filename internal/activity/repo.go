package activity

import (
	"context"

	"github.com/dashty/shoe-store-backend/pkg/db/models"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an activity log repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, log *models.ActivityLog) (*models.ActivityLog, error) {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return nil, err
	}
	return log, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ActivityLog, error) {
	var log models.ActivityLog
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *repository) List(ctx context.Context, filters Filters, params pagination.Params) ([]models.ActivityLog, int64, error) {
	params = params.Normalize()

	query := r.db.WithContext(ctx).Model(&models.ActivityLog{})
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.Action != "" {
		query = query.Where("action = ?", filters.Action)
	}
	if filters.EntityType != "" {
		query = query.Where("entity_type = ?", filters.EntityType)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.ActivityLog
	err := query.
		Order("created_at DESC").
		Offset(params.Skip).
		Limit(params.Take).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
