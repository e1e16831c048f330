package shoes

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dashty/shoe-store-backend/internal/activity"
	"github.com/dashty/shoe-store-backend/pkg/db/models"
	pkgerrors "github.com/dashty/shoe-store-backend/pkg/errors"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	minSize = 38
	maxSize = 48
)

type imageDeleter interface {
	Delete(ctx context.Context, reference string) error
}

type service struct {
	repo     Repository
	recorder *activity.Recorder
	images   imageDeleter
}

// ServiceParams collects the shoe service dependencies.
type ServiceParams struct {
	Repo     Repository
	Recorder *activity.Recorder
	Images   imageDeleter
}

// NewService builds the shoe catalog service. Images is optional.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("shoes repository required")
	}
	return &service{
		repo:     params.Repo,
		recorder: params.Recorder,
		images:   params.Images,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Shoe, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	if existing, err := s.repo.FindBySKU(ctx, input.SKU); err == nil && existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a shoe with this SKU already exists")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking SKU uniqueness")
	}

	shoe := &models.Shoe{
		Name:        strings.TrimSpace(input.Name),
		Brand:       strings.TrimSpace(input.Brand),
		Category:    input.Category,
		Sizes:       models.StringList(input.Sizes),
		Price:       input.Price,
		CostPrice:   input.CostPrice,
		SKU:         strings.TrimSpace(input.SKU),
		Description: input.Description,
		ImageURL:    input.ImageURL,
	}

	created, err := s.repo.Create(ctx, shoe)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating shoe")
	}

	s.record(ctx, input.Actor, activity.ActionCreate, created.ID, created.Name)
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Shoe, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shoe id required")
	}

	shoe, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shoe not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading shoe")
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		shoe.Name = strings.TrimSpace(*input.Name)
	}
	if input.Brand != nil {
		if strings.TrimSpace(*input.Brand) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand cannot be empty")
		}
		shoe.Brand = strings.TrimSpace(*input.Brand)
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid shoe category")
		}
		shoe.Category = *input.Category
	}
	if input.Sizes != nil {
		if err := validateSizes(input.Sizes); err != nil {
			return nil, err
		}
		shoe.Sizes = models.StringList(input.Sizes)
	}
	if input.Price != nil {
		if input.Price.IsNegative() || input.Price.IsZero() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		shoe.Price = *input.Price
	}
	if input.CostPrice != nil {
		if input.CostPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost price cannot be negative")
		}
		shoe.CostPrice = *input.CostPrice
	}
	if input.Description != nil {
		shoe.Description = input.Description
	}
	if input.ImageURL != nil {
		shoe.ImageURL = input.ImageURL
	}

	updated, err := s.repo.Update(ctx, shoe)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating shoe")
	}

	s.record(ctx, input.Actor, activity.ActionUpdate, updated.ID, updated.Name)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, actor Actor) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "shoe id required")
	}

	shoe, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "shoe not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading shoe")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "shoe not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting shoe")
	}

	// hosted image removal is best-effort
	if s.images != nil && shoe.ImageURL != nil && *shoe.ImageURL != "" {
		_ = s.images.Delete(ctx, *shoe.ImageURL)
	}

	s.record(ctx, actor, activity.ActionDelete, id, shoe.Name)
	return nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Shoe, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shoe id required")
	}
	shoe, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shoe not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading shoe")
	}
	return shoe, nil
}

func (s *service) List(ctx context.Context, filters Filters, params pagination.Params) ([]models.Shoe, int64, error) {
	if filters.Category != nil && !filters.Category.IsValid() {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid shoe category")
	}
	result, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing shoes")
	}
	return result, total, nil
}

func (s *service) record(ctx context.Context, actor Actor, action string, shoeID uuid.UUID, name string) {
	if actor.UserID == uuid.Nil {
		return
	}
	description := fmt.Sprintf("%s shoe %q", action, name)
	s.recorder.Record(ctx, activity.Entry{
		UserID:      actor.UserID,
		Action:      action,
		EntityType:  "shoe",
		EntityID:    &shoeID,
		Description: &description,
		IPAddress:   actor.IPAddress,
		UserAgent:   actor.UserAgent,
	})
}

func validateCreate(input CreateInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Brand) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "brand is required")
	}
	if !input.Category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid shoe category")
	}
	if strings.TrimSpace(input.SKU) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if input.Price.IsNegative() || input.Price.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if input.CostPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cost price cannot be negative")
	}
	return validateSizes(input.Sizes)
}

func validateSizes(sizes []string) error {
	seen := make(map[string]struct{}, len(sizes))
	for _, size := range sizes {
		value, err := strconv.Atoi(strings.TrimSpace(size))
		if err != nil || value < minSize || value > maxSize {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("size %q must be a number between %d and %d", size, minSize, maxSize))
		}
		if _, dup := seen[size]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate size %q", size))
		}
		seen[size] = struct{}{}
	}
	return nil
}
