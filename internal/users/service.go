package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dashty/shoe-store-backend/internal/activity"
	"github.com/dashty/shoe-store-backend/internal/sales"
	"github.com/dashty/shoe-store-backend/pkg/config"
	"github.com/dashty/shoe-store-backend/pkg/db"
	"github.com/dashty/shoe-store-backend/pkg/db/models"
	"github.com/dashty/shoe-store-backend/pkg/enums"
	pkgerrors "github.com/dashty/shoe-store-backend/pkg/errors"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
	"github.com/dashty/shoe-store-backend/pkg/security"
)

const minPasswordLength = 6

type service struct {
	repo     Repository
	sales    sales.Service
	password config.PasswordConfig
	recorder *activity.Recorder
}

// ServiceParams collects the user service dependencies.
type ServiceParams struct {
	Repo     Repository
	Sales    sales.Service
	Password config.PasswordConfig
	Recorder *activity.Recorder
}

// NewService builds the user service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if params.Sales == nil {
		return nil, fmt.Errorf("sales service required")
	}
	return &service{
		repo:     params.Repo,
		sales:    params.Sales,
		password: params.Password,
		recorder: params.Recorder,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (View, error) {
	if strings.TrimSpace(input.Name) == "" {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if !ValidPhone(input.PhoneNumber) {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid phone number")
	}
	if len(input.Password) < minPasswordLength {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	role := input.Role
	if role == "" {
		role = enums.RoleUser
	}
	if !role.IsValid() {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown role")
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user, err := s.repo.Create(ctx, &models.User{
		Name:         strings.TrimSpace(input.Name),
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return View{}, pkgerrors.New(pkgerrors.CodeConflict, "phone number already registered")
		}
		return View{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating user")
	}

	s.record(ctx, input.Actor, activity.ActionCreate, user.ID,
		fmt.Sprintf("created user %q", user.Name))
	return ToView(user), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (View, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return View{}, pkgerrors.New(pkgerrors.CodeValidation, "name required")
		}
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.PhoneNumber != nil {
		if !ValidPhone(*input.PhoneNumber) {
			return View{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid phone number")
		}
		user.PhoneNumber = *input.PhoneNumber
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return View{}, pkgerrors.New(pkgerrors.CodeConflict, "phone number already registered")
		}
		return View{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating user")
	}

	s.record(ctx, input.Actor, activity.ActionUpdate, user.ID,
		fmt.Sprintf("updated user %q", user.Name))
	return ToView(user), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, actor Actor) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if actor.UserID == id {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot delete your own account")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting user")
	}
	s.record(ctx, actor, activity.ActionDelete, id, "deleted user")
	return nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (View, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	return ToView(user), nil
}

func (s *service) List(ctx context.Context, search string, params pagination.Params) ([]View, int64, error) {
	rows, total, err := s.repo.List(ctx, strings.TrimSpace(search), params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing users")
	}
	views := make([]View, 0, len(rows))
	for i := range rows {
		views = append(views, ToView(&rows[i]))
	}
	return views, total, nil
}

func (s *service) SetActive(ctx context.Context, id uuid.UUID, active bool, actor Actor) (View, error) {
	if actor.UserID == id && !active {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "cannot deactivate your own account")
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	if user.IsActive != active {
		user.IsActive = active
		if err := s.repo.Update(ctx, user); err != nil {
			return View{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating user")
		}
	}

	description := "activated user"
	if !active {
		description = "deactivated user"
	}
	s.record(ctx, actor, activity.ActionUpdate, user.ID, description)
	return ToView(user), nil
}

func (s *service) SetRole(ctx context.Context, id uuid.UUID, role enums.Role, actor Actor) (View, error) {
	if !role.IsValid() {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown role")
	}
	if actor.UserID == id && role != enums.RoleAdmin {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "cannot demote your own account")
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	if user.Role != role {
		user.Role = role
		if err := s.repo.Update(ctx, user); err != nil {
			return View{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating user")
		}
	}

	s.record(ctx, actor, activity.ActionUpdate, user.ID,
		fmt.Sprintf("set role to %s", role))
	return ToView(user), nil
}

func (s *service) StatsFor(ctx context.Context, id uuid.UUID) (WithStats, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return WithStats{}, err
	}
	stats, err := s.sales.StatsForUser(ctx, user.ID)
	if err != nil {
		return WithStats{}, err
	}
	return WithStats{User: ToView(user), Stats: stats}, nil
}

func (s *service) ListWithStats(ctx context.Context, params pagination.Params) ([]WithStats, int64, error) {
	rows, total, err := s.repo.List(ctx, "", params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing users")
	}
	result := make([]WithStats, 0, len(rows))
	for i := range rows {
		stats, err := s.sales.StatsForUser(ctx, rows[i].ID)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, WithStats{User: ToView(&rows[i]), Stats: stats})
	}
	return result, total, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	return user, nil
}

func (s *service) record(ctx context.Context, actor Actor, action string, userID uuid.UUID, description string) {
	if actor.UserID == uuid.Nil {
		return
	}
	entityID := userID
	s.recorder.Record(ctx, activity.Entry{
		UserID:      actor.UserID,
		Action:      action,
		EntityType:  "user",
		EntityID:    &entityID,
		Description: &description,
		IPAddress:   actor.IPAddress,
		UserAgent:   actor.UserAgent,
	})
}
