package users

import (
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/dashty/shoe-store-backend/internal/sales"
	"github.com/dashty/shoe-store-backend/pkg/db/models"
	"github.com/dashty/shoe-store-backend/pkg/enums"
)

// phonePattern matches Iraqi local numbers: a leading zero then 9 or 10 digits.
var phonePattern = regexp.MustCompile(`^0\d{9,10}$`)

// ValidPhone reports whether the value is an acceptable phone number.
func ValidPhone(value string) bool {
	return phonePattern.MatchString(value)
}

// Actor identifies who performed a mutation, for the activity trail.
type Actor struct {
	UserID    uuid.UUID
	IPAddress *string
	UserAgent *string
}

// CreateInput carries a new user account.
type CreateInput struct {
	Name        string
	PhoneNumber string
	Password    string
	Role        enums.Role
	Actor       Actor
}

// UpdateInput carries a partial user update. Nil fields stay untouched.
type UpdateInput struct {
	Name        *string
	PhoneNumber *string
	Actor       Actor
}

// View is the safe external shape of a user. The password hash and reset
// token never leave the service.
type View struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	PhoneNumber string     `json:"phoneNumber"`
	Role        enums.Role `json:"role"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ToView strips credentials from a user row.
func ToView(user *models.User) View {
	return View{
		ID:          user.ID,
		Name:        user.Name,
		PhoneNumber: user.PhoneNumber,
		Role:        user.Role,
		IsActive:    user.IsActive,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

// WithStats pairs a user with their sales figures.
type WithStats struct {
	User  View            `json:"user"`
	Stats sales.UserStats `json:"stats"`
}
