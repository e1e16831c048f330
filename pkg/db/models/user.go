package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dashty/shoe-store-backend/pkg/enums"
)

// User is a back-office account that signs in with a phone number.
type User struct {
	ID               uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Name             string     `gorm:"column:name;not null"`
	PhoneNumber      string     `gorm:"column:phone_number;not null;uniqueIndex"`
	PasswordHash     string     `gorm:"column:password_hash;not null"`
	Role             enums.Role `gorm:"column:role;not null;default:user"`
	IsActive         bool       `gorm:"column:is_active;not null;default:true"`
	ResetToken       *string    `gorm:"column:reset_token;index"`
	ResetTokenExpiry *time.Time `gorm:"column:reset_token_expiry"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
