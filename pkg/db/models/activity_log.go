package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ActivityLog is an append-only audit row for user actions.
type ActivityLog struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserID      uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	Action      string          `gorm:"column:action;not null;index"`
	EntityType  string          `gorm:"column:entity_type;not null;index"`
	EntityID    *uuid.UUID      `gorm:"column:entity_id;type:uuid"`
	Description *string         `gorm:"column:description"`
	Metadata    json.RawMessage `gorm:"column:metadata;type:jsonb"`
	IPAddress   *string         `gorm:"column:ip_address"`
	UserAgent   *string         `gorm:"column:user_agent"`
	User        *User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime;index"`
}
