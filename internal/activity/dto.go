package activity

import (
	"time"

	"github.com/google/uuid"
)

// Entry captures one auditable action before persistence.
type Entry struct {
	UserID      uuid.UUID
	Action      string
	EntityType  string
	EntityID    *uuid.UUID
	Description *string
	Metadata    map[string]any
	IPAddress   *string
	UserAgent   *string
}

// Filters describe the inputs supported by the activity log list.
type Filters struct {
	UserID     *uuid.UUID
	Action     string
	EntityType string
	DateFrom   *time.Time
	DateTo     *time.Time
}

// Common action verbs recorded across the API.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionLogin  = "login"
)
