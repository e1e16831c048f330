package activity

import (
	"context"
	"encoding/json"

	"github.com/dashty/shoe-store-backend/pkg/db/models"
	"github.com/dashty/shoe-store-backend/pkg/logger"
	"github.com/google/uuid"
)

// Recorder appends audit rows without ever failing the caller. Persistence
// errors are logged and swallowed.
type Recorder struct {
	repo Repository
	logg *logger.Logger
}

// NewRecorder builds a best-effort activity recorder.
func NewRecorder(repo Repository, logg *logger.Logger) *Recorder {
	return &Recorder{repo: repo, logg: logg}
}

// Record persists the entry. Safe to call on a nil recorder.
func (r *Recorder) Record(ctx context.Context, entry Entry) {
	if r == nil || r.repo == nil {
		return
	}
	if entry.UserID == uuid.Nil || entry.Action == "" || entry.EntityType == "" {
		return
	}

	var metadata json.RawMessage
	if len(entry.Metadata) > 0 {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			if r.logg != nil {
				r.logg.Warn(ctx, "activity metadata not serializable")
			}
		} else {
			metadata = raw
		}
	}

	log := &models.ActivityLog{
		UserID:      entry.UserID,
		Action:      entry.Action,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Description: entry.Description,
		Metadata:    metadata,
		IPAddress:   entry.IPAddress,
		UserAgent:   entry.UserAgent,
	}

	if _, err := r.repo.Create(ctx, log); err != nil && r.logg != nil {
		r.logg.Error(ctx, "recording activity log failed", err)
	}
}
