package uploads

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/dashty/shoe-store-backend/internal/activity"
	"github.com/dashty/shoe-store-backend/pkg/config"
	pkgerrors "github.com/dashty/shoe-store-backend/pkg/errors"
	"github.com/dashty/shoe-store-backend/pkg/storage/cloudinary"
)

// Actor identifies who performed the upload, for the activity trail.
type Actor struct {
	UserID    uuid.UUID
	IPAddress *string
	UserAgent *string
}

// Result is the hosted location of an uploaded image.
type Result struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// Service exposes image upload operations.
type Service interface {
	Upload(ctx context.Context, data []byte, filename string, actor Actor) (Result, error)
	Delete(ctx context.Context, url string, actor Actor) error
}

type imageStore interface {
	Upload(ctx context.Context, data []byte, filename string) (*cloudinary.UploadResult, error)
	Delete(ctx context.Context, reference string) error
}

var allowedContentTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

type service struct {
	store    imageStore
	maxBytes int
	recorder *activity.Recorder
}

// ServiceParams collects the upload service dependencies.
type ServiceParams struct {
	Store    imageStore
	Upload   config.UploadConfig
	Recorder *activity.Recorder
}

// NewService builds the upload service.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("image store required")
	}
	maxMB := params.Upload.MaxUploadMB
	if maxMB <= 0 {
		maxMB = 5
	}
	return &service{
		store:    params.Store,
		maxBytes: maxMB << 20,
		recorder: params.Recorder,
	}, nil
}

// Upload validates size and sniffed content type, then hands the bytes to
// the image store. The declared filename is advisory only; the type check
// runs on the actual bytes.
func (s *service) Upload(ctx context.Context, data []byte, filename string, actor Actor) (Result, error) {
	if len(data) == 0 {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "empty file")
	}
	if len(data) > s.maxBytes {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file exceeds %d MB limit", s.maxBytes>>20))
	}
	contentType := http.DetectContentType(data)
	if _, ok := allowedContentTypes[contentType]; !ok {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation,
			"only JPEG, PNG and WebP images are accepted")
	}

	uploaded, err := s.store.Upload(ctx, data, filename)
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "uploading image")
	}

	s.record(ctx, actor, activity.ActionCreate,
		fmt.Sprintf("uploaded image %s", uploaded.PublicID))
	return Result{URL: uploaded.SecureURL, PublicID: uploaded.PublicID}, nil
}

// Delete removes a hosted image. Failures are reported but the caller may
// treat them as best-effort.
func (s *service) Delete(ctx context.Context, url string, actor Actor) error {
	if url == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "url required")
	}
	if err := s.store.Delete(ctx, url); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting image")
	}
	s.record(ctx, actor, activity.ActionDelete, "deleted hosted image")
	return nil
}

func (s *service) record(ctx context.Context, actor Actor, action, description string) {
	if actor.UserID == uuid.Nil {
		return
	}
	s.recorder.Record(ctx, activity.Entry{
		UserID:      actor.UserID,
		Action:      action,
		EntityType:  "image",
		Description: &description,
		IPAddress:   actor.IPAddress,
		UserAgent:   actor.UserAgent,
	})
}
