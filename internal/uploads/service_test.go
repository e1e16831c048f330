package uploads

import (
	"bytes"
	"context"
	"testing"

	"github.com/dashty/shoe-store-backend/pkg/config"
	pkgerrors "github.com/dashty/shoe-store-backend/pkg/errors"
	"github.com/dashty/shoe-store-backend/pkg/storage/cloudinary"
)

type fakeStore struct {
	uploaded []string
	deleted  []string
	fail     error
}

func (f *fakeStore) Upload(_ context.Context, _ []byte, filename string) (*cloudinary.UploadResult, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.uploaded = append(f.uploaded, filename)
	return &cloudinary.UploadResult{
		PublicID:  "shoe-store/abc123",
		SecureURL: "https://res.example.com/shoe-store/abc123.jpg",
	}, nil
}

func (f *fakeStore) Delete(_ context.Context, reference string) error {
	if f.fail != nil {
		return f.fail
	}
	f.deleted = append(f.deleted, reference)
	return nil
}

// jpegBytes is a minimal JFIF header; DetectContentType only needs the
// first bytes.
func jpegBytes(size int) []byte {
	data := make([]byte, size)
	copy(data, []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00})
	return data
}

func pngBytes() []byte {
	return append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}, bytes.Repeat([]byte{0}, 64)...)
}

func webpBytes() []byte {
	data := make([]byte, 64)
	copy(data, "RIFF")
	copy(data[8:], "WEBPVP8 ")
	return data
}

func newTestService(t *testing.T, store *fakeStore, maxMB int) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Store:  store,
		Upload: config.UploadConfig{MaxUploadMB: maxMB},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestUploadAcceptsSupportedFormats(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store, 5)
	ctx := context.Background()

	for name, data := range map[string][]byte{
		"jpeg": jpegBytes(128),
		"png":  pngBytes(),
		"webp": webpBytes(),
	} {
		result, err := svc.Upload(ctx, data, name+".img", Actor{})
		if err != nil {
			t.Fatalf("upload %s: %v", name, err)
		}
		if result.URL == "" {
			t.Fatalf("expected hosted url for %s", name)
		}
	}
	if len(store.uploaded) != 3 {
		t.Fatalf("expected 3 uploads, got %d", len(store.uploaded))
	}
}

func TestUploadRejectsOtherTypes(t *testing.T) {
	svc := newTestService(t, &fakeStore{}, 5)

	_, err := svc.Upload(context.Background(), []byte("%PDF-1.4 not an image"), "doc.pdf", Actor{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	svc := newTestService(t, &fakeStore{}, 1)

	_, err := svc.Upload(context.Background(), jpegBytes(2<<20), "big.jpg", Actor{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	svc := newTestService(t, &fakeStore{}, 5)

	_, err := svc.Upload(context.Background(), nil, "empty.jpg", Actor{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteForwardsToStore(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store, 5)

	url := "https://res.example.com/shoe-store/abc123.jpg"
	if err := svc.Delete(context.Background(), url, Actor{}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != url {
		t.Fatalf("expected delete forwarded, got %v", store.deleted)
	}
}
