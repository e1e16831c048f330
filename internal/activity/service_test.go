package activity

import (
	"context"
	"testing"
	"time"

	"github.com/dashty/shoe-store-backend/pkg/db/models"
	pkgerrors "github.com/dashty/shoe-store-backend/pkg/errors"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.ActivityLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Name:         "Dashty",
		PhoneNumber:  "07701234567",
		PasswordHash: "x",
		Role:         "admin",
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestRecorderPersistsEntry(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	repo := NewRepository(db)
	recorder := NewRecorder(repo, nil)
	ctx := context.Background()

	entityID := uuid.New()
	recorder.Record(ctx, Entry{
		UserID:     user.ID,
		Action:     ActionCreate,
		EntityType: "sale",
		EntityID:   &entityID,
		Metadata:   map[string]any{"quantity": 2},
	})

	var count int64
	if err := db.Model(&models.ActivityLog{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 log row, got %d", count)
	}
}

func TestRecorderSkipsIncompleteEntries(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	recorder := NewRecorder(repo, nil)

	recorder.Record(context.Background(), Entry{Action: ActionDelete, EntityType: "shoe"})

	var count int64
	if err := db.Model(&models.ActivityLog{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no rows for entry without user, got %d", count)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var recorder *Recorder
	recorder.Record(context.Background(), Entry{UserID: uuid.New(), Action: ActionCreate, EntityType: "shoe"})
}

func TestListFilters(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	other := &models.User{
		ID:           uuid.New(),
		Name:         "Aram",
		PhoneNumber:  "07709876543",
		PasswordHash: "x",
		Role:         "user",
		IsActive:     true,
	}
	if err := db.Create(other).Error; err != nil {
		t.Fatalf("seed second user: %v", err)
	}

	repo := NewRepository(db)
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	for i, entry := range []models.ActivityLog{
		{UserID: user.ID, Action: ActionCreate, EntityType: "sale"},
		{UserID: user.ID, Action: ActionDelete, EntityType: "sale"},
		{UserID: other.ID, Action: ActionCreate, EntityType: "shoe"},
	} {
		if _, err := repo.Create(ctx, &entry); err != nil {
			t.Fatalf("seed log %d: %v", i, err)
		}
	}

	logs, total, err := svc.List(ctx, Filters{UserID: &user.ID}, pagination.Params{})
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if total != 2 || len(logs) != 2 {
		t.Fatalf("expected 2 logs for user, got total=%d len=%d", total, len(logs))
	}

	logs, total, err = svc.List(ctx, Filters{Action: ActionCreate}, pagination.Params{})
	if err != nil {
		t.Fatalf("list by action: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 create logs, got %d", total)
	}

	future := time.Now().Add(time.Hour)
	_, total, err = svc.List(ctx, Filters{DateFrom: &future}, pagination.Params{})
	if err != nil {
		t.Fatalf("list by date: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected no logs in the future, got %d", total)
	}

	_ = logs
}

func TestGetByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.GetByID(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected not found error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
