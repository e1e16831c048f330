package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestStringListSQLiteRoundTrip(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&Shoe{}); err != nil {
		t.Fatalf("migrate shoe: %v", err)
	}

	shoe := &Shoe{
		ID:        uuid.New(),
		Name:      "Runner Pro",
		Brand:     "Asics",
		Category:  "men",
		Sizes:     StringList{"41", "42", "43"},
		Price:     decimal.NewFromInt(130000),
		CostPrice: decimal.NewFromInt(60),
		SKU:       "ASC-RUN-001",
	}
	if err := conn.Create(shoe).Error; err != nil {
		t.Fatalf("create shoe: %v", err)
	}

	var loaded Shoe
	if err := conn.First(&loaded, "id = ?", shoe.ID).Error; err != nil {
		t.Fatalf("load shoe: %v", err)
	}
	if len(loaded.Sizes) != 3 {
		t.Fatalf("expected 3 sizes, got %d", len(loaded.Sizes))
	}
	for i, want := range []string{"41", "42", "43"} {
		if loaded.Sizes[i] != want {
			t.Fatalf("size %d: expected %q, got %q", i, want, loaded.Sizes[i])
		}
	}
}

func TestStringListEmptyValue(t *testing.T) {
	var list StringList

	value, err := list.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if value != "{}" {
		t.Fatalf("expected empty array literal for nil list, got %v", value)
	}

	var scanned StringList
	if err := scanned.Scan([]byte("{40,41}")); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(scanned) != 2 || scanned[0] != "40" || scanned[1] != "41" {
		t.Fatalf("unexpected scan result: %v", scanned)
	}
}
