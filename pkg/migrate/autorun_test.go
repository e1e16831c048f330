package migrate

import (
	"context"
	"io"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dashty/shoe-store-backend/pkg/config"
	"github.com/dashty/shoe-store-backend/pkg/db"
	"github.com/dashty/shoe-store-backend/pkg/logger"
)

func TestMaybeRunDevSQLiteUsesAutoMigrate(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	cfg := &config.Config{
		App:          config.AppConfig{Env: config.AppEnvDev},
		FeatureFlags: config.FeatureFlagsConfig{AutoMigrate: true, UseSQLite: true},
	}
	logg := logger.New(logger.Options{ServiceName: "migrate-test", Output: io.Discard})

	if err := MaybeRunDev(context.Background(), cfg, logg, db.NewWithConn(conn)); err != nil {
		t.Fatalf("dev auto-run on sqlite: %v", err)
	}

	for _, table := range []string{"users", "shoes", "stocks", "sales", "supplier_payments"} {
		if !conn.Migrator().HasTable(table) {
			t.Fatalf("expected table %q after auto-run", table)
		}
	}
}

func TestMaybeRunDevSkippedOutsideDev(t *testing.T) {
	cfg := &config.Config{
		App:          config.AppConfig{Env: config.AppEnvProd},
		FeatureFlags: config.FeatureFlagsConfig{AutoMigrate: true},
	}
	logg := logger.New(logger.Options{ServiceName: "migrate-test", Output: io.Discard})

	if err := MaybeRunDev(context.Background(), cfg, logg, nil); err != nil {
		t.Fatalf("expected a no-op outside dev, got %v", err)
	}
}
