package migrate

import "testing"

func TestValidateDir(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir failed validation: %v", err)
	}
}

func TestValidateDirRejectsMissingDir(t *testing.T) {
	if err := ValidateDir("no-such-dir"); err == nil {
		t.Fatal("expected error for missing dir")
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add supplier notes")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if path == "" {
		t.Fatal("expected migration path")
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("created migration failed validation: %v", err)
	}
}

func TestCreateSQLMigrationRejectsEmptyName(t *testing.T) {
	if _, err := CreateSQLMigration(t.TempDir(), "!!!"); err == nil {
		t.Fatal("expected error for name with no usable characters")
	}
}
