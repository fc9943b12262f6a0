package database

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func TestGetServiceMigrations_API(t *testing.T) {
	migrations := getServiceMigrations("api")
	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations for api, got %d", len(migrations))
	}
	if !strings.Contains(migrations[0], "users") || !strings.Contains(migrations[1], "meals") {
		t.Error("expected users then meals tables")
	}
}

func TestGetServiceMigrations_Analytics(t *testing.T) {
	migrations := getServiceMigrations("analytics")
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations for analytics, got %d", len(migrations))
	}
	if !strings.Contains(migrations[1], "meal_metrics") {
		t.Error("expected meal_metrics table")
	}
}

func TestGetServiceMigrations_Audit(t *testing.T) {
	migrations := getServiceMigrations("audit")
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations for audit, got %d", len(migrations))
	}
	if !strings.Contains(migrations[1], "account_audit_log") {
		t.Error("expected account_audit_log table")
	}
}

func TestGetServiceMigrations_Default(t *testing.T) {
	migrations := getServiceMigrations("unknown")
	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations for unknown (default), got %d", len(migrations))
	}
}

func TestMigrationsArePortable(t *testing.T) {
	for _, service := range []string{"api", "analytics", "audit"} {
		for _, m := range getServiceMigrations(service) {
			for _, dialectOnly := range []string{"SERIAL", "NOW()", "AUTOINCREMENT"} {
				if strings.Contains(m, dialectOnly) {
					t.Errorf("%s migration uses %s: %s", service, dialectOnly, m)
				}
			}
		}
	}
}

func TestRunMigrations(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer mockDB.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS idempotency_keys").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS account_audit_log").WillReturnResult(sqlmock.NewResult(0, 0))

	db := sqlx.NewDb(mockDB, "postgres")
	if err := RunMigrations(context.Background(), db, "audit"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer mockDB.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnError(sqlmock.ErrCancelled)

	db := sqlx.NewDb(mockDB, "postgres")
	err = RunMigrations(context.Background(), db, "api")
	if err == nil {
		t.Fatal("expected migration error")
	}
	if !strings.Contains(err.Error(), "migration 1 for api") {
		t.Errorf("unexpected error message: %v", err)
	}
}
