package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/wagewise-hr/payroll-backend-go/internal/pkg/database"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS companies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		timezone_offset_hours INT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS company_deduction_rules (
		company_id TEXT PRIMARY KEY,
		grace_period_minutes INT NOT NULL DEFAULT 0,
		deduction_per_minute NUMERIC NOT NULL DEFAULT 0,
		max_deduction NUMERIC NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		full_name TEXT NOT NULL,
		position TEXT,
		department TEXT,
		role TEXT NOT NULL DEFAULT 'employee',
		salary_type TEXT NOT NULL DEFAULT 'monthly',
		base_salary NUMERIC NOT NULL DEFAULT 0,
		deduction_profile TEXT NOT NULL DEFAULT 'none',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		employment_status TEXT NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS legacy_attendance_events (
		id BIGSERIAL PRIMARY KEY,
		company_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		record_date DATE NOT NULL,
		event_type TEXT NOT NULL,
		event_timestamp TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT '',
		late_minutes INT NOT NULL DEFAULT 0,
		ot_hours NUMERIC NOT NULL DEFAULT 0,
		retro_adjustments JSONB
	)`,
	`CREATE TABLE IF NOT EXISTS attendance_sessions (
		id BIGSERIAL PRIMARY KEY,
		company_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		record_date DATE NOT NULL,
		clock_in TEXT NOT NULL,
		clock_out TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		late_minutes INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS payroll_cycles (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		month TEXT NOT NULL,
		period TEXT NOT NULL,
		target TEXT NOT NULL DEFAULT '',
		sync_ot BOOLEAN NOT NULL DEFAULT FALSE,
		sync_deduct BOOLEAN NOT NULL DEFAULT FALSE,
		status TEXT NOT NULL DEFAULT 'draft',
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		summary JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS payroll_payslips (
		id TEXT PRIMARY KEY,
		cycle_id TEXT NOT NULL,
		company_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		employee_snapshot JSONB NOT NULL DEFAULT '{}',
		financials JSONB NOT NULL DEFAULT '{}',
		custom_items JSONB NOT NULL DEFAULT '[]',
		payments JSONB NOT NULL DEFAULT '[]',
		paid_amount NUMERIC NOT NULL DEFAULT 0,
		payment_status TEXT NOT NULL DEFAULT 'pending',
		logs_snapshot JSONB NOT NULL DEFAULT '[]',
		work_days INT NOT NULL DEFAULT 0,
		total_ot_hours NUMERIC NOT NULL DEFAULT 0,
		total_late_mins INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// newTestDatabase connects to the test database and ensures the schema
// exists. Tests skip when TEST_DATABASE_URL is not set.
func newTestDatabase(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(db.Close)

	ctx := context.Background()
	for _, stmt := range schemaStatements {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			t.Fatalf("failed to create schema: %v", err)
		}
	}

	return db
}

func truncateAllTables(t *testing.T, db *database.DB) {
	t.Helper()

	tables := []string{
		"companies",
		"company_deduction_rules",
		"employees",
		"legacy_attendance_events",
		"attendance_sessions",
		"payroll_cycles",
		"payroll_payslips",
	}

	ctx := context.Background()
	for _, table := range tables {
		if _, err := db.Pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			t.Fatalf("failed to truncate table %s: %v", table, err)
		}
	}
}
