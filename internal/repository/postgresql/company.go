package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wagewise-hr/payroll-backend-go/internal/domain/company"
	"github.com/wagewise-hr/payroll-backend-go/internal/pkg/database"
)

type companyRepository struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) GetByID(ctx context.Context, companyID string) (company.Company, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, timezone_offset_hours, created_at, updated_at
		FROM companies
		WHERE id = $1
	`

	var c company.Company
	err := q.QueryRow(ctx, query, companyID).Scan(
		&c.ID, &c.Name, &c.TimezoneOffsetHours, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, fmt.Errorf("failed to get company: %w", err)
	}

	return c, nil
}

// GetDeductionRule returns the company late-penalty rule. Companies without a
// configured rule fall back to the zero rule, which charges nothing.
func (r *companyRepository) GetDeductionRule(ctx context.Context, companyID string) (company.DeductionRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT grace_period_minutes, deduction_per_minute, max_deduction
		FROM company_deduction_rules
		WHERE company_id = $1
	`

	var rule company.DeductionRule
	err := q.QueryRow(ctx, query, companyID).Scan(
		&rule.GracePeriodMinutes, &rule.DeductionPerMinute, &rule.MaxDeduction,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return company.DefaultDeductionRule(), nil
		}
		return company.DeductionRule{}, fmt.Errorf("failed to get deduction rule: %w", err)
	}

	return rule, nil
}
