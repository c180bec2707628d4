package postgresql

import (
	"context"
	"fmt"

	"github.com/wagewise-hr/payroll-backend-go/internal/domain/employee"
	"github.com/wagewise-hr/payroll-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

// GetByCompanyID returns the full directory for a company, unfiltered. The
// payroll service owns eligibility filtering so the rules live in one place.
func (r *employeeRepository) GetByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, full_name, position, department, role,
			   salary_type, base_salary, deduction_profile, active,
			   employment_status, created_at, updated_at
		FROM employees
		WHERE company_id = $1
		ORDER BY full_name, id
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var e employee.Employee
		err := rows.Scan(
			&e.ID, &e.CompanyID, &e.FullName, &e.Position, &e.Department, &e.Role,
			&e.SalaryType, &e.BaseSalary, &e.DeductionProfile, &e.Active,
			&e.EmploymentStatus, &e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}
