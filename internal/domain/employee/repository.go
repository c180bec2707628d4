package employee

import "context"

type EmployeeRepository interface {
	GetByCompanyID(ctx context.Context, companyID string) ([]Employee, error)
}
