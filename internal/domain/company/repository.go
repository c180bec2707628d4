package company

import "context"

type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (Company, error)
	// GetDeductionRule returns the company's late-penalty configuration.
	// Implementations fall back to DefaultDeductionRule when unset.
	GetDeductionRule(ctx context.Context, companyID string) (DeductionRule, error)
}
