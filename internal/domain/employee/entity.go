package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID               string
	CompanyID        string
	FullName         string
	Position         *string
	Department       *string
	Role             Role
	SalaryType       string // raw label from the directory, possibly localized
	BaseSalary       decimal.Decimal
	DeductionProfile DeductionProfile
	Active           bool
	EmploymentStatus EmploymentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

type EmploymentStatus string

const (
	EmploymentStatusActive   EmploymentStatus = "active"
	EmploymentStatusResigned EmploymentStatus = "resigned"
)

// SalaryType is the canonical pay basis after label normalization.
type SalaryType string

const (
	SalaryTypeMonthly SalaryType = "monthly"
	SalaryTypeDaily   SalaryType = "daily"
)

// DeductionProfile selects which statutory deductions apply to an employee.
type DeductionProfile string

const (
	DeductionProfileNone   DeductionProfile = "none"
	DeductionProfileSSO    DeductionProfile = "sso"
	DeductionProfileTax    DeductionProfile = "tax"
	DeductionProfileSSOTax DeductionProfile = "sso_tax"
)

// WantsSSO reports whether the profile includes the social contribution.
func (p DeductionProfile) WantsSSO() bool {
	return p == DeductionProfileSSO || p == DeductionProfileSSOTax
}

// WantsTax reports whether the profile includes withholding tax.
func (p DeductionProfile) WantsTax() bool {
	return p == DeductionProfileTax || p == DeductionProfileSSOTax
}
