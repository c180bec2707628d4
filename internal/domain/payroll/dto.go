package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/wagewise-hr/payroll-backend-go/internal/pkg/validator"
)

// ========== CYCLE DTOs ==========

type CreateCycleRequest struct {
	Month      string `json:"month"`  // "2006-01"
	Period     Period `json:"period"` // full | first | second
	Target     string `json:"target,omitempty"`
	SyncOT     bool   `json:"syncOT"`
	SyncDeduct bool   `json:"syncDeduct"`
}

func (r *CreateCycleRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be in YYYY-MM format"})
	}
	switch r.Period {
	case PeriodFull, PeriodFirst, PeriodSecond:
	default:
		errs = append(errs, validator.ValidationError{Field: "period", Message: "must be 'full', 'first' or 'second'"})
	}
	if r.Target != "" && !validator.IsInSlice(r.Target, []string{"monthly", "daily"}) {
		errs = append(errs, validator.ValidationError{Field: "target", Message: "must be 'monthly' or 'daily'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateCycleResponse struct {
	CycleID string `json:"cycleId"`
}

type DeleteCycleResponse struct {
	DeletedPayslipCount int `json:"deletedPayslipCount"`
}

// ========== PAYMENT DTOs ==========

type AddPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"` // "2006-01-02"
	Method string          `json:"method"`
	Note   string          `json:"note,omitempty"`
}

func (r *AddPaymentRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be positive"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be in YYYY-MM-DD format"})
	}
	if validator.IsEmpty(r.Method) {
		errs = append(errs, validator.ValidationError{Field: "method", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== VALIDATION DTOs ==========

// ValidationIssue flags one payslip whose attendance snapshot is missing
// days from the expected range. A diagnostic, not an error.
type ValidationIssue struct {
	PayslipID      string   `json:"payslipId"`
	EmployeeName   string   `json:"employeeName"`
	MissingDates   []string `json:"missingDates"`
	CompletionRate float64  `json:"completionRate"`
}

type ValidationReport struct {
	CycleID      string            `json:"cycleId"`
	IsValid      bool              `json:"isValid"`
	ExpectedDays int               `json:"expectedDays"`
	Issues       []ValidationIssue `json:"issues"`
}
