package response

import (
	"errors"
	"net/http"

	"github.com/wagewise-hr/payroll-backend-go/internal/domain/auth"
	"github.com/wagewise-hr/payroll-backend-go/internal/domain/company"
	"github.com/wagewise-hr/payroll-backend-go/internal/domain/employee"
	"github.com/wagewise-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/wagewise-hr/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// An overpayment carries amounts the caller needs to correct the request.
	var overpay *payroll.OverpaymentError
	if errors.As(err, &overpay) {
		BadRequest(w, "Payment exceeds remaining payable amount", map[string]string{
			"attempted": overpay.Attempted.StringFixed(2),
			"remaining": overpay.Remaining.StringFixed(2),
		})
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrCycleNotFound):
		NotFound(w, "Payroll cycle not found")
	case errors.Is(err, payroll.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")
	case errors.Is(err, payroll.ErrCycleLocked):
		Conflict(w, "Payroll cycle is locked")
	case errors.Is(err, payroll.ErrPayslipLocked):
		Conflict(w, "Payslip is locked")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid period, must be one of: full, first, second", nil)
	case errors.Is(err, payroll.ErrInvalidMonth):
		BadRequest(w, "Invalid month, expected YYYY-MM", nil)
	case errors.Is(err, payroll.ErrNoEligibleEmployees):
		BadRequest(w, "No eligible employees for this cycle", nil)

	// Directory errors
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
