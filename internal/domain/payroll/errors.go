package payroll

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrCycleNotFound       = errors.New("payroll cycle not found")
	ErrCycleLocked         = errors.New("payroll cycle is locked")
	ErrPayslipNotFound     = errors.New("payslip not found")
	ErrPayslipLocked       = errors.New("payslip is locked")
	ErrInvalidPeriod       = errors.New("invalid payroll period")
	ErrInvalidMonth        = errors.New("invalid payroll month")
	ErrNoEligibleEmployees = errors.New("no eligible employees for this cycle")
)

// OverpaymentError rejects a payment that would push the paid total past the
// payslip's net. It carries both amounts so the caller can show the user how
// much is still payable.
type OverpaymentError struct {
	PayslipID string
	Attempted decimal.Decimal
	Remaining decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment of %s exceeds remaining payable %s on payslip %s",
		e.Attempted.StringFixed(2), e.Remaining.StringFixed(2), e.PayslipID)
}
