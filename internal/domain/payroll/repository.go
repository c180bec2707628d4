package payroll

import "context"

// PayrollRepository persists cycles and payslips.
//
// PersistCycle writes the cycle record plus the full payslip set in one
// transaction, batching payslip rows into bounded chunks. Re-persisting an
// existing cycle replaces its payslips.
type PayrollRepository interface {
	PersistCycle(ctx context.Context, cycle Cycle, payslips []Payslip) error

	GetCycleByID(ctx context.Context, cycleID string) (Cycle, error)
	GetCyclesByCompanyID(ctx context.Context, companyID string) ([]Cycle, error)
	GetPayslipsByCycleID(ctx context.Context, cycleID string) ([]Payslip, error)

	// DeleteCycle cascades: payslips first, then the cycle record.
	DeleteCycle(ctx context.Context, cycleID string) (deletedPayslips int, err error)
	// LockCycle marks the cycle and every payslip in it locked.
	LockCycle(ctx context.Context, cycleID string) error

	// AddPayment appends a payment under the store's strongest
	// read-modify-write isolation and recomputes paidAmount/paymentStatus.
	// Payslip ids are deterministic, so the lookup is scoped by companyID;
	// another tenant's payslip reads as ErrPayslipNotFound.
	// Returns *OverpaymentError when the amount exceeds the remaining payable.
	AddPayment(ctx context.Context, companyID, payslipID string, payment Payment) error
}
