package payroll

import "context"

// CycleService is the payroll engine's operation surface. CompanyID comes
// from the caller's JWT claims, not from these parameters.
type CycleService interface {
	CreateCycle(ctx context.Context, req CreateCycleRequest) (CreateCycleResponse, error)
	DeleteCycle(ctx context.Context, cycleID string) (DeleteCycleResponse, error)
	LockCycle(ctx context.Context, cycleID string) error
	RebuildCycle(ctx context.Context, cycleID string) (CreateCycleResponse, error)
	ValidateCycleData(ctx context.Context, cycleID string) (ValidationReport, error)
	GetCycles(ctx context.Context) ([]Cycle, error)
	GetPayslips(ctx context.Context, cycleID string) ([]Payslip, error)
	AddPayment(ctx context.Context, payslipID string, req AddPaymentRequest) error
}
