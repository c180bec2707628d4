package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period selects which slice of the month a cycle covers.
type Period string

const (
	PeriodFull   Period = "full"
	PeriodFirst  Period = "first"  // day 1-15
	PeriodSecond Period = "second" // day 16-end of month
)

// CycleStatus enum. Locked is terminal: the cycle and its payslips freeze.
type CycleStatus string

const (
	CycleStatusDraft  CycleStatus = "draft"
	CycleStatusLocked CycleStatus = "locked"
)

// PaymentStatus tracks disbursement progress on one payslip.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusLocked  PaymentStatus = "locked"
)

// CycleID builds the deterministic cycle primary key. Re-running generation
// for the same company/month/period targets the same record.
func CycleID(companyID, month string, period Period) string {
	return companyID + "_" + month + "_" + string(period)
}

// PayslipID builds the deterministic payslip primary key.
func PayslipID(employeeID, cycleID string) string {
	return employeeID + "_" + cycleID
}

// Cycle is one payroll run for a company over a month and period.
type Cycle struct {
	ID         string       `json:"id"`
	CompanyID  string       `json:"companyId"`
	Month      string       `json:"month"` // "2006-01"
	Period     Period       `json:"period"`
	Target     string       `json:"target,omitempty"` // "", "monthly" or "daily"
	SyncOT     bool         `json:"syncOT"`
	SyncDeduct bool         `json:"syncDeduct"`
	Status     CycleStatus  `json:"status"`
	StartDate  string       `json:"startDate"` // inclusive local date
	EndDate    string       `json:"endDate"`   // inclusive local date
	Summary    CycleSummary `json:"summary"`
	CreatedAt  time.Time    `json:"-"`
	UpdatedAt  time.Time    `json:"-"`
}

type CycleSummary struct {
	TotalNet  decimal.Decimal `json:"totalNet"`
	TotalPaid decimal.Decimal `json:"totalPaid"`
	Count     int             `json:"count"`
}

// EmployeeSnapshot freezes the directory fields used for the calculation.
type EmployeeSnapshot struct {
	Name             string          `json:"name"`
	Role             string          `json:"role,omitempty"`
	Department       string          `json:"department,omitempty"`
	SalaryType       string          `json:"salaryType"`
	BaseSalary       decimal.Decimal `json:"baseSalary"`
	DeductionProfile string          `json:"deductionProfile"`
}

// Financials is the computed money breakdown of one payslip.
type Financials struct {
	Salary     decimal.Decimal `json:"salary"`
	OT         decimal.Decimal `json:"ot"`
	Incentive  decimal.Decimal `json:"incentive"`
	Deductions decimal.Decimal `json:"deductions"`
	SSO        decimal.Decimal `json:"sso"`
	Tax        decimal.Decimal `json:"tax"`
	Net        decimal.Decimal `json:"net"`
}

// CustomItemType enum
type CustomItemType string

const (
	CustomItemIncome    CustomItemType = "income"
	CustomItemDeduction CustomItemType = "deduction"
)

// CustomItem is a free-form income or deduction line added by hand.
type CustomItem struct {
	Name   string          `json:"name"`
	Type   CustomItemType  `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

// Payment is one disbursement appended to a payslip's ledger.
type Payment struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
	Method string          `json:"method"`
	Note   string          `json:"note,omitempty"`
}

// DayLedgerEntry is the reconciled one-row-per-day attendance summary. It is
// never persisted on its own; the payslip embeds the cycle's entries as a
// snapshot array.
type DayLedgerEntry struct {
	Date        string          `json:"date"`
	CheckIn     string          `json:"checkIn"`
	CheckOut    string          `json:"checkOut"`
	Status      string          `json:"status"`
	LateMinutes int             `json:"lateMinutes"`
	OTHours     decimal.Decimal `json:"otHours"`
	Income      decimal.Decimal `json:"income"`
	Deduction   decimal.Decimal `json:"deduction"`
	Note        string          `json:"note,omitempty"`
}

// Worked reports whether the day counts toward workDays.
func (e DayLedgerEntry) Worked() bool {
	return e.CheckIn != ""
}

// Payslip is one employee's computed pay breakdown for a cycle.
type Payslip struct {
	ID            string           `json:"id"` // employeeId_cycleId
	CycleID       string           `json:"cycleId"`
	CompanyID     string           `json:"companyId"`
	EmployeeID    string           `json:"employeeId"`
	Employee      EmployeeSnapshot `json:"employeeSnapshot"`
	Financials    Financials       `json:"financials"`
	CustomItems   []CustomItem     `json:"customItems"`
	Payments      []Payment        `json:"payments"`
	PaidAmount    decimal.Decimal  `json:"paidAmount"`
	PaymentStatus PaymentStatus    `json:"paymentStatus"`
	LogsSnapshot  []DayLedgerEntry `json:"logsSnapshot"`
	WorkDays      int              `json:"workDays"`
	TotalOTHours  decimal.Decimal  `json:"totalOtHours"`
	TotalLateMins int              `json:"totalLateMinutes"`
	CreatedAt     time.Time        `json:"-"`
	UpdatedAt     time.Time        `json:"-"`
}

// RemainingPayable is how much can still be disbursed against the payslip.
func (p Payslip) RemainingPayable() decimal.Decimal {
	return p.Financials.Net.Sub(p.PaidAmount)
}
