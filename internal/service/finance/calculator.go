// Package finance holds the pure payroll money functions. Everything works on
// shopspring decimals; callers only see rounded 2-decimal results, and any
// intermediate value stays at full precision.
package finance

import (
	"github.com/shopspring/decimal"

	"github.com/wagewise-hr/payroll-backend-go/internal/domain/company"
	"github.com/wagewise-hr/payroll-backend-go/internal/domain/payroll"
)

// Statutory social-insurance contribution: 5% of the base salary with the
// base clamped to the legal window, truncated to whole currency units.
var (
	ssoMinBase = decimal.NewFromInt(1650)
	ssoMaxBase = decimal.NewFromInt(17500)
	ssoRate    = decimal.NewFromFloat(0.05)
)

func SocialContribution(baseSalary decimal.Decimal) decimal.Decimal {
	base := baseSalary
	if base.LessThan(ssoMinBase) {
		base = ssoMinBase
	}
	if base.GreaterThan(ssoMaxBase) {
		base = ssoMaxBase
	}
	return base.Mul(ssoRate).Truncate(0)
}

// Progressive withholding tax. Income is annualized, standard expenses and
// allowances are deducted, the marginal brackets run over the remainder and
// the annual tax is divided back to a monthly withholding amount.
var (
	twelve            = decimal.NewFromInt(12)
	expenseRate       = decimal.NewFromFloat(0.5)
	expenseCap        = decimal.NewFromInt(100000)
	personalAllowance = decimal.NewFromInt(60000)
)

type taxBracket struct {
	upper decimal.Decimal // zero upper means unbounded
	rate  decimal.Decimal
}

var taxBrackets = []taxBracket{
	{decimal.NewFromInt(150000), decimal.Zero},
	{decimal.NewFromInt(300000), decimal.NewFromFloat(0.05)},
	{decimal.NewFromInt(500000), decimal.NewFromFloat(0.10)},
	{decimal.NewFromInt(750000), decimal.NewFromFloat(0.15)},
	{decimal.NewFromInt(1000000), decimal.NewFromFloat(0.20)},
	{decimal.NewFromInt(2000000), decimal.NewFromFloat(0.25)},
	{decimal.NewFromInt(5000000), decimal.NewFromFloat(0.30)},
	{decimal.Zero, decimal.NewFromFloat(0.35)},
}

func ProgressiveTax(monthlyIncome, monthlySocialContribution decimal.Decimal) decimal.Decimal {
	annual := monthlyIncome.Mul(twelve)

	expenses := annual.Mul(expenseRate)
	if expenses.GreaterThan(expenseCap) {
		expenses = expenseCap
	}
	allowances := personalAllowance.Add(monthlySocialContribution.Mul(twelve))

	taxable := annual.Sub(expenses).Sub(allowances)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}

	annualTax := decimal.Zero
	lower := decimal.Zero
	for _, b := range taxBrackets {
		if b.upper.IsZero() {
			// top bracket, unbounded
			if taxable.GreaterThan(lower) {
				annualTax = annualTax.Add(taxable.Sub(lower).Mul(b.rate))
			}
			break
		}
		if taxable.LessThanOrEqual(lower) {
			break
		}
		slice := decimal.Min(taxable, b.upper).Sub(lower)
		annualTax = annualTax.Add(slice.Mul(b.rate))
		lower = b.upper
	}

	return annualTax.Div(twelve).Round(2)
}

// OvertimePay converts accumulated overtime hours into pay. The hourly base
// comes from the monthly salary spread over the standard working schedule.
// Returns zero for non-positive hours or a degenerate schedule.
func OvertimePay(baseSalary decimal.Decimal, workingDaysPerMonth, dailyHours int, multiplier, otHours decimal.Decimal) decimal.Decimal {
	if otHours.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	if workingDaysPerMonth <= 0 || dailyHours <= 0 {
		return decimal.Zero
	}
	monthlyHours := decimal.NewFromInt(int64(workingDaysPerMonth)).Mul(decimal.NewFromInt(int64(dailyHours)))
	hourlyBase := baseSalary.Div(monthlyHours)
	return hourlyBase.Mul(multiplier).Mul(otHours).Round(2)
}

// LateDeduction charges the full late minutes once they exceed the grace
// period. The grace period is a threshold, not an exemption of the first
// minutes. A non-positive MaxDeduction disables the cap.
func LateDeduction(lateMinutes int, rule company.DeductionRule) decimal.Decimal {
	if lateMinutes <= rule.GracePeriodMinutes {
		return decimal.Zero
	}
	amount := decimal.NewFromInt(int64(lateMinutes)).Mul(rule.DeductionPerMinute)
	if rule.MaxDeduction.IsPositive() && amount.GreaterThan(rule.MaxDeduction) {
		amount = rule.MaxDeduction
	}
	return amount.Round(2)
}

// NetItems collects every line feeding the net total.
type NetItems struct {
	Salary     decimal.Decimal
	OT         decimal.Decimal
	Incentive  decimal.Decimal
	Deductions decimal.Decimal
	SSO        decimal.Decimal
	Tax        decimal.Decimal
	Custom     []payroll.CustomItem
}

// NetTotal sums incomes minus deductions. Rounding happens only here, at the
// very end. Negative nets are legal and returned as-is.
func NetTotal(items NetItems) decimal.Decimal {
	income := items.Salary.Add(items.OT).Add(items.Incentive)
	outgo := items.Deductions.Add(items.SSO).Add(items.Tax)
	for _, item := range items.Custom {
		switch item.Type {
		case payroll.CustomItemIncome:
			income = income.Add(item.Amount)
		case payroll.CustomItemDeduction:
			outgo = outgo.Add(item.Amount)
		}
	}
	return income.Sub(outgo).Round(2)
}

// ProratedSalary scales a base salary by days worked over days in period.
// The cycle generator does not call this for monthly staff: half-month
// periods pay a flat half salary regardless of attendance. Kept for callers
// that need day-based proration.
func ProratedSalary(baseSalary decimal.Decimal, daysInPeriod, daysWorked int) decimal.Decimal {
	if daysInPeriod <= 0 {
		return decimal.Zero
	}
	return baseSalary.
		Mul(decimal.NewFromInt(int64(daysWorked))).
		Div(decimal.NewFromInt(int64(daysInPeriod))).
		Round(2)
}

// HalfOf splits a monthly salary for a half-month period.
func HalfOf(baseSalary decimal.Decimal) decimal.Decimal {
	return baseSalary.Div(decimal.NewFromInt(2)).Round(2)
}
