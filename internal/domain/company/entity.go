package company

import (
	"time"

	"github.com/shopspring/decimal"
)

type Company struct {
	ID   string
	Name string
	// TimezoneOffsetHours is the employer-local UTC offset. Nil means never
	// configured and the engine default applies; zero is a real UTC employer.
	TimezoneOffsetHours *int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// DeductionRule holds the late-arrival penalty knobs configured per company.
// MaxDeduction of zero or less means the cap is disabled.
type DeductionRule struct {
	GracePeriodMinutes int
	DeductionPerMinute decimal.Decimal
	MaxDeduction       decimal.Decimal
}

// DefaultDeductionRule is used when a company has never configured penalties:
// no grace, no per-minute charge, no cap. A zero rate makes every late
// deduction zero, so an unconfigured company never penalizes anyone.
func DefaultDeductionRule() DeductionRule {
	return DeductionRule{
		GracePeriodMinutes: 0,
		DeductionPerMinute: decimal.Zero,
		MaxDeduction:       decimal.Zero,
	}
}
