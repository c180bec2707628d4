package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/wagewise-hr/payroll-backend-go/internal/domain/attendance"
	"github.com/wagewise-hr/payroll-backend-go/internal/domain/company"
	"github.com/wagewise-hr/payroll-backend-go/internal/domain/employee"
	"github.com/wagewise-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/wagewise-hr/payroll-backend-go/internal/service/finance"
	"github.com/wagewise-hr/payroll-backend-go/internal/service/reconcile"
)

// Options are the engine-wide calculation knobs. Per-company late-penalty
// rules come from the company repository instead.
type Options struct {
	WorkingDaysPerMonth  int
	DailyWorkHours       int
	OvertimeMultiplier   decimal.Decimal
	DefaultTZOffsetHours int
	// WorkerLimit caps the per-employee fan-out during generation.
	WorkerLimit int
	Logger      *slog.Logger
}

func (o *Options) fillDefaults() {
	if o.WorkingDaysPerMonth <= 0 {
		o.WorkingDaysPerMonth = 26
	}
	if o.DailyWorkHours <= 0 {
		o.DailyWorkHours = 8
	}
	if o.OvertimeMultiplier.LessThanOrEqual(decimal.Zero) {
		o.OvertimeMultiplier = decimal.NewFromFloat(1.5)
	}
	if o.DefaultTZOffsetHours == 0 {
		o.DefaultTZOffsetHours = 7
	}
	if o.WorkerLimit <= 0 {
		o.WorkerLimit = 8
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

type CycleServiceImpl struct {
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	companyRepo    company.CompanyRepository
	opts           Options
}

func NewCycleService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	companyRepo company.CompanyRepository,
	opts Options,
) payroll.CycleService {
	opts.fillDefaults()
	return &CycleServiceImpl{
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		companyRepo:    companyRepo,
		opts:           opts,
	}
}

// Helper to get company_id from JWT context
func getClaimsFromContext(ctx context.Context) (companyID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", fmt.Errorf("company_id claim is missing or invalid")
	}

	return companyID, nil
}

// ========== CYCLE GENERATION ==========

func (s *CycleServiceImpl) CreateCycle(ctx context.Context, req payroll.CreateCycleRequest) (payroll.CreateCycleResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.CreateCycleResponse{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.CreateCycleResponse{}, err
	}

	return s.generate(ctx, companyID, req)
}

func (s *CycleServiceImpl) generate(ctx context.Context, companyID string, req payroll.CreateCycleRequest) (payroll.CreateCycleResponse, error) {
	cycleID := payroll.CycleID(companyID, req.Month, req.Period)

	existing, err := s.payrollRepo.GetCycleByID(ctx, cycleID)
	if err != nil && !errors.Is(err, payroll.ErrCycleNotFound) {
		return payroll.CreateCycleResponse{}, fmt.Errorf("failed to check existing cycle: %w", err)
	}
	if err == nil && existing.Status == payroll.CycleStatusLocked {
		return payroll.CreateCycleResponse{}, payroll.ErrCycleLocked
	}

	startDate, endDate, err := resolvePeriodDates(req.Month, req.Period)
	if err != nil {
		return payroll.CreateCycleResponse{}, err
	}

	// Fetch every external collaborator up front and concurrently. Any
	// failure here aborts before a single write happens.
	var (
		comp      company.Company
		rule      company.DeductionRule
		employees []employee.Employee
		events    []attendance.LegacyEvent
		sessions  []attendance.SessionRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		comp, err = s.companyRepo.GetByID(gctx, companyID)
		if err != nil {
			return fmt.Errorf("failed to get company: %w", err)
		}
		rule, err = s.companyRepo.GetDeductionRule(gctx, companyID)
		if err != nil {
			return fmt.Errorf("failed to get deduction rule: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		employees, err = s.employeeRepo.GetByCompanyID(gctx, companyID)
		if err != nil {
			return fmt.Errorf("failed to get employees: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		events, err = s.attendanceRepo.GetLegacyEvents(gctx, companyID, startDate, endDate)
		if err != nil {
			return fmt.Errorf("failed to get legacy attendance events: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		sessions, err = s.attendanceRepo.GetSessionRecords(gctx, companyID, startDate, endDate)
		if err != nil {
			return fmt.Errorf("failed to get session records: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return payroll.CreateCycleResponse{}, err
	}

	loc := time.FixedZone("company-local", s.tzOffsetSeconds(comp))

	eligible := s.selectEmployees(employees, req.Target)
	if len(eligible) == 0 {
		return payroll.CreateCycleResponse{}, payroll.ErrNoEligibleEmployees
	}

	eventsByEmployee := make(map[string][]attendance.LegacyEvent)
	for _, ev := range events {
		eventsByEmployee[ev.UserID] = append(eventsByEmployee[ev.UserID], ev)
	}
	sessionsByEmployee := make(map[string][]attendance.SessionRecord)
	for _, sr := range sessions {
		sessionsByEmployee[sr.EmployeeID] = append(sessionsByEmployee[sr.EmployeeID], sr)
	}

	// Per-employee calculation is independent, so fan out and write each
	// result into its own slot. The summary is reduced after the join
	// rather than updated under a lock.
	payslips := make([]payroll.Payslip, len(eligible))
	calc, calcCtx := errgroup.WithContext(ctx)
	calc.SetLimit(s.opts.WorkerLimit)
	for i, emp := range eligible {
		i, emp := i, emp
		calc.Go(func() error {
			if err := calcCtx.Err(); err != nil {
				return err
			}
			slip, err := s.buildPayslip(emp, cycleID, companyID, req, rule, loc, startDate, endDate,
				eventsByEmployee[emp.employee.ID], sessionsByEmployee[emp.employee.ID])
			if err != nil {
				return fmt.Errorf("failed to build payslip for employee %s: %w", emp.employee.ID, err)
			}
			payslips[i] = slip
			return nil
		})
	}
	if err := calc.Wait(); err != nil {
		return payroll.CreateCycleResponse{}, err
	}

	summary := payroll.CycleSummary{TotalNet: decimal.Zero, TotalPaid: decimal.Zero}
	for _, slip := range payslips {
		summary.TotalNet = summary.TotalNet.Add(slip.Financials.Net)
		summary.Count++
	}

	cycle := payroll.Cycle{
		ID:         cycleID,
		CompanyID:  companyID,
		Month:      req.Month,
		Period:     req.Period,
		Target:     req.Target,
		SyncOT:     req.SyncOT,
		SyncDeduct: req.SyncDeduct,
		Status:     payroll.CycleStatusDraft,
		StartDate:  startDate,
		EndDate:    endDate,
		Summary:    summary,
	}

	if err := s.payrollRepo.PersistCycle(ctx, cycle, payslips); err != nil {
		return payroll.CreateCycleResponse{}, fmt.Errorf("failed to persist cycle %s: %w", cycleID, err)
	}

	return payroll.CreateCycleResponse{CycleID: cycleID}, nil
}

func (s *CycleServiceImpl) tzOffsetSeconds(comp company.Company) int {
	if comp.TimezoneOffsetHours == nil {
		return s.opts.DefaultTZOffsetHours * 3600
	}
	return *comp.TimezoneOffsetHours * 3600
}

// selectedEmployee pairs a directory record with its normalized salary type.
type selectedEmployee struct {
	employee   employee.Employee
	salaryType employee.SalaryType
}

// selectEmployees applies the directory filters: administrators, inactive
// and resigned employees are excluded, salary-type labels are normalized,
// the optional target filter applies, and duplicate display names collapse
// to the first occurrence.
func (s *CycleServiceImpl) selectEmployees(employees []employee.Employee, target string) []selectedEmployee {
	var result []selectedEmployee
	seen := make(map[string]string) // trimmed name -> employee id

	for _, emp := range employees {
		if emp.Role == employee.RoleAdmin || !emp.Active || emp.EmploymentStatus == employee.EmploymentStatusResigned {
			continue
		}

		salaryType := NormalizeSalaryType(emp.SalaryType)
		if target != "" && string(salaryType) != target {
			continue
		}

		name := strings.TrimSpace(emp.FullName)
		if firstID, dup := seen[name]; dup {
			s.opts.Logger.Warn("duplicate employee display name, keeping first occurrence",
				"name", name, "kept", firstID, "skipped", emp.ID)
			continue
		}
		seen[name] = emp.ID

		result = append(result, selectedEmployee{employee: emp, salaryType: salaryType})
	}

	return result
}

// NormalizeSalaryType maps possibly localized directory labels onto the
// canonical pay basis. Unknown labels fall back to monthly.
func NormalizeSalaryType(label string) employee.SalaryType {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "daily", "day", "รายวัน":
		return employee.SalaryTypeDaily
	case "monthly", "month", "รายเดือน":
		return employee.SalaryTypeMonthly
	default:
		return employee.SalaryTypeMonthly
	}
}

func (s *CycleServiceImpl) buildPayslip(
	emp selectedEmployee,
	cycleID, companyID string,
	req payroll.CreateCycleRequest,
	rule company.DeductionRule,
	loc *time.Location,
	startDate, endDate string,
	events []attendance.LegacyEvent,
	sessions []attendance.SessionRecord,
) (payroll.Payslip, error) {
	ledger, err := reconcile.BuildDayLedger(loc, startDate, endDate, events, sessions)
	if err != nil {
		return payroll.Payslip{}, err
	}

	workDays := 0
	totalOT := decimal.Zero
	totalLate := 0
	totalDeduction := decimal.Zero

	for i := range ledger {
		entry := &ledger[i]
		if entry.Worked() {
			workDays++
		}
		totalOT = totalOT.Add(entry.OTHours)
		totalLate += entry.LateMinutes

		var notes []string

		if emp.salaryType == employee.SalaryTypeDaily && entry.Worked() {
			entry.Income = entry.Income.Add(emp.employee.BaseSalary)
		}
		if req.SyncOT && entry.OTHours.IsPositive() {
			otPay := finance.OvertimePay(emp.employee.BaseSalary, s.opts.WorkingDaysPerMonth,
				s.opts.DailyWorkHours, s.opts.OvertimeMultiplier, entry.OTHours)
			entry.Income = entry.Income.Add(otPay)
			notes = append(notes, fmt.Sprintf("OT %sh +%s", entry.OTHours.String(), otPay.StringFixed(2)))
		}
		if req.SyncDeduct && entry.LateMinutes > 0 {
			// The penalty is applied per day: each day tests against the
			// grace period on its own, never the monthly sum.
			penalty := finance.LateDeduction(entry.LateMinutes, rule)
			entry.Deduction = entry.Deduction.Add(penalty)
			totalDeduction = totalDeduction.Add(penalty)
			if penalty.IsPositive() {
				notes = append(notes, fmt.Sprintf("late %dm -%s", entry.LateMinutes, penalty.StringFixed(2)))
			}
		}

		entry.Note = strings.Join(notes, "; ")
	}

	salaryPay := s.salaryForPeriod(emp, req.Period, workDays)

	otPay := decimal.Zero
	if req.SyncOT {
		otPay = finance.OvertimePay(emp.employee.BaseSalary, s.opts.WorkingDaysPerMonth,
			s.opts.DailyWorkHours, s.opts.OvertimeMultiplier, totalOT)
	}

	sso := decimal.Zero
	if emp.employee.DeductionProfile.WantsSSO() {
		sso = finance.SocialContribution(salaryPay)
	}
	tax := decimal.Zero
	if emp.employee.DeductionProfile.WantsTax() {
		tax = finance.ProgressiveTax(salaryPay, sso)
	}

	net := finance.NetTotal(finance.NetItems{
		Salary:     salaryPay,
		OT:         otPay,
		Incentive:  decimal.Zero,
		Deductions: totalDeduction,
		SSO:        sso,
		Tax:        tax,
	})

	position := ""
	if emp.employee.Position != nil {
		position = *emp.employee.Position
	}
	department := ""
	if emp.employee.Department != nil {
		department = *emp.employee.Department
	}

	return payroll.Payslip{
		ID:         payroll.PayslipID(emp.employee.ID, cycleID),
		CycleID:    cycleID,
		CompanyID:  companyID,
		EmployeeID: emp.employee.ID,
		Employee: payroll.EmployeeSnapshot{
			Name:             emp.employee.FullName,
			Role:             position,
			Department:       department,
			SalaryType:       string(emp.salaryType),
			BaseSalary:       emp.employee.BaseSalary,
			DeductionProfile: string(emp.employee.DeductionProfile),
		},
		Financials: payroll.Financials{
			Salary:     salaryPay,
			OT:         otPay,
			Incentive:  decimal.Zero,
			Deductions: totalDeduction,
			SSO:        sso,
			Tax:        tax,
			Net:        net,
		},
		CustomItems:   []payroll.CustomItem{},
		Payments:      []payroll.Payment{},
		PaidAmount:    decimal.Zero,
		PaymentStatus: payroll.PaymentStatusPending,
		LogsSnapshot:  ledger,
		WorkDays:      workDays,
		TotalOTHours:  totalOT,
		TotalLateMins: totalLate,
	}, nil
}

// salaryForPeriod applies the period pay rules. Monthly staff get a flat
// half of the base for half-month periods whatever their attendance; daily
// staff are paid per worked day.
func (s *CycleServiceImpl) salaryForPeriod(emp selectedEmployee, period payroll.Period, workDays int) decimal.Decimal {
	if emp.salaryType == employee.SalaryTypeDaily {
		return emp.employee.BaseSalary.Mul(decimal.NewFromInt(int64(workDays)))
	}
	if period == payroll.PeriodFull {
		return emp.employee.BaseSalary
	}
	return finance.HalfOf(emp.employee.BaseSalary)
}

// resolvePeriodDates maps (month, period) onto inclusive local date bounds.
func resolvePeriodDates(month string, period payroll.Period) (startDate, endDate string, err error) {
	first, err := time.Parse("2006-01", month)
	if err != nil {
		return "", "", payroll.ErrInvalidMonth
	}
	lastDay := first.AddDate(0, 1, -1)

	switch period {
	case payroll.PeriodFirst:
		return first.Format("2006-01-02"), first.AddDate(0, 0, 14).Format("2006-01-02"), nil
	case payroll.PeriodSecond:
		return first.AddDate(0, 0, 15).Format("2006-01-02"), lastDay.Format("2006-01-02"), nil
	case payroll.PeriodFull:
		return first.Format("2006-01-02"), lastDay.Format("2006-01-02"), nil
	default:
		return "", "", payroll.ErrInvalidPeriod
	}
}

// ========== CYCLE LIFECYCLE ==========

func (s *CycleServiceImpl) DeleteCycle(ctx context.Context, cycleID string) (payroll.DeleteCycleResponse, error) {
	cycle, err := s.ownedCycle(ctx, cycleID)
	if err != nil {
		return payroll.DeleteCycleResponse{}, err
	}
	if cycle.Status == payroll.CycleStatusLocked {
		return payroll.DeleteCycleResponse{}, payroll.ErrCycleLocked
	}

	deleted, err := s.payrollRepo.DeleteCycle(ctx, cycleID)
	if err != nil {
		return payroll.DeleteCycleResponse{}, fmt.Errorf("failed to delete cycle: %w", err)
	}
	return payroll.DeleteCycleResponse{DeletedPayslipCount: deleted}, nil
}

func (s *CycleServiceImpl) LockCycle(ctx context.Context, cycleID string) error {
	cycle, err := s.ownedCycle(ctx, cycleID)
	if err != nil {
		return err
	}
	if cycle.Status == payroll.CycleStatusLocked {
		// Locking is terminal and idempotent.
		return nil
	}
	if err := s.payrollRepo.LockCycle(ctx, cycleID); err != nil {
		return fmt.Errorf("failed to lock cycle: %w", err)
	}
	return nil
}

func (s *CycleServiceImpl) RebuildCycle(ctx context.Context, cycleID string) (payroll.CreateCycleResponse, error) {
	cycle, err := s.ownedCycle(ctx, cycleID)
	if err != nil {
		return payroll.CreateCycleResponse{}, err
	}
	if cycle.Status == payroll.CycleStatusLocked {
		return payroll.CreateCycleResponse{}, payroll.ErrCycleLocked
	}

	if _, err := s.payrollRepo.DeleteCycle(ctx, cycleID); err != nil {
		return payroll.CreateCycleResponse{}, fmt.Errorf("failed to clear cycle before rebuild: %w", err)
	}

	return s.generate(ctx, cycle.CompanyID, payroll.CreateCycleRequest{
		Month:      cycle.Month,
		Period:     cycle.Period,
		Target:     cycle.Target,
		SyncOT:     cycle.SyncOT,
		SyncDeduct: cycle.SyncDeduct,
	})
}

func (s *CycleServiceImpl) ValidateCycleData(ctx context.Context, cycleID string) (payroll.ValidationReport, error) {
	cycle, err := s.ownedCycle(ctx, cycleID)
	if err != nil {
		return payroll.ValidationReport{}, err
	}

	payslips, err := s.payrollRepo.GetPayslipsByCycleID(ctx, cycleID)
	if err != nil {
		return payroll.ValidationReport{}, fmt.Errorf("failed to get payslips: %w", err)
	}

	expected, err := reconcile.ExpectedDates(cycle.StartDate, cycle.EndDate)
	if err != nil {
		return payroll.ValidationReport{}, err
	}

	report := payroll.ValidationReport{
		CycleID:      cycleID,
		IsValid:      true,
		ExpectedDays: len(expected),
		Issues:       []payroll.ValidationIssue{},
	}

	for _, slip := range payslips {
		present := make(map[string]bool, len(slip.LogsSnapshot))
		for _, entry := range slip.LogsSnapshot {
			present[entry.Date] = true
		}

		var missing []string
		for _, date := range expected {
			if !present[date] {
				missing = append(missing, date)
			}
		}
		if len(missing) == 0 {
			continue
		}

		report.IsValid = false
		report.Issues = append(report.Issues, payroll.ValidationIssue{
			PayslipID:      slip.ID,
			EmployeeName:   slip.Employee.Name,
			MissingDates:   missing,
			CompletionRate: float64(len(expected)-len(missing)) / float64(len(expected)),
		})
	}

	return report, nil
}

func (s *CycleServiceImpl) GetCycles(ctx context.Context) ([]payroll.Cycle, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	cycles, err := s.payrollRepo.GetCyclesByCompanyID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cycles: %w", err)
	}
	return cycles, nil
}

func (s *CycleServiceImpl) GetPayslips(ctx context.Context, cycleID string) ([]payroll.Payslip, error) {
	if _, err := s.ownedCycle(ctx, cycleID); err != nil {
		return nil, err
	}
	payslips, err := s.payrollRepo.GetPayslipsByCycleID(ctx, cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	return payslips, nil
}

// ownedCycle loads a cycle and verifies it belongs to the caller's company.
// Cycles of other tenants are reported as not found, never as forbidden.
func (s *CycleServiceImpl) ownedCycle(ctx context.Context, cycleID string) (payroll.Cycle, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.Cycle{}, err
	}
	cycle, err := s.payrollRepo.GetCycleByID(ctx, cycleID)
	if err != nil {
		return payroll.Cycle{}, err
	}
	if cycle.CompanyID != companyID {
		return payroll.Cycle{}, payroll.ErrCycleNotFound
	}
	return cycle, nil
}

// ========== PAYMENT LEDGER ==========

func (s *CycleServiceImpl) AddPayment(ctx context.Context, payslipID string, req payroll.AddPaymentRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	payment := payroll.Payment{
		ID:     uuid.NewString(),
		Amount: req.Amount,
		Date:   req.Date,
		Method: req.Method,
		Note:   req.Note,
	}

	if err := s.payrollRepo.AddPayment(ctx, companyID, payslipID, payment); err != nil {
		var overpay *payroll.OverpaymentError
		if errors.As(err, &overpay) {
			return err
		}
		if errors.Is(err, payroll.ErrPayslipNotFound) || errors.Is(err, payroll.ErrPayslipLocked) {
			return err
		}
		return fmt.Errorf("failed to add payment to payslip %s: %w", payslipID, err)
	}
	return nil
}
