package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/wagewise-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/wagewise-hr/payroll-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db        *database.DB
	chunkSize int
}

// NewPayrollRepository creates the cycle store. chunkSize bounds how many
// payslip rows go into a single INSERT statement.
func NewPayrollRepository(db *database.DB, chunkSize int) payroll.PayrollRepository {
	if chunkSize <= 0 {
		chunkSize = 499
	}
	return &payrollRepository{db: db, chunkSize: chunkSize}
}

// ========== CYCLES ==========

// PersistCycle writes the cycle and its full payslip set in one transaction.
// Re-running a cycle replaces the previous payslips instead of appending.
func (r *payrollRepository) PersistCycle(ctx context.Context, cycle payroll.Cycle, payslips []payroll.Payslip) error {
	summaryJSON, err := json.Marshal(cycle.Summary)
	if err != nil {
		return fmt.Errorf("failed to marshal cycle summary: %w", err)
	}

	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO payroll_cycles (
				id, company_id, month, period, target, sync_ot, sync_deduct,
				status, start_date, end_date, summary
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (id) DO UPDATE SET
				target = EXCLUDED.target,
				sync_ot = EXCLUDED.sync_ot,
				sync_deduct = EXCLUDED.sync_deduct,
				status = EXCLUDED.status,
				start_date = EXCLUDED.start_date,
				end_date = EXCLUDED.end_date,
				summary = EXCLUDED.summary,
				updated_at = NOW()
		`
		_, err := tx.Exec(ctx, query,
			cycle.ID, cycle.CompanyID, cycle.Month, cycle.Period, cycle.Target,
			cycle.SyncOT, cycle.SyncDeduct, cycle.Status, cycle.StartDate, cycle.EndDate,
			summaryJSON,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert cycle: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM payroll_payslips WHERE cycle_id = $1`, cycle.ID); err != nil {
			return fmt.Errorf("failed to clear previous payslips: %w", err)
		}

		for start := 0; start < len(payslips); start += r.chunkSize {
			end := start + r.chunkSize
			if end > len(payslips) {
				end = len(payslips)
			}
			if err := insertPayslipChunk(ctx, tx, payslips[start:end]); err != nil {
				return err
			}
		}

		return nil
	})
}

const payslipColumns = 14

func insertPayslipChunk(ctx context.Context, tx pgx.Tx, payslips []payroll.Payslip) error {
	if len(payslips) == 0 {
		return nil
	}

	valueStrings := make([]string, 0, len(payslips))
	valueArgs := make([]interface{}, 0, len(payslips)*payslipColumns)

	for i, slip := range payslips {
		snapshotJSON, err := json.Marshal(slip.Employee)
		if err != nil {
			return fmt.Errorf("failed to marshal employee snapshot: %w", err)
		}
		financialsJSON, err := json.Marshal(slip.Financials)
		if err != nil {
			return fmt.Errorf("failed to marshal financials: %w", err)
		}
		customItemsJSON, err := json.Marshal(slip.CustomItems)
		if err != nil {
			return fmt.Errorf("failed to marshal custom items: %w", err)
		}
		paymentsJSON, err := json.Marshal(slip.Payments)
		if err != nil {
			return fmt.Errorf("failed to marshal payments: %w", err)
		}
		logsJSON, err := json.Marshal(slip.LogsSnapshot)
		if err != nil {
			return fmt.Errorf("failed to marshal day ledger: %w", err)
		}

		base := i * payslipColumns
		placeholders := make([]string, payslipColumns)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ", ")+")")
		valueArgs = append(valueArgs,
			slip.ID,
			slip.CycleID,
			slip.CompanyID,
			slip.EmployeeID,
			snapshotJSON,
			financialsJSON,
			customItemsJSON,
			paymentsJSON,
			slip.PaidAmount,
			string(slip.PaymentStatus),
			logsJSON,
			slip.WorkDays,
			slip.TotalOTHours,
			slip.TotalLateMins,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO payroll_payslips (
			id, cycle_id, company_id, employee_id, employee_snapshot, financials,
			custom_items, payments, paid_amount, payment_status, logs_snapshot,
			work_days, total_ot_hours, total_late_mins
		) VALUES %s
	`, strings.Join(valueStrings, ", "))

	if _, err := tx.Exec(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("failed to batch insert payslips: %w", err)
	}

	return nil
}

func (r *payrollRepository) GetCycleByID(ctx context.Context, cycleID string) (payroll.Cycle, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, month, period, target, sync_ot, sync_deduct,
			   status, start_date, end_date, summary
		FROM payroll_cycles
		WHERE id = $1
	`

	var (
		c           payroll.Cycle
		summaryJSON []byte
	)
	err := q.QueryRow(ctx, query, cycleID).Scan(
		&c.ID, &c.CompanyID, &c.Month, &c.Period, &c.Target, &c.SyncOT, &c.SyncDeduct,
		&c.Status, &c.StartDate, &c.EndDate, &summaryJSON,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Cycle{}, payroll.ErrCycleNotFound
		}
		return payroll.Cycle{}, fmt.Errorf("failed to get cycle: %w", err)
	}
	if err := json.Unmarshal(summaryJSON, &c.Summary); err != nil {
		return payroll.Cycle{}, fmt.Errorf("failed to unmarshal cycle summary: %w", err)
	}

	return c, nil
}

func (r *payrollRepository) GetCyclesByCompanyID(ctx context.Context, companyID string) ([]payroll.Cycle, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, month, period, target, sync_ot, sync_deduct,
			   status, start_date, end_date, summary
		FROM payroll_cycles
		WHERE company_id = $1
		ORDER BY month DESC, period
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cycles: %w", err)
	}
	defer rows.Close()

	var cycles []payroll.Cycle
	for rows.Next() {
		var (
			c           payroll.Cycle
			summaryJSON []byte
		)
		err := rows.Scan(
			&c.ID, &c.CompanyID, &c.Month, &c.Period, &c.Target, &c.SyncOT, &c.SyncDeduct,
			&c.Status, &c.StartDate, &c.EndDate, &summaryJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cycle: %w", err)
		}
		if err := json.Unmarshal(summaryJSON, &c.Summary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cycle summary: %w", err)
		}
		cycles = append(cycles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cycles: %w", err)
	}

	return cycles, nil
}

func (r *payrollRepository) DeleteCycle(ctx context.Context, cycleID string) (int, error) {
	deleted := 0
	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM payroll_payslips WHERE cycle_id = $1`, cycleID)
		if err != nil {
			return fmt.Errorf("failed to delete payslips: %w", err)
		}
		deleted = int(tag.RowsAffected())

		tag, err = tx.Exec(ctx, `DELETE FROM payroll_cycles WHERE id = $1`, cycleID)
		if err != nil {
			return fmt.Errorf("failed to delete cycle: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return payroll.ErrCycleNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func (r *payrollRepository) LockCycle(ctx context.Context, cycleID string) error {
	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE payroll_cycles SET status = $2, updated_at = NOW() WHERE id = $1`,
			cycleID, payroll.CycleStatusLocked,
		)
		if err != nil {
			return fmt.Errorf("failed to lock cycle: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return payroll.ErrCycleNotFound
		}

		_, err = tx.Exec(ctx,
			`UPDATE payroll_payslips SET payment_status = $2 WHERE cycle_id = $1`,
			cycleID, payroll.PaymentStatusLocked,
		)
		if err != nil {
			return fmt.Errorf("failed to lock payslips: %w", err)
		}
		return nil
	})
}

// ========== PAYSLIPS ==========

func (r *payrollRepository) GetPayslipsByCycleID(ctx context.Context, cycleID string) ([]payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, cycle_id, company_id, employee_id, employee_snapshot, financials,
			   custom_items, payments, paid_amount, payment_status, logs_snapshot,
			   work_days, total_ot_hours, total_late_mins
		FROM payroll_payslips
		WHERE cycle_id = $1
		ORDER BY employee_id
	`

	rows, err := q.Query(ctx, query, cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payslips: %w", err)
	}
	defer rows.Close()

	var payslips []payroll.Payslip
	for rows.Next() {
		slip, err := scanPayslip(rows)
		if err != nil {
			return nil, err
		}
		payslips = append(payslips, slip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payslips: %w", err)
	}

	return payslips, nil
}

func scanPayslip(row pgx.Row) (payroll.Payslip, error) {
	var (
		slip            payroll.Payslip
		snapshotJSON    []byte
		financialsJSON  []byte
		customItemsJSON []byte
		paymentsJSON    []byte
		logsJSON        []byte
	)
	err := row.Scan(
		&slip.ID, &slip.CycleID, &slip.CompanyID, &slip.EmployeeID,
		&snapshotJSON, &financialsJSON, &customItemsJSON, &paymentsJSON,
		&slip.PaidAmount, &slip.PaymentStatus, &logsJSON,
		&slip.WorkDays, &slip.TotalOTHours, &slip.TotalLateMins,
	)
	if err != nil {
		return payroll.Payslip{}, err
	}

	for _, field := range []struct {
		raw []byte
		dst interface{}
	}{
		{snapshotJSON, &slip.Employee},
		{financialsJSON, &slip.Financials},
		{customItemsJSON, &slip.CustomItems},
		{paymentsJSON, &slip.Payments},
		{logsJSON, &slip.LogsSnapshot},
	} {
		if len(field.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(field.raw, field.dst); err != nil {
			return payroll.Payslip{}, fmt.Errorf("failed to unmarshal payslip document: %w", err)
		}
	}

	return slip, nil
}

// ========== PAYMENTS ==========

// AddPayment appends a payment to a payslip behind a row lock at serializable
// isolation. The overpayment check and the append happen inside the same
// transaction, so the sum of payments can never exceed the net even under
// concurrent writers. The lookup is scoped by company so a guessed payslip id
// from another tenant reads as not found.
func (r *payrollRepository) AddPayment(ctx context.Context, companyID, payslipID string, payment payroll.Payment) error {
	return WithSerializableTransaction(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			SELECT cycle_id, financials, payments, payment_status
			FROM payroll_payslips
			WHERE id = $1 AND company_id = $2
			FOR UPDATE
		`

		var (
			cycleID        string
			financialsJSON []byte
			paymentsJSON   []byte
			status         payroll.PaymentStatus
		)
		err := tx.QueryRow(ctx, query, payslipID, companyID).Scan(&cycleID, &financialsJSON, &paymentsJSON, &status)
		if err != nil {
			if err == pgx.ErrNoRows {
				return payroll.ErrPayslipNotFound
			}
			return fmt.Errorf("failed to load payslip for payment: %w", err)
		}
		if status == payroll.PaymentStatusLocked {
			return payroll.ErrPayslipLocked
		}

		var financials payroll.Financials
		if err := json.Unmarshal(financialsJSON, &financials); err != nil {
			return fmt.Errorf("failed to unmarshal financials: %w", err)
		}
		var payments []payroll.Payment
		if len(paymentsJSON) > 0 {
			if err := json.Unmarshal(paymentsJSON, &payments); err != nil {
				return fmt.Errorf("failed to unmarshal payments: %w", err)
			}
		}

		paid := decimal.Zero
		for _, p := range payments {
			paid = paid.Add(p.Amount)
		}
		if paid.Add(payment.Amount).GreaterThan(financials.Net) {
			return &payroll.OverpaymentError{
				PayslipID: payslipID,
				Attempted: payment.Amount,
				Remaining: financials.Net.Sub(paid),
			}
		}

		payments = append(payments, payment)
		newPaid := paid.Add(payment.Amount)
		newStatus := payroll.PaymentStatusPartial
		if newPaid.GreaterThanOrEqual(financials.Net) {
			newStatus = payroll.PaymentStatusPaid
		}

		updatedPayments, err := json.Marshal(payments)
		if err != nil {
			return fmt.Errorf("failed to marshal payments: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE payroll_payslips
			SET payments = $2, paid_amount = $3, payment_status = $4
			WHERE id = $1
		`, payslipID, updatedPayments, newPaid, newStatus)
		if err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}

		// Keep the cycle rollup in step with the ledger.
		_, err = tx.Exec(ctx, `
			UPDATE payroll_cycles
			SET summary = jsonb_set(summary, '{totalPaid}',
				to_jsonb(COALESCE((summary->>'totalPaid')::numeric, 0) + $2::numeric)),
				updated_at = NOW()
			WHERE id = $1
		`, cycleID, payment.Amount)
		if err != nil {
			return fmt.Errorf("failed to update cycle summary: %w", err)
		}

		return nil
	})
}
