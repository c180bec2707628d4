package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wagewise-hr/payroll-backend-go/internal/domain/attendance"
	"github.com/wagewise-hr/payroll-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Both stores keep clock instants as raw text in mixed encodings, so a SQL
// range predicate on them cannot be trusted. Queries filter on the coarse
// record_date column widened by one day on each side, and the reconciler
// re-filters on the true local date.

func (r *attendanceRepository) GetLegacyEvents(ctx context.Context, companyID, startDate, endDate string) ([]attendance.LegacyEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT user_id, record_date, event_type, event_timestamp, status,
			   late_minutes, ot_hours, retro_adjustments
		FROM legacy_attendance_events
		WHERE company_id = $1
		  AND record_date BETWEEN $2::date - 1 AND $3::date + 1
		ORDER BY event_timestamp
	`

	rows, err := q.Query(ctx, query, companyID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get legacy attendance events: %w", err)
	}
	defer rows.Close()

	var events []attendance.LegacyEvent
	for rows.Next() {
		var (
			ev        attendance.LegacyEvent
			retroJSON []byte
		)
		err := rows.Scan(
			&ev.UserID, &ev.Date, &ev.Type, &ev.Timestamp, &ev.Status,
			&ev.LateMinutes, &ev.OTHours, &retroJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan legacy attendance event: %w", err)
		}
		if len(retroJSON) > 0 {
			if err := json.Unmarshal(retroJSON, &ev.RetroApproved); err != nil {
				return nil, fmt.Errorf("failed to unmarshal retro adjustments: %w", err)
			}
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate legacy attendance events: %w", err)
	}

	return events, nil
}

func (r *attendanceRepository) GetSessionRecords(ctx context.Context, companyID, startDate, endDate string) ([]attendance.SessionRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, clock_in, clock_out, status, late_minutes
		FROM attendance_sessions
		WHERE company_id = $1
		  AND record_date BETWEEN $2::date - 1 AND $3::date + 1
		ORDER BY clock_in
	`

	rows, err := q.Query(ctx, query, companyID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get session records: %w", err)
	}
	defer rows.Close()

	var sessions []attendance.SessionRecord
	for rows.Next() {
		var sr attendance.SessionRecord
		err := rows.Scan(&sr.EmployeeID, &sr.ClockIn, &sr.ClockOut, &sr.Status, &sr.LateMinutes)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session record: %w", err)
		}
		sessions = append(sessions, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session records: %w", err)
	}

	return sessions, nil
}
