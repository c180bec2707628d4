// Package reconcile merges the two historical attendance stores into one
// per-employee-per-day ledger. The two sources disagree on shape and on how
// instants were stored, so everything funnels through a single local-date
// keying step before any day is built.
package reconcile

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wagewise-hr/payroll-backend-go/internal/domain/attendance"
	"github.com/wagewise-hr/payroll-backend-go/internal/domain/payroll"
)

const (
	dateLayout      = "2006-01-02"
	timeOfDayLayout = "15:04"
)

// instantLayouts covers the three textual encodings found in legacy rows:
// offset-qualified RFC 3339 (also covers trailing Z), a naive local
// datetime, and a bare date.
var instantLayouts = []struct {
	layout string
	naive  bool // parse in the employer's zone rather than trusting an offset
}{
	{time.RFC3339, false},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02 15:04:05", true},
	{dateLayout, true},
}

// ParseInstant decodes a stored instant and normalizes it into the
// employer's fixed local zone.
func ParseInstant(raw string, loc *time.Location) (time.Time, error) {
	for _, l := range instantLayouts {
		if l.naive {
			if t, err := time.ParseInLocation(l.layout, raw, loc); err == nil {
				return t, nil
			}
			continue
		}
		if t, err := time.Parse(l.layout, raw); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized instant encoding %q", raw)
}

// LocalDateKey buckets a stored instant into the employer-local calendar day.
func LocalDateKey(raw string, loc *time.Location) (string, error) {
	t, err := ParseInstant(raw, loc)
	if err != nil {
		return "", err
	}
	return t.Format(dateLayout), nil
}

// BuildDayLedger reconciles both event streams for one employee into a
// date-ordered ledger covering [startDate, endDate] inclusive.
//
// Pass 1 ingests the legacy typed events; pass 2 overlays session records,
// which are authoritative when both exist for a date. LateMinutes and OTHours
// are additive across every event mapped to a day, never overwritten. Events
// that fail to parse are skipped; a broken legacy row must not sink the whole
// employee.
func BuildDayLedger(
	loc *time.Location,
	startDate, endDate string,
	events []attendance.LegacyEvent,
	sessions []attendance.SessionRecord,
) ([]payroll.DayLedgerEntry, error) {
	start, err := time.ParseInLocation(dateLayout, startDate, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := time.ParseInLocation(dateLayout, endDate, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s before start date %s", endDate, startDate)
	}

	days := make(map[string]*payroll.DayLedgerEntry)
	get := func(date string) *payroll.DayLedgerEntry {
		entry, ok := days[date]
		if !ok {
			entry = &payroll.DayLedgerEntry{
				Date:      date,
				OTHours:   decimal.Zero,
				Income:    decimal.Zero,
				Deduction: decimal.Zero,
			}
			days[date] = entry
		}
		return entry
	}

	// Pass 1: legacy typed events.
	for _, ev := range events {
		t, err := ParseInstant(ev.Timestamp, loc)
		if err != nil {
			continue
		}
		entry := get(t.Format(dateLayout))

		switch ev.Type {
		case attendance.EventClockIn:
			entry.CheckIn = t.Format(timeOfDayLayout)
			if ev.Status != "" {
				entry.Status = ev.Status
			}
		case attendance.EventClockOut:
			entry.CheckOut = t.Format(timeOfDayLayout)
		case attendance.EventRetroApproved:
			for _, adj := range ev.RetroApproved {
				if in, err := ParseInstant(adj.ClockIn, loc); err == nil {
					entry.CheckIn = in.Format(timeOfDayLayout)
				}
				if out, err := ParseInstant(adj.ClockOut, loc); err == nil {
					entry.CheckOut = out.Format(timeOfDayLayout)
				}
			}
			entry.Status = "retro-approved"
		}

		entry.LateMinutes += ev.LateMinutes
		entry.OTHours = entry.OTHours.Add(ev.OTHours)
	}

	// Pass 2: session records overlay whatever pass 1 built for the date.
	for _, s := range sessions {
		in, err := ParseInstant(s.ClockIn, loc)
		if err != nil {
			continue
		}
		entry := get(in.Format(dateLayout))

		entry.CheckIn = in.Format(timeOfDayLayout)
		if out, err := ParseInstant(s.ClockOut, loc); err == nil {
			entry.CheckOut = out.Format(timeOfDayLayout)
		}
		if s.Status != "" {
			entry.Status = s.Status
		}
		entry.LateMinutes += s.LateMinutes
	}

	// Final inclusive range filter with true date comparison. The session
	// store cannot be range-filtered server-side, so rows outside the cycle
	// always reach this point.
	result := make([]payroll.DayLedgerEntry, 0, len(days))
	for date, entry := range days {
		day, err := time.ParseInLocation(dateLayout, date, loc)
		if err != nil {
			continue
		}
		if day.Before(start) || day.After(end) {
			continue
		}
		result = append(result, *entry)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}

// ExpectedDates lists every local calendar date of an inclusive range.
func ExpectedDates(startDate, endDate string) ([]string, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(dateLayout))
	}
	return dates, nil
}
