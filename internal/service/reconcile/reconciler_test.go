package reconcile

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wagewise-hr/payroll-backend-go/internal/domain/attendance"
)

var bangkok = time.FixedZone("UTC+7", 7*3600)

func TestParseInstant_MixedEncodings(t *testing.T) {
	// The same instant stored three ways must land on the same local time.
	cases := []string{
		"2026-08-11T06:30:00+07:00",
		"2026-08-10T23:30:00Z",
		"2026-08-11 06:30:00",
		"2026-08-11T06:30:00",
	}
	for _, raw := range cases {
		got, err := ParseInstant(raw, bangkok)
		require.NoError(t, err, raw)
		assert.Equal(t, "2026-08-11", got.Format("2006-01-02"), raw)
		assert.Equal(t, "06:30", got.Format("15:04"), raw)
	}
}

func TestParseInstant_BareDate(t *testing.T) {
	got, err := ParseInstant("2026-08-11", bangkok)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-11", got.Format("2006-01-02"))
}

func TestParseInstant_Garbage(t *testing.T) {
	_, err := ParseInstant("11/08/2026 6:30am", bangkok)
	assert.Error(t, err)
}

func TestBuildDayLedger_LegacyEvents(t *testing.T) {
	events := []attendance.LegacyEvent{
		{Type: attendance.EventClockIn, Timestamp: "2026-08-03 08:40:00", Status: "late", LateMinutes: 10},
		{Type: attendance.EventClockOut, Timestamp: "2026-08-03 18:30:00", OTHours: decimal.NewFromFloat(1.5)},
		{Type: attendance.EventClockIn, Timestamp: "2026-08-04 08:00:00", Status: "on-time"},
	}

	ledger, err := BuildDayLedger(bangkok, "2026-08-01", "2026-08-15", events, nil)
	require.NoError(t, err)
	require.Len(t, ledger, 2)

	day3 := ledger[0]
	assert.Equal(t, "2026-08-03", day3.Date)
	assert.Equal(t, "08:40", day3.CheckIn)
	assert.Equal(t, "18:30", day3.CheckOut)
	assert.Equal(t, "late", day3.Status)
	assert.Equal(t, 10, day3.LateMinutes)
	assert.True(t, day3.OTHours.Equal(decimal.NewFromFloat(1.5)))
	assert.True(t, day3.Worked())

	day4 := ledger[1]
	assert.Equal(t, "2026-08-04", day4.Date)
	assert.Equal(t, "", day4.CheckOut)
}

func TestBuildDayLedger_SessionOverlaysLegacy(t *testing.T) {
	events := []attendance.LegacyEvent{
		{Type: attendance.EventClockIn, Timestamp: "2026-08-03 09:00:00", Status: "late", LateMinutes: 30},
	}
	sessions := []attendance.SessionRecord{
		{ClockIn: "2026-08-03T08:45:00+07:00", ClockOut: "2026-08-03T17:45:00+07:00", Status: "present", LateMinutes: 15},
	}

	ledger, err := BuildDayLedger(bangkok, "2026-08-01", "2026-08-15", events, sessions)
	require.NoError(t, err)
	require.Len(t, ledger, 1)

	day := ledger[0]
	// Session record wins on the clock fields and status.
	assert.Equal(t, "08:45", day.CheckIn)
	assert.Equal(t, "17:45", day.CheckOut)
	assert.Equal(t, "present", day.Status)
	// Late minutes accumulate across sources, never overwrite.
	assert.Equal(t, 45, day.LateMinutes)
}

func TestBuildDayLedger_RetroApprovedOverwritesBoth(t *testing.T) {
	events := []attendance.LegacyEvent{
		{Type: attendance.EventClockIn, Timestamp: "2026-08-05 10:12:00", Status: "late", LateMinutes: 72},
		{
			Type:      attendance.EventRetroApproved,
			Timestamp: "2026-08-05 12:00:00",
			RetroApproved: []attendance.RetroAdjustment{
				// Stored as a UTC instant by the approval tool.
				{ClockIn: "2026-08-05T01:00:00Z", ClockOut: "2026-08-05T10:00:00Z"},
			},
		},
	}

	ledger, err := BuildDayLedger(bangkok, "2026-08-01", "2026-08-15", events, nil)
	require.NoError(t, err)
	require.Len(t, ledger, 1)

	day := ledger[0]
	assert.Equal(t, "08:00", day.CheckIn)
	assert.Equal(t, "17:00", day.CheckOut)
	assert.Equal(t, "retro-approved", day.Status)
	assert.Equal(t, 72, day.LateMinutes)
}

func TestBuildDayLedger_CrossMidnightSession(t *testing.T) {
	// Stored as 23:00 UTC on day D; under +7 it belongs to day D+1.
	sessions := []attendance.SessionRecord{
		{ClockIn: "2026-08-09T23:00:00Z", ClockOut: "2026-08-10T08:00:00Z"},
	}

	ledger, err := BuildDayLedger(bangkok, "2026-08-01", "2026-08-15", nil, sessions)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, "2026-08-10", ledger[0].Date)
	assert.Equal(t, "06:00", ledger[0].CheckIn)
}

func TestBuildDayLedger_RangeFilter(t *testing.T) {
	// The session store over-fetches; rows outside the cycle must be dropped
	// by true date comparison, inclusive at both ends.
	sessions := []attendance.SessionRecord{
		{ClockIn: "2026-08-15T08:00:00+07:00", ClockOut: "2026-08-15T17:00:00+07:00"},
		{ClockIn: "2026-08-16T08:00:00+07:00", ClockOut: "2026-08-16T17:00:00+07:00"},
		{ClockIn: "2026-08-01T08:00:00+07:00", ClockOut: "2026-08-01T17:00:00+07:00"},
		{ClockIn: "2026-07-31T08:00:00+07:00", ClockOut: "2026-07-31T17:00:00+07:00"},
	}

	ledger, err := BuildDayLedger(bangkok, "2026-08-01", "2026-08-15", nil, sessions)
	require.NoError(t, err)
	require.Len(t, ledger, 2)
	assert.Equal(t, "2026-08-01", ledger[0].Date)
	assert.Equal(t, "2026-08-15", ledger[1].Date)
}

func TestBuildDayLedger_SkipsUnparseableRows(t *testing.T) {
	events := []attendance.LegacyEvent{
		{Type: attendance.EventClockIn, Timestamp: "not a timestamp"},
		{Type: attendance.EventClockIn, Timestamp: "2026-08-03 08:00:00"},
	}

	ledger, err := BuildDayLedger(bangkok, "2026-08-01", "2026-08-15", events, nil)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
}

func TestBuildDayLedger_BadRange(t *testing.T) {
	_, err := BuildDayLedger(bangkok, "2026-08-15", "2026-08-01", nil, nil)
	assert.Error(t, err)
}

func TestBuildDayLedger_NoCheckInNotWorked(t *testing.T) {
	events := []attendance.LegacyEvent{
		{Type: attendance.EventClockOut, Timestamp: "2026-08-03 17:00:00"},
	}

	ledger, err := BuildDayLedger(bangkok, "2026-08-01", "2026-08-15", events, nil)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.False(t, ledger[0].Worked())
}

func TestExpectedDates(t *testing.T) {
	dates, err := ExpectedDates("2026-02-26", "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-02-26", "2026-02-27", "2026-02-28", "2026-03-01", "2026-03-02"}, dates)
}
