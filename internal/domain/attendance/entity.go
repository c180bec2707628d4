package attendance

import "github.com/shopspring/decimal"

// EventType classifies entries in the legacy flat-event stream.
type EventType string

const (
	EventClockIn       EventType = "clock-in"
	EventClockOut      EventType = "clock-out"
	EventRetroApproved EventType = "retro-approved"
)

// LegacyEvent is one row of the original typed-event attendance stream.
// Timestamp is stored as text and mixes at least three encodings: a naive
// local string ("2006-01-02 15:04:05"), a UTC instant with a trailing Z, or
// an offset-qualified RFC 3339 string. Never compare these lexically.
type LegacyEvent struct {
	UserID      string
	Date        string // local date string the capture UI recorded, may be empty
	Type        EventType
	Timestamp   string
	Status      string
	LateMinutes int
	OTHours     decimal.Decimal
	// RetroApproved carries the adjusted instants for retro-approved events.
	RetroApproved []RetroAdjustment
}

// RetroAdjustment overrides both clock instants for a day after a manual
// approval. Stored instants share the same mixed encodings as Timestamp.
type RetroAdjustment struct {
	ClockIn  string
	ClockOut string
}

// SessionRecord is one row of the newer session-shaped attendance store.
// ClockIn/ClockOut are stored instants in the same mixed text encodings.
type SessionRecord struct {
	EmployeeID  string
	ClockIn     string
	ClockOut    string
	Status      string
	LateMinutes int
}
