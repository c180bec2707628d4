package attendance

import "context"

// AttendanceRepository exposes the two historical attendance stores.
//
// GetSessionRecords cannot filter reliably server-side: offset-qualified
// stored strings sort outside a naive UTC range, so implementations fetch a
// widened window and callers re-filter with true date/time comparison.
type AttendanceRepository interface {
	GetLegacyEvents(ctx context.Context, companyID, startDate, endDate string) ([]LegacyEvent, error)
	GetSessionRecords(ctx context.Context, companyID, startDate, endDate string) ([]SessionRecord, error)
}
