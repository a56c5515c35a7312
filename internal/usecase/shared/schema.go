package shared

import (
	"context"
	"fmt"
	"time"
)

type ColumnInfo struct {
	Name     string
	Type     string
	Nullable bool
}

// DuplicateGroup is an (employee, date) pair holding more than one active
// booking, which blocks the one-active-booking-per-day index.
type DuplicateGroup struct {
	EmployeeID  string
	BookingDate time.Time
	Count       int
}

type BootstrapReport struct {
	OK           bool
	Columns      []ColumnInfo
	IndexOK      bool
	TodayIndexOK bool
	Duplicates   []DuplicateGroup
}

type SchemaBootstrapper interface {
	// EnsureBookingSchema brings the booking store up to date in one
	// transaction. On duplicate active bookings nothing is committed and the
	// report carries the offending groups alongside a
	// *DuplicateActiveBookingsError.
	EnsureBookingSchema(ctx context.Context) (*BootstrapReport, error)
}

type MissingDependencyError struct {
	Table  string
	Detail string
}

func (e *MissingDependencyError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("required table %s does not exist", e.Table)
	}
	return fmt.Sprintf("required table %s is unusable: %s", e.Table, e.Detail)
}

type DuplicateActiveBookingsError struct {
	Groups []DuplicateGroup
}

func (e *DuplicateActiveBookingsError) Error() string {
	return fmt.Sprintf("%d employee/date pairs hold more than one active booking", len(e.Groups))
}
