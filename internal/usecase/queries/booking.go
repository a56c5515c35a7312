package queries

import (
	"context"
	"time"

	"gym-booking/internal/domain/booking"
	"gym-booking/internal/pkg/errs"
)

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/queries/booking.go -package=queriesmock

var ErrInvalidRosterFilter = errs.New("invalid roster filter")

// RosterEntry is one booking as shown on the daily roster.
type RosterEntry struct {
	BookingID       int64      `json:"booking_id"`
	EmployeeID      string     `json:"employee_id"`
	EmployeeName    string     `json:"employee_name"`
	Department      *string    `json:"department,omitempty"`
	Gender          *string    `json:"gender,omitempty"`
	CardNo          *string    `json:"card_no,omitempty"`
	SessionName     string     `json:"session_name"`
	ScheduleID      int64      `json:"schedule_id"`
	StartTime       string     `json:"start_time"`
	BookingDate     time.Time  `json:"booking_date"`
	Status          string     `json:"status"`
	ApprovalStatus  string     `json:"approval_status"`
	ApprovedBy      *string    `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type RosterFilter struct {
	Date           booking.Date
	ApprovalStatus *booking.ApprovalStatus
	ActiveOnly     bool
}

type BookingReadStore interface {
	DailyRoster(ctx context.Context, filter RosterFilter) ([]*RosterEntry, error)
}

type BookingQueries interface {
	DailyRoster(ctx context.Context, filter RosterFilter) ([]*RosterEntry, error)
}

type bookingQueriesImpl struct {
	store BookingReadStore
}

func NewBookingQueries(store BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{store: store}
}

func (q *bookingQueriesImpl) DailyRoster(ctx context.Context, filter RosterFilter) ([]*RosterEntry, error) {
	if filter.Date.IsZero() {
		return nil, errs.Mark(booking.ErrInvalidBookingDate, ErrInvalidRosterFilter)
	}
	if filter.ApprovalStatus != nil && !filter.ApprovalStatus.IsValid() {
		return nil, errs.Mark(booking.ErrInvalidApprovalStatus, ErrInvalidRosterFilter)
	}

	entries, err := q.store.DailyRoster(ctx, filter)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*RosterEntry{}
	}
	return entries, nil
}
