package shared

import (
	"context"

	"gym-booking/internal/domain/booking"
	"gym-booking/internal/domain/session"
	"gym-booking/internal/infra/db"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	// SessionByStart returns infra KindNotFound when no session matches.
	SessionByStart(ctx context.Context, name, startTime string) (*session.Session, error)
	HasActiveBooking(ctx context.Context, employeeID string, date booking.Date) (bool, error)
	CountActiveBookings(ctx context.Context, scheduleID int64, date booking.Date) (int, error)
}

type BookingRepository interface {
	Create(ctx context.Context, tx db.DBTX, b *booking.Booking) (int64, error)
	// CloseBefore ends active bookings dated before date: BOOKED becomes
	// EXPIRED and CHECKIN becomes COMPLETED.
	CloseBefore(ctx context.Context, tx db.DBTX, date booking.Date) (int64, error)
}

// AdmissionLocker serialises admissions that compete for one key. The
// returned release must be called exactly once.
type AdmissionLocker interface {
	Acquire(ctx context.Context, tx db.DBTX, key string) (release func(), err error)
	// Enforces reports whether Acquire actually excludes concurrent callers.
	Enforces() bool
	Mode() string
}
