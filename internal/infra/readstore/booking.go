package readstore

import (
	"context"
	"strings"

	"gym-booking/internal/domain/booking"
	"gym-booking/internal/domain/session"
	"gym-booking/internal/infra"
	"gym-booking/internal/infra/db"
	"gym-booking/internal/pkg/pgconv"
	"gym-booking/internal/usecase/queries"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const findSessionSQL = `SELECT schedule_id, session_name, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'), quota
FROM gym_sessions
WHERE session_name = $1 AND start_time = $2::time
ORDER BY schedule_id
LIMIT 1`

const hasActiveBookingSQL = `SELECT EXISTS (
    SELECT 1 FROM gym_bookings
    WHERE employee_id = $1 AND booking_date = $2 AND status IN ('BOOKED', 'CHECKIN')
)`

const countActiveBookingsSQL = `SELECT count(*)
FROM gym_bookings
WHERE schedule_id = $1 AND booking_date = $2 AND status IN ('BOOKED', 'CHECKIN')`

const dailyRosterSQL = `SELECT b.booking_id, b.employee_id, b.employee_name, b.department, b.gender, b.card_no,
    b.session_name, b.schedule_id, COALESCE(to_char(s.start_time, 'HH24:MI'), ''),
    b.booking_date, b.status, b.approval_status, b.approved_by, b.approved_at::timestamptz, b.rejection_reason, b.created_at::timestamptz
FROM gym_bookings b
LEFT JOIN gym_sessions s ON s.schedule_id = b.schedule_id
WHERE b.booking_date = $1
  AND ($2::text IS NULL OR b.approval_status = $2)
  AND (NOT $3::boolean OR b.status IN ('BOOKED', 'CHECKIN'))
ORDER BY s.start_time NULLS LAST, b.session_name, b.created_at, b.booking_id`

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(db db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: db}
}

func (r *BookingReadStore) FindSession(ctx context.Context, name, startTime string) (*session.Session, error) {
	var s session.Session
	var quota int32
	err := r.db.QueryRow(ctx, findSessionSQL, name, startTime).
		Scan(&s.ScheduleID, &s.Name, &s.StartTime, &s.EndTime, &quota)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("session not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find session", err)
	}
	s.Quota = int(quota)
	return &s, nil
}

func (r *BookingReadStore) HasActiveBooking(ctx context.Context, employeeID string, date booking.Date) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, hasActiveBookingSQL, employeeID, pgconv.DateToPgtype(date.Time())).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check active booking", err)
	}
	return exists, nil
}

func (r *BookingReadStore) CountActive(ctx context.Context, scheduleID int64, date booking.Date) (int, error) {
	var n int64
	if err := r.db.QueryRow(ctx, countActiveBookingsSQL, scheduleID, pgconv.DateToPgtype(date.Time())).Scan(&n); err != nil {
		return 0, infra.WrapRepoErr("failed to count active bookings", err)
	}
	return int(n), nil
}

func (r *BookingReadStore) DailyRoster(ctx context.Context, filter queries.RosterFilter) ([]*queries.RosterEntry, error) {
	approval := pgtype.Text{}
	if filter.ApprovalStatus != nil {
		approval = pgtype.Text{String: filter.ApprovalStatus.String(), Valid: true}
	}

	rows, err := r.db.Query(ctx, dailyRosterSQL, pgconv.DateToPgtype(filter.Date.Time()), approval, filter.ActiveOnly)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load daily roster", err)
	}

	entries, err := pgx.CollectRows(rows, scanRosterEntry)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan daily roster", err)
	}
	return entries, nil
}

func scanRosterEntry(row pgx.CollectableRow) (*queries.RosterEntry, error) {
	var (
		e                           queries.RosterEntry
		department, gender, cardNo  pgtype.Text
		approvedBy, rejectionReason pgtype.Text
		bookingDate                 pgtype.Date
		approvedAt, createdAt       pgtype.Timestamptz
	)
	err := row.Scan(
		&e.BookingID, &e.EmployeeID, &e.EmployeeName, &department, &gender, &cardNo,
		&e.SessionName, &e.ScheduleID, &e.StartTime,
		&bookingDate, &e.Status, &e.ApprovalStatus, &approvedBy, &approvedAt, &rejectionReason, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	e.EmployeeName = strings.TrimSpace(e.EmployeeName)
	e.Department = pgconv.StringPtrFromPgtype(department)
	e.Gender = pgconv.StringPtrFromPgtype(gender)
	e.CardNo = pgconv.StringPtrFromPgtype(cardNo)
	e.BookingDate = pgconv.DateFromPgtype(bookingDate)
	e.ApprovedBy = pgconv.StringPtrFromPgtype(approvedBy)
	e.ApprovedAt = pgconv.TimePtrFromPgtype(approvedAt)
	e.RejectionReason = pgconv.StringPtrFromPgtype(rejectionReason)
	e.CreatedAt = createdAt.Time
	return &e, nil
}
