package repository

import (
	"context"

	"gym-booking/internal/domain/booking"
	"gym-booking/internal/infra"
	"gym-booking/internal/infra/db"
	"gym-booking/internal/infra/repository/converter"
	"gym-booking/internal/pkg/pgconv"
)

const createBookingSQL = `INSERT INTO gym_bookings (
    employee_id, card_no, employee_name, department, gender,
    session_name, schedule_id, booking_date, status, approval_status
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING booking_id`

// Past BOOKED rows were never attended; past CHECKIN rows were.
const closePastBookingsSQL = `UPDATE gym_bookings
SET status = CASE status WHEN 'BOOKED' THEN 'EXPIRED' ELSE 'COMPLETED' END
WHERE status IN ('BOOKED', 'CHECKIN') AND booking_date < $1`

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

func (r *BookingRepository) Create(ctx context.Context, tx db.DBTX, b *booking.Booking) (int64, error) {
	p := converter.BookingToInfra(b)

	var id int64
	err := tx.QueryRow(ctx, createBookingSQL,
		p.EmployeeID, p.CardNo, p.EmployeeName, p.Department, p.Gender,
		p.SessionName, p.ScheduleID, p.BookingDate, p.Status, p.ApprovalStatus,
	).Scan(&id)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to create booking", err)
	}

	return id, nil
}

func (r *BookingRepository) CloseBefore(ctx context.Context, tx db.DBTX, date booking.Date) (int64, error) {
	tag, err := tx.Exec(ctx, closePastBookingsSQL, pgconv.DateToPgtype(date.Time()))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to close past bookings", err)
	}
	return tag.RowsAffected(), nil
}
