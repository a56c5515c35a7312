package converter

import (
	"gym-booking/internal/domain/booking"
	"gym-booking/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
)

type CreateBookingParams struct {
	EmployeeID     string
	CardNo         pgtype.Text
	EmployeeName   string
	Department     pgtype.Text
	Gender         pgtype.Text
	SessionName    string
	ScheduleID     int64
	BookingDate    pgtype.Date
	Status         string
	ApprovalStatus string
}

func BookingToInfra(b *booking.Booking) CreateBookingParams {
	return CreateBookingParams{
		EmployeeID:     b.EmployeeID().String(),
		CardNo:         nullableText(b.CardNo()),
		EmployeeName:   b.EmployeeName(),
		Department:     nullableText(b.Department()),
		Gender:         nullableText(b.Gender()),
		SessionName:    b.SessionName(),
		ScheduleID:     b.ScheduleID(),
		BookingDate:    pgconv.DateToPgtype(b.BookingDate().Time()),
		Status:         b.Status().String(),
		ApprovalStatus: b.ApprovalStatus().String(),
	}
}

func nullableText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return pgconv.NullableText(*s)
}
