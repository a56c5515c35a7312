package booking

import (
	"gym-booking/internal/domain/employee"
	"gym-booking/internal/domain/session"
)

// Booking is a new admission, ready to be inserted. Rows read back from the
// store are served as read models, not as this entity.
type Booking struct {
	employeeID     EmployeeID
	cardNo         *string
	employeeName   string
	department     *string
	gender         *string
	sessionName    string
	scheduleID     int64
	bookingDate    Date
	status         Status
	approvalStatus ApprovalStatus
}

func NewBooking(profile employee.Profile, sess session.Session, date Date) (*Booking, error) {
	employeeID, err := NewEmployeeID(profile.EmployeeID)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		return nil, ErrInvalidBookingDate
	}

	return &Booking{
		employeeID:     employeeID,
		cardNo:         profile.CardNo,
		employeeName:   profile.Name,
		department:     profile.Department,
		gender:         profile.Gender,
		sessionName:    sess.Name,
		scheduleID:     sess.ScheduleID,
		bookingDate:    date,
		status:         StatusBooked,
		approvalStatus: ApprovalPending,
	}, nil
}

func (b *Booking) EmployeeID() EmployeeID {
	return b.employeeID
}

func (b *Booking) CardNo() *string {
	return b.cardNo
}

func (b *Booking) EmployeeName() string {
	return b.employeeName
}

func (b *Booking) Department() *string {
	return b.department
}

func (b *Booking) Gender() *string {
	return b.gender
}

func (b *Booking) SessionName() string {
	return b.sessionName
}

func (b *Booking) ScheduleID() int64 {
	return b.scheduleID
}

func (b *Booking) BookingDate() Date {
	return b.bookingDate
}

func (b *Booking) Status() Status {
	return b.status
}

func (b *Booking) ApprovalStatus() ApprovalStatus {
	return b.approvalStatus
}
