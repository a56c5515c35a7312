package request

import (
	"strings"

	"gym-booking/internal/domain/booking"
	"gym-booking/internal/usecase/commands"
	"gym-booking/internal/usecase/queries"
)

// CreateBookingRequest carries no binding rules: malformed admissions are
// declined by the use case with a VALIDATION_ERROR result, not a 400.
type CreateBookingRequest struct {
	EmployeeID  string `json:"employeeId" example:"E1001"`
	SessionID   string `json:"sessionId" example:"Morning__07:00"`
	BookingDate string `json:"bookingDate" example:"2024-01-15"`
}

// ToCommand builds the admission request. A non-blank employee id header,
// set by the upstream gateway, takes precedence over the body.
func (r *CreateBookingRequest) ToCommand(headerEmployeeID string) commands.CreateBookingRequest {
	employeeID := r.EmployeeID
	if h := strings.TrimSpace(headerEmployeeID); h != "" {
		employeeID = h
	}
	return commands.CreateBookingRequest{
		EmployeeID:  employeeID,
		SessionID:   r.SessionID,
		BookingDate: r.BookingDate,
	}
}

type RosterQuery struct {
	Date           string `form:"date" binding:"required,bookingdate"`
	ApprovalStatus string `form:"approvalStatus" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	ActiveOnly     bool   `form:"activeOnly"`
}

func (q *RosterQuery) ToFilter() (queries.RosterFilter, error) {
	date, err := booking.ParseDate(q.Date)
	if err != nil {
		return queries.RosterFilter{}, err
	}

	filter := queries.RosterFilter{Date: date, ActiveOnly: q.ActiveOnly}
	if q.ApprovalStatus != "" {
		status, err := booking.NewApprovalStatus(q.ApprovalStatus)
		if err != nil {
			return queries.RosterFilter{}, err
		}
		filter.ApprovalStatus = &status
	}
	return filter, nil
}
