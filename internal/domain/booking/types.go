package booking

type Status string

const (
	StatusBooked    Status = "BOOKED"
	StatusCheckIn   Status = "CHECKIN"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
	StatusExpired   Status = "EXPIRED"
)

// ActiveStatuses are the statuses that hold a seat and count against both
// the one-booking-per-day rule and the session quota.
var ActiveStatuses = []Status{StatusBooked, StatusCheckIn}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusBooked, StatusCheckIn, StatusCompleted, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

func (s Status) IsActive() bool {
	return s == StatusBooked || s == StatusCheckIn
}

// CanTransitionTo enforces that terminal bookings stay terminal.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusBooked:
		return next == StatusCheckIn || next == StatusCancelled || next == StatusExpired
	case StatusCheckIn:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

func (a ApprovalStatus) String() string {
	return string(a)
}

func (a ApprovalStatus) IsValid() bool {
	switch a {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	default:
		return false
	}
}

func NewApprovalStatus(s string) (ApprovalStatus, error) {
	a := ApprovalStatus(s)
	if !a.IsValid() {
		return "", ErrInvalidApprovalStatus
	}
	return a, nil
}

func StatusStrings(statuses []Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
