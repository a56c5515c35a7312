package booking

import (
	"errors"
	"strings"
	"time"
)

const (
	sessionRefSeparator = "__"
	dateLayout          = "2006-01-02"
	clockLayout         = "15:04"
)

var (
	ErrEmployeeIDRequired    = errors.New("employeeId is required")
	ErrInvalidSessionRef     = errors.New("sessionId must look like <SessionName>__<HH:MM>")
	ErrInvalidBookingDate    = errors.New("bookingDate must be a valid YYYY-MM-DD date")
	ErrInvalidApprovalStatus = errors.New("invalid approval status")
)

type EmployeeID struct {
	value string
}

func NewEmployeeID(s string) (EmployeeID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return EmployeeID{}, ErrEmployeeIDRequired
	}
	return EmployeeID{value: s}, nil
}

func (e EmployeeID) String() string {
	return e.value
}

// SessionRef is the client-facing session identifier "<SessionName>__<HH:MM>".
type SessionRef struct {
	name      string
	startTime string
}

func ParseSessionRef(s string) (SessionRef, error) {
	idx := strings.LastIndex(s, sessionRefSeparator)
	if idx <= 0 {
		return SessionRef{}, ErrInvalidSessionRef
	}

	name := strings.TrimSpace(s[:idx])
	clock := strings.TrimSpace(s[idx+len(sessionRefSeparator):])
	if name == "" {
		return SessionRef{}, ErrInvalidSessionRef
	}

	start, err := time.Parse(clockLayout, clock)
	if err != nil {
		return SessionRef{}, ErrInvalidSessionRef
	}

	return SessionRef{name: name, startTime: start.Format(clockLayout)}, nil
}

func (r SessionRef) Name() string {
	return r.name
}

// StartTime is normalised to zero-padded HH:MM.
func (r SessionRef) StartTime() string {
	return r.startTime
}

func (r SessionRef) String() string {
	return r.name + sessionRefSeparator + r.startTime
}

// Date is a calendar date with no time-of-day, held as midnight UTC.
type Date struct {
	t time.Time
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidBookingDate
	}
	return Date{t: t}, nil
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Time() time.Time {
	return d.t
}

func (d Date) String() string {
	return d.t.Format(dateLayout)
}

func (d Date) IsZero() bool {
	return d.t.IsZero()
}
