//go:build unit

package booking_test

import (
	"testing"

	"gym-booking/internal/domain/booking"
	"gym-booking/internal/domain/employee"
	"gym-booking/internal/domain/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSessionRef(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		wantName  string
		wantStart string
		wantErr   bool
	}{
		{name: "canonical", input: "Morning Yoga__07:30", wantName: "Morning Yoga", wantStart: "07:30"},
		{name: "single digit hour is padded", input: "Spin__9:05", wantName: "Spin", wantStart: "09:05"},
		{name: "separator inside name", input: "HIIT__Pro__18:00", wantName: "HIIT__Pro", wantStart: "18:00"},
		{name: "missing separator", input: "Morning Yoga 07:30", wantErr: true},
		{name: "missing name", input: "__07:30", wantErr: true},
		{name: "bad clock", input: "Spin__25:00", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ref, err := booking.ParseSessionRef(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, booking.ErrInvalidSessionRef)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantName, ref.Name())
			assert.Equal(t, tc.wantStart, ref.StartTime())
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := booking.ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())

	for _, bad := range []string{"2023-02-29", "2024-13-01", "01/02/2024", ""} {
		_, err := booking.ParseDate(bad)
		assert.ErrorIs(t, err, booking.ErrInvalidBookingDate, bad)
	}
}

func TestNewEmployeeID(t *testing.T) {
	id, err := booking.NewEmployeeID("  E001 ")
	require.NoError(t, err)
	assert.Equal(t, "E001", id.String())

	_, err = booking.NewEmployeeID("   ")
	assert.ErrorIs(t, err, booking.ErrEmployeeIDRequired)
}

func TestNewBooking(t *testing.T) {
	dept := "Finance"
	profile := employee.Profile{EmployeeID: "E001", Name: "Alice", Department: &dept}
	sess := session.Session{ScheduleID: 42, Name: "Morning Yoga", StartTime: "07:30", EndTime: "08:30", Quota: 10}
	date, err := booking.ParseDate("2025-01-10")
	require.NoError(t, err)

	b, err := booking.NewBooking(profile, sess, date)
	require.NoError(t, err)

	assert.Equal(t, booking.StatusBooked, b.Status())
	assert.Equal(t, booking.ApprovalPending, b.ApprovalStatus())
	assert.Equal(t, int64(42), b.ScheduleID())
	assert.Equal(t, "Morning Yoga", b.SessionName())
	assert.Equal(t, "E001", b.EmployeeID().String())
	assert.Equal(t, &dept, b.Department())
	assert.Nil(t, b.CardNo())

	_, err = booking.NewBooking(employee.Profile{}, sess, date)
	assert.ErrorIs(t, err, booking.ErrEmployeeIDRequired)
}

func TestStatus_Transitions(t *testing.T) {
	assert.True(t, booking.StatusBooked.IsActive())
	assert.True(t, booking.StatusCheckIn.IsActive())
	assert.False(t, booking.StatusExpired.IsActive())

	assert.True(t, booking.StatusBooked.CanTransitionTo(booking.StatusExpired))
	for _, terminal := range []booking.Status{booking.StatusCompleted, booking.StatusCancelled, booking.StatusExpired} {
		assert.False(t, terminal.CanTransitionTo(booking.StatusBooked), "%s must not be resurrected", terminal)
	}
}

func TestSession_IsFull(t *testing.T) {
	s := session.Session{Quota: 2}
	assert.False(t, s.IsFull(1))
	assert.True(t, s.IsFull(2))
	assert.True(t, s.IsFull(3))
}
