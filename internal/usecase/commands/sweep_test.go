//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"gym-booking/internal/domain/booking"
	"gym-booking/internal/pkg/clock"
	"gym-booking/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepUseCase_ClosePastBookings(t *testing.T) {
	store := newMemStore(morning)
	store.seed("E1", morning.ScheduleID, "2024-01-08", booking.StatusBooked)
	store.seed("E2", morning.ScheduleID, "2024-01-09", booking.StatusCheckIn)
	store.seed("E3", morning.ScheduleID, "2024-01-09", booking.StatusCancelled)
	store.seed("E4", morning.ScheduleID, "2024-01-10", booking.StatusBooked)

	tokyo := time.FixedZone("Asia/Tokyo", 9*60*60)
	// 2024-01-09 16:00 UTC is already 2024-01-10 in Tokyo.
	clk := clock.NewMockClock(time.Date(2024, 1, 9, 16, 0, 0, 0, time.UTC))
	obs := &recordingObserver{}
	uc := commands.NewSweepUseCase(&fakeUoW{store: store}, clk, tokyo, obs)

	n, err := uc.ClosePastBookings(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, int64(2), obs.expired)
	require.NotNil(t, store.closedBefore)
	assert.Equal(t, "2024-01-10", store.closedBefore.String())

	statuses := map[string]booking.Status{}
	for _, b := range store.bookings {
		statuses[b.employeeID] = b.status
	}
	assert.Equal(t, booking.StatusExpired, statuses["E1"])
	assert.Equal(t, booking.StatusCompleted, statuses["E2"])
	assert.Equal(t, booking.StatusCancelled, statuses["E3"])
	assert.Equal(t, booking.StatusBooked, statuses["E4"])
}
