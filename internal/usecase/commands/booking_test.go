//go:build unit

package commands_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"gym-booking/internal/domain/booking"
	"gym-booking/internal/domain/employee"
	"gym-booking/internal/domain/session"
	"gym-booking/internal/infra"
	"gym-booking/internal/infra/directory"
	"gym-booking/internal/infra/lock"
	"gym-booking/internal/pkg/clock"
	"gym-booking/internal/usecase/commands"
	"gym-booking/internal/usecase/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bookingDate = "2024-01-10"

var morning = session.Session{ScheduleID: 7, Name: "Morning", StartTime: "06:00", EndTime: "07:00", Quota: 15}

func strPtr(s string) *string { return &s }

func newDirectory() *fakeDirectory {
	return &fakeDirectory{
		records: map[string]employee.DirectoryRecord{
			"E100": {EmployeeID: "E100", Name: "Budi", Department: strPtr("Finance")},
			"E200": {EmployeeID: "E200", Name: "Sari", Department: strPtr("Legal"), CardNo: strPtr("OLD-1"), Gender: strPtr("F")},
		},
		employment: map[string]*employee.EmploymentRecord{
			"E200": {EmployeeID: "E200", Department: strPtr("Operations"), Current: true},
		},
		cards: map[string]*employee.CardRecord{
			"E200": {EmployeeID: "E200", CardNo: "CARD-200", Active: nil},
		},
	}
}

func newUseCase(store *memStore, dir commands.EmployeeDirectory, locker shared.AdmissionLocker, obs *recordingObserver) commands.BookingCommands {
	var observer commands.AdmissionObserver
	if obs != nil {
		observer = obs
	}
	return commands.NewBookingUseCase(
		&fakeUoW{store: store},
		dir,
		locker,
		observer,
		clock.NewMockClock(time.Date(2024, 1, 9, 8, 0, 0, 0, time.UTC)),
	)
}

func TestCreateBooking_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     commands.CreateBookingRequest
		wantMsg string
	}{
		{
			name:    "error: blank employee id",
			req:     commands.CreateBookingRequest{EmployeeID: "  ", SessionID: "Morning__06:00", BookingDate: bookingDate},
			wantMsg: booking.ErrEmployeeIDRequired.Error(),
		},
		{
			name:    "error: session id without time",
			req:     commands.CreateBookingRequest{EmployeeID: "E100", SessionID: "Morning", BookingDate: bookingDate},
			wantMsg: booking.ErrInvalidSessionRef.Error(),
		},
		{
			name:    "error: session id with bad time",
			req:     commands.CreateBookingRequest{EmployeeID: "E100", SessionID: "Morning__25:00", BookingDate: bookingDate},
			wantMsg: booking.ErrInvalidSessionRef.Error(),
		},
		{
			name:    "error: impossible calendar date",
			req:     commands.CreateBookingRequest{EmployeeID: "E100", SessionID: "Morning__06:00", BookingDate: "2024-02-30"},
			wantMsg: booking.ErrInvalidBookingDate.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore(morning)
			uc := newUseCase(store, newDirectory(), lock.NoopLocker{}, nil)

			got := uc.CreateBooking(context.Background(), tt.req)

			assert.False(t, got.OK)
			assert.Equal(t, commands.CodeValidation, got.Code)
			assert.Equal(t, tt.wantMsg, got.Error)
			assert.Empty(t, store.inserted())
		})
	}
}

func TestCreateBooking_Declines(t *testing.T) {
	ctx := context.Background()

	t.Run("error: unknown session", func(t *testing.T) {
		uc := newUseCase(newMemStore(morning), newDirectory(), lock.NewMutexLocker(time.Second), nil)

		got := uc.CreateBooking(ctx, commands.CreateBookingRequest{EmployeeID: "E100", SessionID: "Evening__18:00", BookingDate: bookingDate})

		assert.Equal(t, &commands.AdmissionResult{OK: false, Error: "Session not found", Code: commands.CodeSessionNotFound}, got)
	})

	t.Run("error: session full", func(t *testing.T) {
		store := newMemStore(morning)
		for i := 0; i < morning.Quota; i++ {
			store.seed(fmt.Sprintf("X%03d", i), morning.ScheduleID, bookingDate, booking.StatusBooked)
		}
		uc := newUseCase(store, newDirectory(), lock.NewMutexLocker(time.Second), nil)

		got := uc.CreateBooking(ctx, commands.CreateBookingRequest{EmployeeID: "E200", SessionID: "Morning__06:00", BookingDate: bookingDate})

		assert.False(t, got.OK)
		assert.Equal(t, "This session is full", got.Error)
		assert.Equal(t, commands.CodeCapacityExceeded, got.Code)
	})

	t.Run("success: cancelled bookings do not hold a seat", func(t *testing.T) {
		store := newMemStore(morning)
		for i := 0; i < morning.Quota; i++ {
			status := booking.StatusBooked
			if i == 0 {
				status = booking.StatusCancelled
			}
			store.seed(fmt.Sprintf("X%03d", i), morning.ScheduleID, bookingDate, status)
		}
		uc := newUseCase(store, newDirectory(), lock.NewMutexLocker(time.Second), nil)

		got := uc.CreateBooking(ctx, commands.CreateBookingRequest{EmployeeID: "E200", SessionID: "Morning__06:00", BookingDate: bookingDate})

		assert.True(t, got.OK, got.Error)
	})

	t.Run("error: already registered for the day", func(t *testing.T) {
		store := newMemStore(morning, session.Session{ScheduleID: 8, Name: "Evening", StartTime: "18:00", Quota: 10})
		store.seed("E100", 8, bookingDate, booking.StatusCheckIn)
		uc := newUseCase(store, newDirectory(), lock.NewMutexLocker(time.Second), nil)

		got := uc.CreateBooking(ctx, commands.CreateBookingRequest{EmployeeID: "E100", SessionID: "Morning__06:00", BookingDate: bookingDate})

		assert.False(t, got.OK)
		assert.Equal(t, "You are already registered for this day", got.Error)
		assert.Equal(t, commands.CodeDuplicateBooking, got.Code)
	})

	t.Run("error: unique index reports a duplicate missed by the fast path", func(t *testing.T) {
		store := newMemStore(morning)
		store.seed("E100", morning.ScheduleID, bookingDate, booking.StatusBooked)
		store.staleReads = true
		uc := newUseCase(store, newDirectory(), lock.NoopLocker{}, nil)

		got := uc.CreateBooking(ctx, commands.CreateBookingRequest{EmployeeID: "E100", SessionID: "Morning__06:00", BookingDate: bookingDate})

		assert.Equal(t, commands.CodeDuplicateBooking, got.Code)
		assert.Equal(t, "You are already registered for this day", got.Error)
	})

	t.Run("error: employee missing from directory", func(t *testing.T) {
		uc := newUseCase(newMemStore(morning), newDirectory(), lock.NewMutexLocker(time.Second), nil)

		got := uc.CreateBooking(ctx, commands.CreateBookingRequest{EmployeeID: "E999", SessionID: "Morning__06:00", BookingDate: bookingDate})

		assert.Equal(t, commands.CodeEmployeeNotFound, got.Code)
		assert.Equal(t, "Employee not found", got.Error)
	})

	t.Run("error: directory schema cannot be resolved", func(t *testing.T) {
		dir := newDirectory()
		dir.findErr = infra.WrapRepoErr("resolve employee", &directory.SchemaResolutionError{Entity: "employee", Reason: "no table"}, infra.KindSchemaResolution)
		uc := newUseCase(newMemStore(morning), dir, lock.NewMutexLocker(time.Second), nil)

		got := uc.CreateBooking(ctx, commands.CreateBookingRequest{EmployeeID: "E100", SessionID: "Morning__06:00", BookingDate: bookingDate})

		assert.Equal(t, commands.CodeSchemaResolution, got.Code)
	})

	t.Run("error: infrastructure failure hides the driver message", func(t *testing.T) {
		store := newMemStore(morning)
		store.readErr = infra.WrapRepoErr("failed to find session", errors.New("dial tcp 10.0.0.5:5432: connection refused"))
		uc := newUseCase(store, newDirectory(), lock.NewMutexLocker(time.Second), nil)

		got := uc.CreateBooking(ctx, commands.CreateBookingRequest{EmployeeID: "E100", SessionID: "Morning__06:00", BookingDate: bookingDate})

		assert.Equal(t, commands.CodeInfrastructure, got.Code)
		assert.Equal(t, commands.ErrInfrastructure.Error(), got.Error)
		assert.NotContains(t, got.Error, "10.0.0.5")
	})
}

func TestCreateBooking_Enrichment(t *testing.T) {
	ctx := context.Background()

	t.Run("success: employment department and card store win", func(t *testing.T) {
		store := newMemStore(morning)
		obs := &recordingObserver{}
		uc := newUseCase(store, newDirectory(), lock.NewMutexLocker(time.Second), obs)

		got := uc.CreateBooking(ctx, commands.CreateBookingRequest{EmployeeID: " E200 ", SessionID: "Morning__6:00", BookingDate: bookingDate})

		require.True(t, got.OK, got.Error)
		assert.Equal(t, morning.ScheduleID, got.ScheduleID)
		assert.NotZero(t, got.BookingID)

		rows := store.inserted()
		require.Len(t, rows, 1)
		b := rows[0]
		assert.Equal(t, "E200", b.EmployeeID().String())
		assert.Equal(t, "Sari", b.EmployeeName())
		assert.Equal(t, "Operations", *b.Department())
		assert.Equal(t, "CARD-200", *b.CardNo())
		assert.Equal(t, "F", *b.Gender())
		assert.Equal(t, "Morning", b.SessionName())
		assert.Equal(t, booking.StatusBooked, b.Status())
		assert.Equal(t, booking.ApprovalPending, b.ApprovalStatus())

		assert.Equal(t, []string{"ADMITTED"}, obs.outcomes)
		assert.Equal(t, []string{lock.ModeMutex}, obs.lockModes)
	})

	t.Run("success: card store failure falls back to directory card", func(t *testing.T) {
		store := newMemStore(morning)
		dir := newDirectory()
		dir.cardErr = errors.New("card store offline")
		uc := newUseCase(store, dir, lock.NewMutexLocker(time.Second), nil)

		got := uc.CreateBooking(ctx, commands.CreateBookingRequest{EmployeeID: "E200", SessionID: "Morning__06:00", BookingDate: bookingDate})

		require.True(t, got.OK, got.Error)
		assert.Equal(t, "OLD-1", *store.inserted()[0].CardNo())
	})

	t.Run("success: no card anywhere stores null", func(t *testing.T) {
		store := newMemStore(morning)
		uc := newUseCase(store, newDirectory(), lock.NewMutexLocker(time.Second), nil)

		got := uc.CreateBooking(ctx, commands.CreateBookingRequest{EmployeeID: "E100", SessionID: "Morning__06:00", BookingDate: bookingDate})

		require.True(t, got.OK, got.Error)
		b := store.inserted()[0]
		assert.Nil(t, b.CardNo())
		assert.Equal(t, "Finance", *b.Department())
	})
}

func TestCreateBooking_SequentialInvariants(t *testing.T) {
	ctx := context.Background()
	small := session.Session{ScheduleID: 9, Name: "Noon", StartTime: "12:00", Quota: 3}
	store := newMemStore(small)
	uc := newUseCase(store, &everyone{}, lock.NewMutexLocker(time.Second), nil)

	admitted := 0
	for i := 0; i < 6; i++ {
		got := uc.CreateBooking(ctx, commands.CreateBookingRequest{EmployeeID: fmt.Sprintf("S%d", i%4), SessionID: "Noon__12:00", BookingDate: bookingDate})
		if got.OK {
			admitted++
		}
	}

	assert.Equal(t, small.Quota, admitted)
	assert.Equal(t, small.Quota, store.activeFor(small.ScheduleID, bookingDate))
}

// Every admission passes the fast-path capacity read before any of them
// inserts, which is the window a burst of concurrent requests hits.
func TestCreateBooking_ConcurrentLastSeat(t *testing.T) {
	const contenders = 5
	lastSeat := session.Session{ScheduleID: 11, Name: "Spin", StartTime: "19:30", Quota: 1}

	run := func(t *testing.T, locker shared.AdmissionLocker) (admitted int, store *memStore) {
		store = newMemStore(lastSeat)
		var barrier sync.WaitGroup
		barrier.Add(contenders)
		store.fastPathBarrier = &barrier
		uc := newUseCase(store, &everyone{}, locker, nil)

		results := make([]*commands.AdmissionResult, contenders)
		var wg sync.WaitGroup
		for i := 0; i < contenders; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = uc.CreateBooking(context.Background(), commands.CreateBookingRequest{
					EmployeeID:  fmt.Sprintf("R%d", i),
					SessionID:   "Spin__19:30",
					BookingDate: bookingDate,
				})
			}(i)
		}
		wg.Wait()

		for _, r := range results {
			if r.OK {
				admitted++
				continue
			}
			assert.Equal(t, commands.CodeCapacityExceeded, r.Code)
		}
		return admitted, store
	}

	t.Run("without a lock the quota is overrun", func(t *testing.T) {
		admitted, store := run(t, lock.NoopLocker{})
		assert.Equal(t, contenders, admitted)
		assert.Greater(t, store.activeFor(lastSeat.ScheduleID, bookingDate), lastSeat.Quota)
	})

	t.Run("with the slot lock exactly the quota is admitted", func(t *testing.T) {
		admitted, store := run(t, lock.NewMutexLocker(5*time.Second))
		assert.Equal(t, lastSeat.Quota, admitted)
		assert.Equal(t, lastSeat.Quota, store.activeFor(lastSeat.ScheduleID, bookingDate))
	})
}

func TestSlotLockKey(t *testing.T) {
	date, err := booking.ParseDate(bookingDate)
	require.NoError(t, err)
	assert.Equal(t, "gym-slot:7:2024-01-10", commands.SlotLockKey(7, date))
}
