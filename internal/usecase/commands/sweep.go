package commands

import (
	"context"
	"log/slog"
	"time"

	"gym-booking/internal/domain/booking"
	"gym-booking/internal/pkg/clock"
	"gym-booking/internal/usecase/shared"
)

type SweepCommands interface {
	// ClosePastBookings ends active bookings dated before today in the
	// booking time zone.
	ClosePastBookings(ctx context.Context) (int64, error)
}

type sweepUseCaseImpl struct {
	uow      shared.UnitOfWork
	clock    clock.Clock
	loc      *time.Location
	observer SweepObserver
}

func NewSweepUseCase(uow shared.UnitOfWork, clk clock.Clock, loc *time.Location, observer SweepObserver) SweepCommands {
	if loc == nil {
		loc = time.UTC
	}
	return &sweepUseCaseImpl{uow: uow, clock: clk, loc: loc, observer: observer}
}

func (uc *sweepUseCaseImpl) ClosePastBookings(ctx context.Context) (int64, error) {
	today := booking.DateOf(clock.Today(uc.clock, uc.loc))

	var closed int64
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, err := tx.Bookings().CloseBefore(ctx, tx.DB(), today)
		if err != nil {
			return err
		}
		closed = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	if uc.observer != nil {
		uc.observer.AddExpired(closed)
	}
	slog.InfoContext(ctx, "closed past bookings", "before", today.String(), "rows", closed)
	return closed, nil
}
