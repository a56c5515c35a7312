package lock

import (
	"context"
	"errors"
	"time"

	"gym-booking/internal/infra/db"
	"gym-booking/internal/pkg/errs"
)

// AdvisoryLocker takes a transaction-scoped PostgreSQL advisory lock, so it
// holds across every instance sharing the booking store and is released by
// commit or rollback.
type AdvisoryLocker struct {
	wait time.Duration
}

func NewAdvisoryLocker(wait time.Duration) *AdvisoryLocker {
	return &AdvisoryLocker{wait: waitTimeout(wait)}
}

func (l *AdvisoryLocker) Acquire(ctx context.Context, tx db.DBTX, key string) (func(), error) {
	if tx == nil {
		return nil, errs.New("advisory lock needs a transaction")
	}

	lockCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	if _, err := tx.Exec(lockCtx, "SELECT pg_advisory_xact_lock(hashtext($1))", key); err != nil {
		if errors.Is(lockCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, errs.Mark(err, ErrLockTimeout)
		}
		return nil, errs.Wrap(err, "acquire advisory lock")
	}
	return func() {}, nil
}

func (l *AdvisoryLocker) Enforces() bool { return true }

func (l *AdvisoryLocker) Mode() string { return ModeAdvisory }
