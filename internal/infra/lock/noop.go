package lock

import (
	"context"

	"gym-booking/internal/infra/db"
)

// NoopLocker admits without exclusion. Concurrent admissions for the last
// seat of a session can all succeed.
type NoopLocker struct{}

func (NoopLocker) Acquire(context.Context, db.DBTX, string) (func(), error) {
	return func() {}, nil
}

func (NoopLocker) Enforces() bool { return false }

func (NoopLocker) Mode() string { return ModeNone }
