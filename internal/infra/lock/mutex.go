package lock

import (
	"context"
	"sync"
	"time"

	"gym-booking/internal/infra/db"
	"gym-booking/internal/pkg/errs"
)

// MutexLocker excludes admissions inside one process only.
type MutexLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
	wait  time.Duration
}

type slot struct {
	held chan struct{}
	refs int
}

func NewMutexLocker(wait time.Duration) *MutexLocker {
	return &MutexLocker{
		slots: make(map[string]*slot),
		wait:  waitTimeout(wait),
	}
}

func (l *MutexLocker) Acquire(ctx context.Context, _ db.DBTX, key string) (func(), error) {
	s := l.ref(key)

	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	select {
	case s.held <- struct{}{}:
	case <-ctx.Done():
		l.unref(key, s)
		return nil, errs.Mark(ctx.Err(), ErrLockTimeout)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.held
			l.unref(key, s)
		})
	}, nil
}

func (l *MutexLocker) Enforces() bool { return true }

func (l *MutexLocker) Mode() string { return ModeMutex }

func (l *MutexLocker) ref(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{held: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *MutexLocker) unref(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}
