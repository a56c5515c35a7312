package lock

import (
	"fmt"
	"time"

	"gym-booking/internal/pkg/config"
	"gym-booking/internal/pkg/errs"
	"gym-booking/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
)

const (
	ModeNone     = "none"
	ModeMutex    = "mutex"
	ModeAdvisory = "advisory"
	ModeRedis    = "redis"
)

var ErrLockTimeout = errs.New("timed out waiting for admission lock")

// New builds the locker selected by cfg.Admission.LockMode. The returned
// cleanup closes whatever connection the locker opened.
func New(cfg config.Config) (shared.AdmissionLocker, func(), error) {
	wait := cfg.Admission.LockWait
	switch cfg.Admission.LockMode {
	case ModeNone:
		return NoopLocker{}, func() {}, nil
	case ModeMutex:
		return NewMutexLocker(wait), func() {}, nil
	case ModeAdvisory, "":
		return NewAdvisoryLocker(wait), func() {}, nil
	case ModeRedis:
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, nil, errs.Wrap(err, "parse redis url")
		}
		client := redis.NewClient(opt)
		cleanup := func() { _ = client.Close() }
		return NewRedisLocker(client, cfg.Admission.LockTTL, wait), cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unknown admission lock mode %q", cfg.Admission.LockMode)
	}
}

func waitTimeout(wait time.Duration) time.Duration {
	if wait <= 0 {
		return 5 * time.Second
	}
	return wait
}
