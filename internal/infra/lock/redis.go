package lock

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"gym-booking/internal/infra/db"
	"gym-booking/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "gym-booking:lock:"

// Deletes the key only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a single-instance Redis lock. The TTL bounds how long a
// crashed holder can block a slot.
type RedisLocker struct {
	client   redis.Cmdable
	ttl      time.Duration
	wait     time.Duration
	backoff  time.Duration
	newToken func() string
}

func NewRedisLocker(client redis.Cmdable, ttl, wait time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLocker{
		client:   client,
		ttl:      ttl,
		wait:     waitTimeout(wait),
		backoff:  25 * time.Millisecond,
		newToken: uuid.NewString,
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, _ db.DBTX, key string) (func(), error) {
	redisKey := redisKeyPrefix + key
	token := l.newToken()

	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	for {
		ok, err := l.client.SetNX(waitCtx, redisKey, token, l.ttl).Result()
		if err != nil {
			if waitCtx.Err() != nil && ctx.Err() == nil {
				return nil, errs.Mark(err, ErrLockTimeout)
			}
			return nil, errs.Wrap(err, "acquire redis lock")
		}
		if ok {
			break
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, errs.Mark(waitCtx.Err(), ErrLockTimeout)
		case <-time.After(l.backoff):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, l.client, []string{redisKey}, token).Err(); err != nil {
				slog.Warn("failed to release redis lock", "key", redisKey, "error", err)
			}
		})
	}, nil
}

func (l *RedisLocker) Enforces() bool { return true }

func (l *RedisLocker) Mode() string { return ModeRedis }
