package attendance

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// 只有持有者才能释放锁，避免锁过期后误删别人的锁
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	client  *redis.Client
	timeout time.Duration
}

func NewRedisLocker(client *redis.Client, timeout time.Duration) *RedisLocker {
	return &RedisLocker{
		client:  client,
		timeout: timeout,
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()

	opCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	ok, err := l.client.SetNX(opCtx, key, token, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
		defer cancel()

		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			slog.Error("无法释放锁", "key", key, "error", err)
		}
	}

	return release, true, nil
}
