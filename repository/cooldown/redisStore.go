package cooldownrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store rate-limits verification code resends. Acquire attempts to take
// the cooldown slot for an identifier; when the slot is already held it
// returns the remaining wait in whole seconds.
type Store interface {
	Acquire(ctx context.Context, channel, identifier string, ttl time.Duration) (retryAfterSec int, err error)
}

type redisStore struct{ rdb *redis.Client }

func NewRedis(addr, password string) Store {
	return &redisStore{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})}
}

func key(channel, identifier string) string {
	return fmt.Sprintf("resend:%s:%s", channel, identifier)
}

func (s *redisStore) Acquire(ctx context.Context, channel, identifier string, ttl time.Duration) (int, error) {
	k := key(channel, identifier)
	ok, err := s.rdb.SetNX(ctx, k, 1, ttl).Result()
	if err != nil {
		return 0, err
	}
	if ok {
		return 0, nil
	}

	left, err := s.rdb.TTL(ctx, k).Result()
	if err != nil {
		return 0, err
	}
	sec := int(left.Round(time.Second).Seconds())
	if sec < 1 {
		sec = 1
	}
	return sec, nil
}
