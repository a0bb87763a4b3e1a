package redis

import (
	"errors"
	"time"

	"github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/service/cache/provider"
	"github.com/x-xyz/auction/service/redis"
)

type impl struct {
	redis redis.Service
}

// NewRedis is a cache shared by every replica.
func NewRedis(r redis.Service) provider.Provider {
	return &impl{redis: r}
}

func (im *impl) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	val, err := im.redis.Get(c, key)
	if errors.Is(err, redis.ErrNotFound) {
		return nil, 0, provider.ErrNotFound
	} else if err != nil {
		return nil, 0, err
	}

	ttl, err := im.redis.PTTL(c, key)
	if errors.Is(err, redis.ErrNotFound) {
		// expired in between
		return nil, 0, provider.ErrNotFound
	} else if err != nil {
		return nil, 0, err
	}
	if ttl == redis.Forever {
		ttl = 0
	}
	return val, ttl, nil
}

func (im *impl) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = redis.Forever
	}
	return im.redis.Set(c, key, value, ttl)
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	_, err := im.redis.Del(c, key)
	return err
}
