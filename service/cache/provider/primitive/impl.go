package primitive

import (
	"time"

	"github.com/coocood/freecache"

	"github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/base/metrics"
	"github.com/x-xyz/auction/service/cache/provider"
)

type impl struct {
	name  string
	cache *freecache.Cache
	met   metrics.Service
}

// NewPrimitive is an in-process cache of sizeMB megabytes.
func NewPrimitive(name string, sizeMB int) provider.Provider {
	return &impl{
		name:  name,
		cache: freecache.NewCache(sizeMB * 1024 * 1024),
		met:   metrics.New("cache"),
	}
}

// expireSeconds rounds ttl up to whole seconds. freecache treats 0 as no
// expiry, so a sub-second ttl must not truncate to it.
func expireSeconds(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	return int((ttl + time.Second - 1) / time.Second)
}

func (im *impl) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	val, expireAt, err := im.cache.GetWithExpiration([]byte(key))
	if err == freecache.ErrNotFound {
		im.met.BumpSum("miss", 1, "name", im.name)
		return nil, 0, provider.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("key", key).Error("cache.Get failed")
		return nil, 0, err
	}
	im.met.BumpSum("hit", 1, "name", im.name)
	return val, remaining(expireAt), nil
}

// remaining turns freecache's unix expiry into a ttl, 0 means no expiry.
func remaining(expireAt uint32) time.Duration {
	if expireAt == 0 {
		return 0
	}
	if ttl := time.Until(time.Unix(int64(expireAt), 0)); ttl > 0 {
		return ttl
	}
	return time.Millisecond
}

func (im *impl) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	if err := im.cache.Set([]byte(key), value, expireSeconds(ttl)); err != nil {
		c.WithField("err", err).WithField("key", key).Error("cache.Set failed")
		return err
	}
	return nil
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	im.cache.Del([]byte(key))
	return nil
}
