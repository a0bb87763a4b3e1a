package compound

import (
	"errors"
	"time"

	"github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/service/cache/provider"
)

type impl struct {
	layers []provider.Provider
}

// order of layers is matter, compound cache only handle forward filling
// and return immediately once cache hit
func NewCompound(layers []provider.Provider) provider.Provider {
	return &impl{layers}
}

func (im *impl) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	var (
		val    []byte
		ttl    time.Duration
		err    error
		hitIdx = -1
	)

	for idx, lyr := range im.layers {
		if val, ttl, err = lyr.Get(c, key); errors.Is(err, provider.ErrNotFound) {
			continue
		} else if err != nil {
			return nil, 0, err
		}
		hitIdx = idx
		break
	}

	if hitIdx == -1 {
		return nil, 0, provider.ErrNotFound
	}

	// fill layers which missing cache, a failed fill only costs a later miss
	for idx := 0; idx < hitIdx; idx++ {
		if err := im.layers[idx].Set(c, key, val, ttl); err != nil {
			c.WithField("err", err).WithField("key", key).WithField("layer", idx).Warn("lyr.Set failed")
		}
	}

	return val, ttl, nil
}

func (im *impl) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	for _, lyr := range im.layers {
		if err := lyr.Set(c, key, value, ttl); err != nil {
			return err
		}
	}
	return nil
}

// Del removes key from every layer even when one of them fails, so a stale
// entry never survives in the layers after the failing one.
func (im *impl) Del(c ctx.Ctx, key string) error {
	var first error
	for idx, lyr := range im.layers {
		if err := lyr.Del(c, key); err != nil {
			c.WithField("err", err).WithField("key", key).WithField("layer", idx).Error("lyr.Del failed")
			if first == nil {
				first = err
			}
		}
	}
	return first
}
