package provider

import (
	"errors"
	"time"

	"github.com/x-xyz/auction/base/ctx"
)

var (
	// ErrNotFound is returned by Get for a missing or expired key.
	ErrNotFound = errors.New("key not in cache")
)

// Provider is a raw byte cache. Get returns the remaining ttl of the key. A zero ttl on Set keeps the value until it is evicted.
type Provider interface {
	Get(c ctx.Ctx, key string) ([]byte, time.Duration, error)
	Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error
	Del(c ctx.Ctx, key string) error
}
