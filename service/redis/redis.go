package redis

import (
	"errors"
	"time"

	"github.com/x-xyz/auction/base/ctx"
)

const (
	// Forever means the key never expires
	Forever = time.Duration(-1)
)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("redis key not found")
	// ErrNotSet is returned by SetNX when the key already exists
	ErrNotSet = errors.New("redis key not set")
	// ErrLockTimeout is returned when a lock could not be taken before the
	// ctx was done
	ErrLockTimeout = errors.New("redis lock timeout")
)

// Service is the redis client of the service.
type Service interface {
	Ping(context ctx.Ctx) error

	Get(context ctx.Ctx, key string) ([]byte, error)
	// PTTL returns the remaining time to live of key, or Forever.
	PTTL(context ctx.Ctx, key string) (time.Duration, error)
	Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error
	// SetNX sets key only if it does not exist. Returns ErrNotSet otherwise.
	SetNX(context ctx.Ctx, key string, val []byte, expire time.Duration) error
	Del(context ctx.Ctx, ks ...string) (int, error)

	// Lock blocks until the lock on key is held or the ctx is done. The lock
	// expires after ttl if it is never released.
	Lock(context ctx.Ctx, key string, ttl time.Duration) (unlock func(), err error)
}
