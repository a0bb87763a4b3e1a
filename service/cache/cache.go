// Package cache serializes values over a Provider under a shared key prefix
// and ttl.
package cache

import (
	"errors"
	"time"

	"github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/service/cache/provider"
)

// ErrNotFound is returned by Get for a key nobody set or that expired.
var ErrNotFound = errors.New("cache: not found")

// OneTimeGetter loads the value on a miss. It must return a pointer.
type OneTimeGetter func() (interface{}, error)

type Serializer func(interface{}) ([]byte, error)

type Deserializer func([]byte, interface{}) error

// Service caches values of any type. Set and GetByFunc store with the
// configured ttl.
type Service interface {
	// GetByFunc fills container from the cache, or from getter on a miss.
	// Errors of getter are returned untouched.
	GetByFunc(c ctx.Ctx, key string, container interface{}, getter OneTimeGetter) error
	Get(c ctx.Ctx, key string, container interface{}) error
	Set(c ctx.Ctx, key string, value interface{}) error
	Del(c ctx.Ctx, key string) error
}

// ServiceConfig defaults to json for Serialize and Deserialize.
type ServiceConfig struct {
	Ttl         time.Duration
	Pfx         string
	Cache       provider.Provider
	Serialize   Serializer
	Deserialize Deserializer
}
