package usecase

import (
	"sync"
	"time"

	"github.com/x-xyz/auction/base/ctx"
)

// Locker is a lock shared by every replica of the service.
type Locker interface {
	// Lock blocks until key is held or ctx is done. The lock expires after
	// ttl if the holder dies.
	Lock(ctx ctx.Ctx, key string, ttl time.Duration) (unlock func(), err error)
}

// keyedMutex serializes calls on the same auction inside one process.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: map[string]*refMutex{}}
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
