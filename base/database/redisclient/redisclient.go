package redisclient

import (
	"context"
	"time"

	"github.com/gomodule/redigo/redis"
	"golang.org/x/xerrors"

	"github.com/x-xyz/auction/base/backoff"
	"github.com/x-xyz/auction/base/log"
)

const (
	dialTimeout  = 2 * time.Second
	readTimeout  = 1500 * time.Millisecond
	writeTimeout = 1500 * time.Millisecond

	dialAttempts = 4
)

type Config struct {
	URI      string
	Password string
	MaxIdle  int
	// MaxActive bounds the pool. Callers block when it is exhausted.
	MaxActive int
	// Retry dials again with backoff when the first dial fails.
	Retry bool
}

// MustConnect returns a checked pool or panics.
func MustConnect(cfg Config) *redis.Pool {
	p, err := Connect(cfg)
	if err != nil {
		log.Log().WithFields(log.Fields{"redisURI": cfg.URI, "err": err}).Panic("fail to dial Redis")
	}
	return p
}

// Connect builds a pool for cfg.URI and checks it with a PING.
func Connect(cfg Config) (*redis.Pool, error) {
	if cfg.MaxIdle <= 0 {
		cfg.MaxIdle = 64
	}
	if cfg.MaxActive <= 0 {
		cfg.MaxActive = 256
	}

	opts := []redis.DialOption{
		redis.DialConnectTimeout(dialTimeout),
		redis.DialReadTimeout(readTimeout),
		redis.DialWriteTimeout(writeTimeout),
	}
	if cfg.Password != "" {
		opts = append(opts, redis.DialPassword(cfg.Password))
	}
	p := &redis.Pool{
		MaxIdle:     cfg.MaxIdle,
		MaxActive:   cfg.MaxActive,
		Wait:        true,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", cfg.URI, opts...)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			// No need to test if it's been recycled less than 1 sec.
			if time.Since(t) < time.Second {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}

	attempts := 1
	if cfg.Retry {
		// pods sometimes start before their network is ready
		attempts = dialAttempts
	}
	b := backoff.NewLinear(time.Second, 3*time.Second)
	err := b.Retry(context.Background(), attempts, func() error {
		c := p.Get()
		defer c.Close()
		_, err := c.Do("PING")
		if err != nil {
			log.Log().WithFields(log.Fields{"redisURI": cfg.URI, "err": err, "attempt": b.Count()}).Warn("fail to ping Redis")
		}
		return err
	}, nil)
	if err != nil {
		p.Close()
		return nil, xerrors.Errorf("ping %s: %w", cfg.URI, err)
	}

	log.Log().WithField("redisURI", cfg.URI).Info("redis connected")
	return p, nil
}
