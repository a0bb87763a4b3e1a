package repository

import (
	"context"
	"time"

	"github.com/x-xyz/auction/base/ctx"
	hcdomain "github.com/x-xyz/auction/domain/healthcheck"
	"github.com/x-xyz/auction/service/redis"
)

const pingTimeout = 2 * time.Second

// Pinger is a database that answers a ping. mongoclient.Client is one.
type Pinger interface {
	PingPrimary(ctx context.Context) error
}

type impl struct {
	db    Pinger
	redis redis.Service
}

// New returns a repo checking the given backends. A nil backend is not in use
// and always healthy.
func New(db Pinger, redis redis.Service) hcdomain.HealthCheckRepo {
	return &impl{
		db:    db,
		redis: redis,
	}
}

func (im *impl) PingDB(c ctx.Ctx) error {
	if im.db == nil {
		return nil
	}
	pc, cancel := ctx.WithTimeout(c, pingTimeout)
	defer cancel()
	if err := im.db.PingPrimary(pc); err != nil {
		c.WithField("err", err).Error("ping mongo error")
		return err
	}
	return nil
}

func (im *impl) PingRedis(c ctx.Ctx) error {
	if im.redis == nil {
		return nil
	}
	pc, cancel := ctx.WithTimeout(c, pingTimeout)
	defer cancel()
	if err := im.redis.Ping(pc); err != nil {
		c.WithField("err", err).Error("ping redis error")
		return err
	}
	return nil
}
