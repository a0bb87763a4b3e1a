package usecase

import (
	"golang.org/x/xerrors"

	"github.com/x-xyz/auction/base/ctx"
	hcdomain "github.com/x-xyz/auction/domain/healthcheck"
)

type impl struct {
	repo hcdomain.HealthCheckRepo
}

func New(repo hcdomain.HealthCheckRepo) hcdomain.HealthCheckUsecase {
	return &impl{
		repo: repo,
	}
}

// Check stops at the first backend down, its name prefixes the error.
func (im *impl) Check(c ctx.Ctx) error {
	if err := im.repo.PingDB(c); err != nil {
		return xerrors.Errorf("mongo: %w", err)
	}
	if err := im.repo.PingRedis(c); err != nil {
		return xerrors.Errorf("redis: %w", err)
	}
	return nil
}
