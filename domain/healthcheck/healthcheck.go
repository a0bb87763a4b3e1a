// Package healthcheck reports whether the backends the auction service
// depends on answer.
package healthcheck

import (
	"github.com/x-xyz/auction/base/ctx"
)

// HealthCheckUsecase fails when any configured backend is down.
type HealthCheckUsecase interface {
	Check(context ctx.Ctx) error
}

// HealthCheckRepo pings each backend. A backend that is not configured
// reports healthy.
type HealthCheckRepo interface {
	PingDB(context ctx.Ctx) error
	PingRedis(context ctx.Ctx) error
}
