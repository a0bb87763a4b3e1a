package domain

import (
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/x-xyz/auction/base/ctx"
)

// HostClaims is what the host gateway asserts about a call: who made it.
type HostClaims struct {
	Caller string `json:"caller"`
	jwt.StandardClaims
}

type AuthUsecase interface {
	SignToken(ctx ctx.Ctx, caller Address, ttl time.Duration) (string, error)
	ParseToken(ctx ctx.Ctx, token string) (caller Address, err error)
}
