package usecase

import (
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/xerrors"

	"github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/domain"
)

var (
	timeNow = time.Now
)

type impl struct {
	jwtSecret []byte
}

func New(jwtSecret string) domain.AuthUsecase {
	return &impl{
		jwtSecret: []byte(jwtSecret),
	}
}

// SignToken returns a host token asserting caller. A ttl of 0 never expires.
func (im *impl) SignToken(ctx ctx.Ctx, caller domain.Address, ttl time.Duration) (string, error) {
	if !caller.IsValid() {
		return "", domain.ErrInvalidAddress
	}

	claims := domain.HostClaims{
		Caller: caller.ToLowerStr(),
		StandardClaims: jwt.StandardClaims{
			IssuedAt: timeNow().Unix(),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = timeNow().Add(ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	if ss, err := token.SignedString(im.jwtSecret); err != nil {
		ctx.WithField("err", err).Error("token.SignedString failed")
		return "", err
	} else {
		return ss, nil
	}
}

func (im *impl) ParseToken(ctx ctx.Ctx, str string) (domain.Address, error) {
	token, err := jwt.ParseWithClaims(str, &domain.HostClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, xerrors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return im.jwtSecret, nil
	})
	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(*domain.HostClaims); ok && token.Valid {
		caller := domain.Address(claims.Caller)
		if !caller.IsValid() {
			return "", domain.ErrInvalidAddress
		}
		return caller, nil
	}
	return "", domain.ErrInvalidToken
}
