package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/base/delivery"
	"github.com/x-xyz/auction/domain"
)

// AuthMiddleware checks the host token the gateway attaches to every state
// changing request and exposes the asserted caller as "caller".
type AuthMiddleware struct {
	auth       domain.AuthUsecase
	hostAdmins []domain.Address
}

func New(auth domain.AuthUsecase, hostAdmins []string) *AuthMiddleware {
	admins := make([]domain.Address, 0, len(hostAdmins))
	for _, a := range hostAdmins {
		admins = append(admins, domain.Address(a).ToLower())
	}
	return &AuthMiddleware{
		auth:       auth,
		hostAdmins: admins,
	}
}

func (m *AuthMiddleware) Auth() echo.MiddlewareFunc {
	return middleware.KeyAuth(m.validateHostToken)
}

func (m *AuthMiddleware) IsHostAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller := c.Get("caller").(domain.Address)

			for _, admin := range m.hostAdmins {
				if admin.Equals(caller) {
					return next(c)
				}
			}

			return delivery.MakeJsonResp(c, http.StatusForbidden, "require host admin privilege")
		}
	}
}

func (m *AuthMiddleware) validateHostToken(key string, c echo.Context) (bool, error) {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller, err := m.auth.ParseToken(ctx, key)
	if err != nil {
		ctx.WithField("err", err).Warn("auth.ParseToken failed")
		return false, nil
	}
	c.Set("caller", caller)
	return true, nil
}
