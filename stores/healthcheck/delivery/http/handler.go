package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/base/delivery"
	hcdomain "github.com/x-xyz/auction/domain/healthcheck"
)

type handler struct {
	hc hcdomain.HealthCheckUsecase
}

func New(e *echo.Echo, hc hcdomain.HealthCheckUsecase) {
	h := &handler{hc: hc}
	e.GET("/health", h.check)
}

// check
//
//	@Summary		health check
//	@Description	answers 503 while mongo or redis is unreachable
//	@Tags			healthcheck
//	@Produce		json
//	@Success		200	{object}	delivery.JsonResponse
//	@Failure		503	{object}	delivery.JsonResponse
//	@Router			/health [get]
func (h *handler) check(c echo.Context) error {
	context := c.Get("ctx").(ctx.Ctx)
	if err := h.hc.Check(context); err != nil {
		context.WithField("err", err).Warn("health check failed")
		return delivery.MakeJsonResp(c, http.StatusServiceUnavailable, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}
