package delivery

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/base/log"
	"github.com/x-xyz/auction/domain"
	"github.com/x-xyz/auction/service/query"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

// JsonResponse is the envelope of every api reply.
type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
}

// MakeJsonResp writes data in the envelope. An error is sent as its message,
// except for server errors which are logged and answered with the status text
// so internals do not leak to callers.
func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	if err, ok := data.(error); ok {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, query.ErrNotFound) {
			status = http.StatusNotFound
		}
		if status >= http.StatusInternalServerError {
			logger(c).WithFields(log.Fields{
				"err":    err,
				"status": status,
				"path":   c.Path(),
			}).Error("request failed")
			data = http.StatusText(status)
		} else {
			data = err.Error()
		}
	}

	switch {
	case status >= http.StatusBadRequest:
		return c.JSON(status, JsonResponse{data, JsonResponseStatusFail})
	case status >= http.StatusOK && status < http.StatusMultipleChoices:
		return c.JSON(status, JsonResponse{data, JsonResponseStatusSuccess})
	}
	return c.JSON(status, data)
}

func logger(c echo.Context) ctx.Ctx {
	if cc, ok := c.Get("ctx").(ctx.Ctx); ok {
		return cc
	}
	return ctx.Background()
}
