// Package middleware holds the echo middlewares shared by every route.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/base/delivery"
	"github.com/x-xyz/auction/base/log"
	"github.com/x-xyz/auction/base/metrics"
	"github.com/x-xyz/auction/base/validator"
)

type GoMiddleware struct {
	met metrics.Service
}

func InitMiddleware() *GoMiddleware {
	return &GoMiddleware{
		met: metrics.New("http"),
	}
}

// CORS allows any origin, the api is public and carries no cookies.
func (m *GoMiddleware) CORS(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderAccessControlAllowOrigin, "*")
		return next(c)
	}
}

// AddContext stores a ctx.Ctx under "ctx" tagged with the request id. The id
// comes from the request header, else the one RequestID generated.
func (m *GoMiddleware) AddContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqID := c.Request().Header.Get(echo.HeaderXRequestID)
			if reqID == "" {
				reqID = c.Response().Header().Get(echo.HeaderXRequestID)
			}
			c.Set("ctx", ctx.WithValue(ctx.Background(), "requestID", reqID))
			return next(c)
		}
	}
}

// ResponseLogger writes one log line and one timing per request. Errors of
// the handler chain are rendered here so the logged status is the sent one.
func (m *GoMiddleware) ResponseLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			ms := time.Since(start).Seconds() * 1000
			req, res := c.Request(), c.Response()
			m.met.BumpHistogram("request.time", ms, "method", req.Method, "path", c.Path(), "status", strconv.Itoa(res.Status))

			fields := log.Fields{
				"ms":         ms,
				"httpStatus": res.Status,
				"httpMethod": req.Method,
				"uri":        req.URL.Path,
				"remoteIP":   c.RealIP(),
				"size":       res.Size,
				"userAgent":  req.UserAgent(),
			}
			if id := c.Param("id"); id != "" {
				fields["auctionId"] = id
			}
			if err != nil {
				fields["nextErr"] = err
			}

			l := requestLogger(c).WithFields(fields)
			switch {
			case res.Status >= http.StatusInternalServerError:
				l.Error("response")
			case res.Status >= http.StatusBadRequest:
				l.Warn("response")
			default:
				l.Info("response")
			}
			return nil
		}
	}
}

func requestLogger(c echo.Context) log.Logger {
	if cc, ok := c.Get("ctx").(ctx.Ctx); ok {
		return cc.Logger
	}
	return log.Log()
}

// IsValidAddress rejects the request when the path param is not a party
// address.
func IsValidAddress(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !validator.IsValidAddress(c.Param(param)) {
				return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid address")
			}
			return next(c)
		}
	}
}
