package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/domain"
	"github.com/x-xyz/auction/stores/auth/usecase"
)

var (
	admin = domain.Address("0x00000000000000000000000000000000000000a0")
	other = domain.Address("0x00000000000000000000000000000000000000aa")
)

func newServer(m *AuthMiddleware) *echo.Echo {
	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("ctx", ctx.Background())
			return next(c)
		}
	})
	ok := func(c echo.Context) error {
		return c.String(http.StatusOK, string(c.Get("caller").(domain.Address)))
	}
	e.GET("/call", ok, m.Auth())
	e.POST("/admin", ok, m.Auth(), m.IsHostAdmin())
	return e
}

func do(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuth(t *testing.T) {
	auth := usecase.New("secret")
	e := newServer(New(auth, []string{"0x00000000000000000000000000000000000000A0"}))

	adminTkn, err := auth.SignToken(ctx.Background(), admin, time.Hour)
	require.NoError(t, err)
	otherTkn, err := auth.SignToken(ctx.Background(), other, time.Hour)
	require.NoError(t, err)

	rec := do(e, http.MethodGet, "/call", otherTkn)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(other), rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/call", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/call", "garbage").Code)

	assert.Equal(t, http.StatusOK, do(e, http.MethodPost, "/admin", adminTkn).Code)
	assert.Equal(t, http.StatusForbidden, do(e, http.MethodPost, "/admin", otherTkn).Code)
}
