package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/x-xyz/auction/app/internal/setup"
	"github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/base/log"
	bValidator "github.com/x-xyz/auction/base/validator"
	mmiddleware "github.com/x-xyz/auction/middleware"
	"github.com/x-xyz/auction/service/reconciler"
	auction_delivery "github.com/x-xyz/auction/stores/auction/delivery/http"
	auth_middleware "github.com/x-xyz/auction/stores/auth/delivery/http/middleware"
	auth_usecase "github.com/x-xyz/auction/stores/auth/usecase"
	hc_delivery "github.com/x-xyz/auction/stores/healthcheck/delivery/http"
	hc_repo "github.com/x-xyz/auction/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/auction/stores/healthcheck/usecase"

	_ "github.com/x-xyz/auction/app/api/docs"
)

func init() {
	setup.LoadConfig("api", "infra/configs/config.yaml", os.Args[1:])
}

//	@title			Auction API
//	@version		1.0
//	@description	Time-boxed single item auctions hosted by name.

// main
//
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description				host token minted by hosttoken, applied with `bearer {token}`
func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middL.CORS)
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()
	deps := setup.Build(context)

	var db hc_repo.Pinger
	if deps.Mongo != nil {
		db = deps.Mongo
	}
	hc := hc_usecase.New(hc_repo.New(db, deps.Redis))

	auth := auth_usecase.New(viper.GetString("auth.jwtSecret"))
	am := auth_middleware.New(auth, viper.GetStringSlice("auth.hostAdmins"))

	hc_delivery.New(e, hc)
	auction_delivery.New(e, deps.Auction, am)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// with an in-process ledger nobody else can reconcile
	var rec *reconciler.Reconciler
	rc, stopRec := ctx.WithCancel(context)
	defer stopRec()
	if deps.Ledger != nil || viper.GetBool("reconciler.embedded") {
		rec = reconciler.New(deps.Auction, reconciler.Config{
			Interval:   viper.GetDuration("reconciler.interval"),
			StaleAfter: viper.GetDuration("reconciler.staleAfter"),
			Batch:      viper.GetInt("reconciler.batch"),
		})
		rec.Start(rc)
	}

	address := viper.GetString("server.address")
	context.WithField("address", address).Info("starting server")
	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	sc, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(sc); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}

	stopRec()
	if rec != nil {
		rec.Wait()
	}
	if err := deps.Auction.Drain(sc); err != nil {
		log.Log().WithField("err", err).Warn("transfers still in flight at exit")
	}
}
