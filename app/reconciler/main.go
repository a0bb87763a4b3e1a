package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/x-xyz/auction/app/internal/setup"
	bCtx "github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/base/log"
	"github.com/x-xyz/auction/service/reconciler"
)

func init() {
	setup.LoadConfig("reconciler", "infra/configs/config.yaml", os.Args[1:])
}

func main() {
	ctx, cancel := bCtx.WithCancel(bCtx.Background())
	defer cancel()

	if viper.GetString("ledger.mode") == setup.LedgerMemory {
		ctx.Panic("the reconciler needs a remote ledger, set ledger.mode to http")
	}
	deps := setup.Build(ctx)

	cfg := reconciler.Config{
		Interval:   viper.GetDuration("reconciler.interval"),
		StaleAfter: viper.GetDuration("reconciler.staleAfter"),
		Batch:      viper.GetInt("reconciler.batch"),
	}
	ctx.WithFields(log.Fields{
		"interval":   cfg.Interval,
		"staleAfter": cfg.StaleAfter,
		"batch":      cfg.Batch,
	}).Info("config")

	r := reconciler.New(deps.Auction, cfg)
	r.Once(ctx)
	r.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	ctx.WithField("signal", sig).Info("received signal")
	cancel()
	r.Wait()

	dc, done := bCtx.WithTimeout(bCtx.Background(), 10*time.Second)
	defer done()
	if err := deps.Auction.Drain(dc); err != nil {
		ctx.WithField("err", err).Warn("transfers still in flight at exit")
	}
}
