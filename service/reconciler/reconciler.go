// Package reconciler periodically resolves transfers whose outcome callback
// never arrived.
package reconciler

import (
	"time"

	"github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/base/goroutine"
	"github.com/x-xyz/auction/base/metrics"
	"github.com/x-xyz/auction/domain/auction"
)

const (
	defaultInterval   = time.Minute
	defaultStaleAfter = 5 * time.Minute
	defaultBatch      = 100
)

type Config struct {
	Interval   time.Duration
	StaleAfter time.Duration
	Batch      int
}

type Reconciler struct {
	auction auction.Usecase
	cfg     Config
	met     metrics.Service
	done    chan struct{}
}

func New(uc auction.Usecase, cfg Config) *Reconciler {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = defaultStaleAfter
	}
	if cfg.Batch <= 0 {
		cfg.Batch = defaultBatch
	}
	return &Reconciler{
		auction: uc,
		cfg:     cfg,
		met:     metrics.New("reconciler"),
		done:    make(chan struct{}),
	}
}

// Start runs a pass every interval until c is done.
func (r *Reconciler) Start(c ctx.Ctx) {
	go func() {
		defer close(r.done)

		ticker := time.NewTicker(r.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-c.Done():
				return
			case <-ticker.C:
				goroutine.Recoverable(func() { r.Once(c) }, goroutine.WithLogger(c.Logger))
			}
		}
	}()
}

// Wait blocks until the loop started by Start returned.
func (r *Reconciler) Wait() {
	<-r.done
}

// Once runs a single pass and returns how many transfers it resolved.
func (r *Reconciler) Once(c ctx.Ctx) int {
	defer r.met.BumpTime("pass.time").End()

	n, err := r.auction.Reconcile(c, r.cfg.StaleAfter, r.cfg.Batch)
	if err != nil {
		c.WithField("err", err).Error("auction.Reconcile failed")
		r.met.BumpSum("pass.err", 1)
		return 0
	}
	r.met.BumpSum("resolved", float64(n))
	return n
}
