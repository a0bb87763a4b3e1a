package usecase

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/viney-shih/goroutines"
	"golang.org/x/xerrors"

	"github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/base/goroutine"
	"github.com/x-xyz/auction/base/log"
	"github.com/x-xyz/auction/base/metrics"
	"github.com/x-xyz/auction/domain"
	"github.com/x-xyz/auction/domain/auction"
	"github.com/x-xyz/auction/domain/keys"
	"github.com/x-xyz/auction/service/cache"
)

const (
	defaultWorkers     = 64
	defaultQueueLength = 1024
	defaultLockTTL     = 10 * time.Second
	defaultCtxTimeout  = 5 * time.Second
	scheduleTimeout    = time.Second
	reconcileWorkers   = 8
)

var (
	timeNow = time.Now
)

type AuctionUseCaseCfg struct {
	Repo   auction.Repo
	Ledger auction.LedgerClient
	// NativeLedger is the identity of the ledger moving native value. It is
	// the only party allowed to resolve native transfers.
	NativeLedger domain.Address

	// optional
	// ClaimPolicy applies to auctions initialized without one.
	ClaimPolicy auction.ClaimPolicy
	Notifier    auction.Notifier
	Locker      Locker
	LockTTL     time.Duration
	ViewCache   cache.Service
	Workers     int
	QueueLength int
	CtxTimeout  time.Duration
}

type impl struct {
	repo         auction.Repo
	ledger       auction.LedgerClient
	nativeLedger domain.Address
	claimPolicy  auction.ClaimPolicy
	notifier     auction.Notifier
	locker       Locker
	lockTTL      time.Duration
	viewCache    cache.Service
	ctxTimeout   time.Duration

	local    *keyedMutex
	pool     *goroutines.Pool
	inflight sync.WaitGroup
	met      metrics.Service
	// evictions counts evict calls, so view can tell a write raced its fill
	evictions uint32
}

func New(cfg *AuctionUseCaseCfg) auction.Usecase {
	if cfg.Repo == nil || cfg.Ledger == nil {
		panic("auction usecase needs Repo and Ledger")
	}
	if !cfg.NativeLedger.IsValid() {
		panic("auction usecase needs a valid NativeLedger")
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	queue := cfg.QueueLength
	if queue <= 0 {
		queue = defaultQueueLength
	}
	lockTTL := cfg.LockTTL
	if lockTTL <= 0 {
		lockTTL = defaultLockTTL
	}
	ctxTimeout := cfg.CtxTimeout
	if ctxTimeout <= 0 {
		ctxTimeout = defaultCtxTimeout
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}

	return &impl{
		repo:         cfg.Repo,
		ledger:       cfg.Ledger,
		nativeLedger: cfg.NativeLedger.ToLower(),
		claimPolicy:  cfg.ClaimPolicy,
		notifier:     notifier,
		locker:       cfg.Locker,
		lockTTL:      lockTTL,
		viewCache:    cfg.ViewCache,
		ctxTimeout:   ctxTimeout,
		local:        newKeyedMutex(),
		pool:         goroutines.NewPool(workers, goroutines.WithTaskQueueLength(queue)),
		met:          metrics.New("auction"),
	}
}

func (im *impl) Init(c ctx.Ctx, params auction.InitParams) (*auction.Auction, error) {
	c = ctx.WithValue(c, "auctionId", params.Id)
	if params.ClaimPolicy == "" {
		params.ClaimPolicy = im.claimPolicy
	}

	a, err := newAuction(params, newEnv(timeNow(), im.nativeLedger))
	if err != nil {
		c.WithFields(log.Fields{"err": err, "params": params}).Warn("rejected init")
		im.met.BumpSum("call.err", 1, "op", "init", "reason", reasonOf(err))
		return nil, err
	}

	unlock, err := im.lock(c, a.Id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	rc, cancel := ctx.WithTimeout(c, im.ctxTimeout)
	defer cancel()
	if err := im.repo.Create(rc, a); err != nil {
		if !errors.Is(err, auction.ErrAlreadyInitialized) {
			c.WithField("err", err).Error("repo.Create failed")
		}
		im.met.BumpSum("call.err", 1, "op", "init", "reason", reasonOf(err))
		return nil, err
	}
	im.evict(c, a.Id)

	c.WithFields(log.Fields{
		"auctioneer": a.Auctioneer,
		"endTime":    a.EndTime,
		"self":       a.Self,
	}).Info("auction initialized")
	return a, nil
}

// rejection is what a rejected call hands back: the whole attached value and
// the whole notified amount.
func rejection(call auction.Call) *auction.Result {
	res := &auction.Result{Refund: call.Attached, Unused: auction.Zero}
	if call.Payment != nil {
		res.Unused = call.Payment.Amount
	}
	return res
}

func (im *impl) Execute(c ctx.Ctx, id string, call auction.Call) (*auction.Result, error) {
	c = ctx.WithValues(c, map[string]interface{}{
		"auctionId": id,
		"method":    call.Method,
		"caller":    call.Caller,
	})
	defer im.met.BumpTime("call.time", "op", string(call.Method)).End()

	rejected := rejection(call)
	if !call.Method.IsValid() {
		im.met.BumpSum("call.err", 1, "op", "unknown", "reason", reasonOf(auction.ErrUnknownOperation))
		return rejected, auction.ErrUnknownOperation
	}

	var (
		transfers []auction.Transfer
		snapshot  auction.Auction
	)
	err := im.withAuction(c, id, func(a *auction.Auction, e env) error {
		var err error
		switch call.Method {
		case auction.MethodBid:
			transfers, err = admitNativeBid(a, e, call.Caller, call.Attached)
		case auction.MethodOnPaymentReceived:
			transfers, err = admitPayment(a, e, call.Caller, call.Payment)
		case auction.MethodClaim:
			transfers, err = claim(a, e, call.Caller)
		case auction.MethodWithdraw:
			transfers, err = withdraw(a, e, call.Caller)
		default:
			err = auction.ErrUnknownOperation
		}
		snapshot = *a
		return err
	})
	if errors.Is(err, auction.ErrOutcomeUnknown) {
		// the call may have taken effect, so nothing attached is handed back
		c.WithField("err", err).Error("call outcome unknown")
		im.met.BumpSum("call.err", 1, "op", string(call.Method), "reason", reasonOf(err))
		return &auction.Result{Refund: auction.Zero, Unused: auction.Zero}, err
	} else if err != nil {
		c.WithField("err", err).Warn("rejected call")
		im.met.BumpSum("call.err", 1, "op", string(call.Method), "reason", reasonOf(err))
		return rejected, err
	}

	res := &auction.Result{
		HighestBid: snapshot.HighestBid,
		Refund:     call.Attached,
		Unused:     auction.Zero,
		Transfers:  transfers,
	}
	switch call.Method {
	case auction.MethodBid:
		res.Refund = auction.Zero
		im.met.BumpHistogram("bid.amount", snapshot.HighestBid.Amount.Float64(), "path", "native")
		c.WithField("amount", snapshot.HighestBid.Amount).Info("bid admitted")
	case auction.MethodOnPaymentReceived:
		im.met.BumpHistogram("bid.amount", snapshot.HighestBid.Amount.Float64(), "path", "token")
		c.WithFields(log.Fields{
			"sender": call.Payment.Sender,
			"amount": call.Payment.Amount,
			"total":  snapshot.HighestBid.Amount,
		}).Info("payment bid admitted")
	case auction.MethodClaim:
		c.WithField("winner", snapshot.HighestBid).Info("auction claimed")
		im.notifier.Claimed(c, &snapshot)
	case auction.MethodWithdraw:
		c.WithField("transfers", len(transfers)).Info("owed amounts withdrawn")
	}

	im.dispatch(c, transfers)
	return res, nil
}

func (im *impl) ResolveTransfer(c ctx.Ctx, id, transferId string, caller domain.Address, outcome auction.Outcome, reason string) error {
	c = ctx.WithValues(c, map[string]interface{}{
		"auctionId":  id,
		"transferId": transferId,
		"outcome":    outcome,
	})

	var (
		t        auction.Transfer
		credited bool
		snapshot auction.Auction
	)
	err := im.withAuction(c, id, func(a *auction.Auction, e env) error {
		var err error
		t, credited, err = resolveTransfer(a, transferId, caller, outcome)
		snapshot = *a
		return err
	})
	if err != nil {
		c.WithFields(log.Fields{"err": err, "caller": caller}).Warn("rejected transfer outcome")
		im.met.BumpSum("call.err", 1, "op", "resolve", "reason", reasonOf(err))
		return err
	}

	im.met.BumpSum("transfer.outcome", 1, "kind", string(t.Kind), "result", string(outcome))
	if credited {
		c.WithFields(log.Fields{
			"recipient": t.Recipient,
			"amount":    t.Amount,
			"kind":      t.Kind,
			"reason":    reason,
		}).Warn("transfer failed, credited to owed ledger")
		im.met.BumpSum("owed.credit", 1, "kind", string(t.Kind))
		im.notifier.OwedCredited(c, &snapshot, t, reason)
	}
	return nil
}

// withAuction runs fn on the current state of auction id while holding its
// lock and persists the result. A failing fn leaves the stored auction as it
// was.
func (im *impl) withAuction(c ctx.Ctx, id string, fn func(a *auction.Auction, e env) error) error {
	unlock, err := im.lock(c, id)
	if err != nil {
		return err
	}
	defer unlock()

	rc, cancel := ctx.WithTimeout(c, im.ctxTimeout)
	defer cancel()

	a, err := im.repo.Get(rc, id)
	if errors.Is(err, domain.ErrNotFound) {
		return auction.ErrNotInitialized
	} else if err != nil {
		c.WithField("err", err).Error("repo.Get failed")
		return err
	}
	if !a.IsInitialized() {
		return auction.ErrNotInitialized
	}
	ensureMaps(a)

	e := newEnv(timeNow(), im.nativeLedger)
	if err := fn(a, e); err != nil {
		return err
	}

	a.UpdatedAt = e.now
	if err := im.repo.Update(rc, a); err != nil {
		if errors.Is(err, auction.ErrConcurrentModification) {
			return err
		}
		c.WithField("err", err).Error("repo.Update failed")
		if err := im.verifyUpdate(c, id, a, err); err != nil {
			return err
		}
	}
	im.evict(c, id)
	return nil
}

// verifyUpdate re-reads auction id after a failed Update of a. It returns nil
// when the write was committed anyway, updateErr when it certainly was not,
// and an ErrOutcomeUnknown error when the stored state cannot be read.
func (im *impl) verifyUpdate(c ctx.Ctx, id string, a *auction.Auction, updateErr error) error {
	// the update context may be the one that timed out
	rc, cancel := ctx.WithTimeout(ctx.Detach(c), im.ctxTimeout)
	defer cancel()

	cur, err := im.repo.Get(rc, id)
	if err != nil {
		c.WithField("err", err).Error("repo.Get failed after a failed update")
		im.met.BumpSum("update.unknown", 1)
		return xerrors.Errorf("%v: %w", updateErr, auction.ErrOutcomeUnknown)
	}
	switch {
	case cur.Version == a.Version:
		return updateErr
	case cur.Version == a.Version+1 && sameInstant(cur.UpdatedAt, a.UpdatedAt):
		c.WithField("version", cur.Version).Warn("update committed despite error")
		a.Version = cur.Version
		return nil
	}
	// someone else wrote in between, which the lock should have prevented
	c.WithFields(log.Fields{"version": a.Version, "stored": cur.Version}).Error("auction moved on after a failed update")
	im.met.BumpSum("update.unknown", 1)
	return xerrors.Errorf("%v: %w", updateErr, auction.ErrOutcomeUnknown)
}

// sameInstant compares timestamps at the millisecond precision the store keeps.
func sameInstant(a, b time.Time) bool {
	return a.Truncate(time.Millisecond).Equal(b.Truncate(time.Millisecond))
}

func (im *impl) lock(c ctx.Ctx, id string) (func(), error) {
	unlockLocal := im.local.Lock(id)
	if im.locker == nil {
		return unlockLocal, nil
	}

	lc, cancel := ctx.WithTimeout(c, im.lockTTL)
	defer cancel()
	unlockShared, err := im.locker.Lock(lc, keys.RedisKey(keys.PfxAuctionLock, id), im.lockTTL)
	if err != nil {
		unlockLocal()
		c.WithField("err", err).Error("locker.Lock failed")
		return nil, err
	}
	return func() {
		unlockShared()
		unlockLocal()
	}, nil
}

// dispatch submits the transfers in order on the worker pool. It never blocks
// the calling operation, which has already committed.
func (im *impl) dispatch(c ctx.Ctx, ts []auction.Transfer) {
	if len(ts) == 0 {
		return
	}

	dc := ctx.Detach(c)
	im.inflight.Add(1)
	task := func() {
		defer im.inflight.Done()
		goroutine.Recoverable(func() {
			for _, t := range ts {
				im.submit(dc, t)
			}
		}, goroutine.WithLogger(dc.Logger))
	}

	if err := im.pool.ScheduleWithTimeout(scheduleTimeout, task); err != nil {
		dc.WithField("err", err).Warn("pool.ScheduleWithTimeout failed, dispatching on a new goroutine")
		goroutine.RecoverableGo(task, goroutine.WithLogger(dc.Logger))
	}
}

func (im *impl) submit(c ctx.Ctx, t auction.Transfer) {
	c = ctx.WithValues(c, map[string]interface{}{
		"transferId": t.Id,
		"kind":       t.Kind,
		"recipient":  t.Recipient,
	})

	im.met.BumpSum("transfer.dispatch", 1, "kind", string(t.Kind))
	if err := im.ledger.Submit(c, t); err != nil {
		if !errors.Is(err, auction.ErrTransferRefused) {
			// the ledger may have applied it, Reconcile asks for the outcome
			im.met.BumpSum("transfer.ambiguous", 1, "kind", string(t.Kind))
			c.WithField("err", err).Warn("ledger.Submit outcome unknown, left pending")
			return
		}
		c.WithField("err", err).Warn("ledger.Submit refused")
		if err := im.ResolveTransfer(c, t.AuctionId, t.Id, t.Ledger, auction.OutcomeFailed, err.Error()); err != nil && !errors.Is(err, auction.ErrUnknownTransfer) {
			c.WithField("err", err).Error("failed to resolve refused transfer")
		}
		return
	}
	c.WithField("amount", t.Amount).Info("transfer submitted")
}

func (im *impl) Drain(c ctx.Ctx) error {
	done := make(chan struct{})
	go func() {
		im.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-c.Done():
		return c.Err()
	}
}

type statusResult struct {
	transfer auction.Transfer
	outcome  auction.Outcome
}

func (im *impl) Reconcile(c ctx.Ctx, staleAfter time.Duration, limit int) (int, error) {
	before := timeNow().Add(-staleAfter)
	as, err := im.repo.FindWithPendingBefore(c, before, limit)
	if err != nil {
		c.WithField("err", err).Error("repo.FindWithPendingBefore failed")
		return 0, err
	}

	stale := []auction.Transfer{}
	for _, a := range as {
		for _, t := range a.Pending {
			if t.CreatedAt.Before(before) {
				stale = append(stale, t)
			}
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	b := goroutines.NewBatch(reconcileWorkers, goroutines.WithBatchSize(len(stale)))
	defer b.Close()
	for i := range stale {
		t := stale[i]
		b.Queue(func() (interface{}, error) {
			outcome, err := im.ledger.Status(c, t)
			if err != nil {
				c.WithFields(log.Fields{"err": err, "transferId": t.Id}).Warn("ledger.Status failed")
				return nil, err
			}
			return statusResult{transfer: t, outcome: outcome}, nil
		})
	}
	b.QueueComplete()

	resolved := 0
	for ret := range b.Results() {
		if ret.Error() != nil {
			continue
		}
		res := ret.Value().(statusResult)
		if !res.outcome.IsFinal() {
			continue
		}
		outcome := res.outcome
		if outcome == auction.OutcomeUnknown {
			outcome = auction.OutcomeFailed
		}
		t := res.transfer
		if err := im.ResolveTransfer(c, t.AuctionId, t.Id, t.Ledger, outcome, "reconciled"); err != nil {
			if !errors.Is(err, auction.ErrUnknownTransfer) {
				c.WithFields(log.Fields{"err": err, "transferId": t.Id}).Error("failed to resolve reconciled transfer")
			}
			continue
		}
		resolved++
	}

	c.WithFields(log.Fields{"stale": len(stale), "resolved": resolved}).Info("reconciled pending transfers")
	return resolved, nil
}

func (im *impl) load(c ctx.Ctx, id string) (*auction.Auction, error) {
	rc, cancel := ctx.WithTimeout(c, im.ctxTimeout)
	defer cancel()

	a, err := im.repo.Get(rc, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, auction.ErrNotInitialized
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "auctionId": id}).Error("repo.Get failed")
		return nil, err
	}
	if !a.IsInitialized() {
		return nil, auction.ErrNotInitialized
	}
	return a, nil
}

func (im *impl) view(c ctx.Ctx, id string) (*auction.Auction, error) {
	if im.viewCache == nil {
		return im.load(c, id)
	}

	gen := atomic.LoadUint32(&im.evictions)
	filled := false
	a := &auction.Auction{}
	if err := im.viewCache.GetByFunc(c, id, a, func() (interface{}, error) {
		filled = true
		return im.load(c, id)
	}); err != nil {
		return nil, err
	}
	// a write committed while loading may have been evicted before the fill
	// landed. Other replicas only see their own evictions and rely on the ttl.
	if filled && atomic.LoadUint32(&im.evictions) != gen {
		im.evict(c, id)
	}
	return a, nil
}

func (im *impl) evict(c ctx.Ctx, id string) {
	if im.viewCache == nil {
		return
	}
	atomic.AddUint32(&im.evictions, 1)
	if err := im.viewCache.Del(c, id); err != nil {
		c.WithField("err", err).Warn("viewCache.Del failed")
	}
}

func (im *impl) Get(c ctx.Ctx, id string) (*auction.Info, error) {
	a, err := im.view(c, id)
	if err != nil {
		return nil, err
	}
	return a.ToInfo(timeNow().UnixNano()), nil
}

func (im *impl) HighestBid(c ctx.Ctx, id string) (*auction.Bid, error) {
	a, err := im.view(c, id)
	if err != nil {
		return nil, err
	}
	bid := a.HighestBid
	return &bid, nil
}

func (im *impl) EndTime(c ctx.Ctx, id string) (int64, error) {
	a, err := im.view(c, id)
	if err != nil {
		return 0, err
	}
	return a.EndTime, nil
}

func (im *impl) Claimed(c ctx.Ctx, id string) (bool, error) {
	a, err := im.view(c, id)
	if err != nil {
		return false, err
	}
	return a.Claimed, nil
}

func (im *impl) Owed(c ctx.Ctx, id string, party domain.Address) (*auction.Owed, error) {
	a, err := im.view(c, id)
	if err != nil {
		return nil, err
	}
	owed := a.Owed[party.ToLower()]
	return &owed, nil
}

func (im *impl) List(c ctx.Ctx, offset, limit int) ([]*auction.Info, error) {
	as, err := im.repo.List(c, offset, limit)
	if err != nil {
		c.WithField("err", err).Error("repo.List failed")
		return nil, err
	}
	now := timeNow().UnixNano()
	infos := make([]*auction.Info, 0, len(as))
	for _, a := range as {
		infos = append(infos, a.ToInfo(now))
	}
	return infos, nil
}

// reasonOf is the metric tag value for err.
func reasonOf(err error) string {
	switch {
	case errors.Is(err, auction.ErrAlreadyInitialized):
		return "already_initialized"
	case errors.Is(err, auction.ErrInvalidConfig):
		return "invalid_config"
	case errors.Is(err, auction.ErrNotInitialized):
		return "not_initialized"
	case errors.Is(err, auction.ErrAuctionEnded):
		return "auction_ended"
	case errors.Is(err, auction.ErrBidTooLow):
		return "bid_too_low"
	case errors.Is(err, auction.ErrUnauthorizedCaller):
		return "unauthorized"
	case errors.Is(err, auction.ErrBadNotification):
		return "bad_notification"
	case errors.Is(err, auction.ErrAuctionNotEnded):
		return "not_ended"
	case errors.Is(err, auction.ErrAlreadyClaimed):
		return "already_claimed"
	case errors.Is(err, auction.ErrNothingOwed):
		return "nothing_owed"
	case errors.Is(err, auction.ErrUnknownTransfer):
		return "unknown_transfer"
	case errors.Is(err, auction.ErrUnknownOperation):
		return "unknown_operation"
	case errors.Is(err, auction.ErrInvalidOutcome):
		return "invalid_outcome"
	case errors.Is(err, auction.ErrConcurrentModification):
		return "concurrent_modification"
	case errors.Is(err, auction.ErrOutcomeUnknown):
		return "outcome_unknown"
	}
	return "internal"
}

type nopNotifier struct{}

func (nopNotifier) OwedCredited(ctx.Ctx, *auction.Auction, auction.Transfer, string) {}
func (nopNotifier) Claimed(ctx.Ctx, *auction.Auction)                                 {}
