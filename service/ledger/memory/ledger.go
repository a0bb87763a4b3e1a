// Package memory is an in-process ledger. It keeps balances and token
// ownership, moves value for submitted transfers on its own goroutines and
// reports each outcome back like a remote ledger would.
package memory

import (
	"errors"
	"fmt"
	"sync"

	"github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/base/goroutine"
	"github.com/x-xyz/auction/base/log"
	"github.com/x-xyz/auction/domain"
	"github.com/x-xyz/auction/domain/auction"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNotTokenOwner       = errors.New("not token owner")
	ErrRecipientRejected   = errors.New("recipient rejected transfer")
	ErrUnavailable         = errors.New("ledger unavailable")
	ErrRefused             = fmt.Errorf("ledger refused: %w", auction.ErrTransferRefused)
)

// Resolver receives transfer outcomes. auction.Usecase is one.
type Resolver interface {
	ResolveTransfer(ctx ctx.Ctx, id, transferId string, caller domain.Address, outcome auction.Outcome, reason string) error
}

type Ledger struct {
	native domain.Address

	mu       sync.Mutex
	balances map[domain.Address]map[domain.Address]auction.Amount
	owners   map[domain.Address]map[domain.TokenId]domain.Address
	status   map[string]auction.Outcome
	rejects  map[domain.Address]bool
	offline  bool
	refusing bool
	silent   bool
	resolver Resolver

	wg sync.WaitGroup
}

// New returns a ledger whose native value account is native.
func New(native domain.Address) *Ledger {
	return &Ledger{
		native:   native.ToLower(),
		balances: map[domain.Address]map[domain.Address]auction.Amount{},
		owners:   map[domain.Address]map[domain.TokenId]domain.Address{},
		status:   map[string]auction.Outcome{},
		rejects:  map[domain.Address]bool{},
	}
}

func (l *Ledger) Native() domain.Address {
	return l.native
}

func (l *Ledger) SetResolver(r Resolver) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resolver = r
}

// Reject makes every later transfer to party fail, like a recipient that
// refuses deposits. Reject(party, false) lifts it.
func (l *Ledger) Reject(party domain.Address, reject bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rejects[party.ToLower()] = reject
}

// SetOffline makes Submit and Status fail with ErrUnavailable, which does not
// tell whether a submit was accepted.
func (l *Ledger) SetOffline(offline bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.offline = offline
}

// SetRefusing makes Submit turn every transfer away with ErrRefused.
func (l *Ledger) SetRefusing(refusing bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refusing = refusing
}

// SetSilent keeps applying transfers but drops the outcome callbacks, so only
// Status can tell what happened.
func (l *Ledger) SetSilent(silent bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.silent = silent
}

// Wait blocks until every accepted transfer has been applied and reported.
func (l *Ledger) Wait() {
	l.wg.Wait()
}

func (l *Ledger) Mint(asset, owner domain.Address, amount auction.Amount) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.credit(asset.ToLower(), owner.ToLower(), amount)
}

func (l *Ledger) MintToken(contract domain.Address, tokenId domain.TokenId, owner domain.Address) {
	l.mu.Lock()
	defer l.mu.Unlock()
	contract = contract.ToLower()
	if l.owners[contract] == nil {
		l.owners[contract] = map[domain.TokenId]domain.Address{}
	}
	l.owners[contract][tokenId] = owner.ToLower()
}

func (l *Ledger) BalanceOf(asset, owner domain.Address) auction.Amount {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[asset.ToLower()][owner.ToLower()]
}

func (l *Ledger) OwnerOf(contract domain.Address, tokenId domain.TokenId) domain.Address {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.owners[contract.ToLower()][tokenId]
}

func (l *Ledger) credit(asset, owner domain.Address, amount auction.Amount) {
	if l.balances[asset] == nil {
		l.balances[asset] = map[domain.Address]auction.Amount{}
	}
	l.balances[asset][owner] = l.balances[asset][owner].Add(amount)
}

func (l *Ledger) move(asset, from, to domain.Address, amount auction.Amount) error {
	if !amount.IsPositive() {
		return nil
	}
	if l.balances[asset][from].Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	l.balances[asset][from] = l.balances[asset][from].Sub(amount)
	l.credit(asset, to, amount)
	return nil
}

func (l *Ledger) apply(t auction.Transfer) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.rejects[t.Recipient] {
		return ErrRecipientRejected
	}
	if !t.IsPrize() {
		return l.move(t.Ledger, t.Sender, t.Recipient, t.Amount)
	}
	if owner := l.owners[t.Ledger][t.TokenId]; !owner.Equals(t.Sender) {
		return ErrNotTokenOwner
	}
	l.owners[t.Ledger][t.TokenId] = t.Recipient
	return nil
}

func (l *Ledger) Submit(c ctx.Ctx, t auction.Transfer) error {
	l.mu.Lock()
	if l.offline {
		l.mu.Unlock()
		return ErrUnavailable
	}
	if l.refusing {
		l.mu.Unlock()
		return ErrRefused
	}
	if _, ok := l.status[t.Id]; ok {
		// already accepted
		l.mu.Unlock()
		return nil
	}
	l.status[t.Id] = auction.OutcomePending
	resolver, silent := l.resolver, l.silent
	l.wg.Add(1)
	l.mu.Unlock()

	dc := ctx.Detach(c)
	goroutine.RecoverableGo(func() {
		defer l.wg.Done()

		outcome, reason := auction.OutcomeSucceeded, ""
		if err := l.apply(t); err != nil {
			outcome, reason = auction.OutcomeFailed, err.Error()
		}

		l.mu.Lock()
		l.status[t.Id] = outcome
		l.mu.Unlock()

		if silent || resolver == nil {
			return
		}
		if err := resolver.ResolveTransfer(dc, t.AuctionId, t.Id, t.Ledger, outcome, reason); err != nil {
			dc.WithFields(log.Fields{"err": err, "transferId": t.Id}).Warn("resolver.ResolveTransfer failed")
		}
	}, goroutine.WithLogger(dc.Logger))
	return nil
}

func (l *Ledger) Status(c ctx.Ctx, t auction.Transfer) (auction.Outcome, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.offline {
		return "", ErrUnavailable
	}
	outcome, ok := l.status[t.Id]
	if !ok {
		return auction.OutcomeUnknown, nil
	}
	return outcome, nil
}
