package usecase

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/x-xyz/auction/base/validator"
	"github.com/x-xyz/auction/domain"
	"github.com/x-xyz/auction/domain/auction"
)

// env is what the state machine needs from the host for one call.
type env struct {
	now          time.Time
	nativeLedger domain.Address
	newId        func() string
}

func (e env) nowNano() int64 {
	return e.now.UnixNano()
}

func newEnv(now time.Time, nativeLedger domain.Address) env {
	return env{
		now:          now,
		nativeLedger: nativeLedger.ToLower(),
		newId:        func() string { return uuid.New().String() },
	}
}

func newAuction(p auction.InitParams, e env) (*auction.Auction, error) {
	if !validator.IsValidAuctionId(p.Id) {
		return nil, auction.ErrInvalidConfig
	}
	if p.EndTime <= e.nowNano() {
		return nil, auction.ErrInvalidConfig
	}
	if !p.Auctioneer.IsValid() {
		return nil, auction.ErrInvalidConfig
	}
	if p.PaymentAsset != nil && !p.PaymentAsset.IsValid() {
		return nil, auction.ErrInvalidConfig
	}
	if p.SettlementAsset != nil && (!p.SettlementAsset.Contract.IsValid() || p.SettlementAsset.TokenId.IsEmpty()) {
		return nil, auction.ErrInvalidConfig
	}
	if p.Accumulate && p.PaymentAsset == nil {
		// accumulating bids only exist on the token notified path
		return nil, auction.ErrInvalidConfig
	}
	policy := p.ClaimPolicy
	if policy == "" {
		policy = auction.ClaimPolicyAnyone
	}
	if !policy.IsValid() {
		return nil, auction.ErrInvalidConfig
	}

	self := domain.DeriveAddress(p.Id)
	a := &auction.Auction{
		Id:            p.Id,
		Lifecycle:     auction.LifecycleInitialized,
		Self:          self,
		Auctioneer:    p.Auctioneer.ToLower(),
		EndTime:       p.EndTime,
		StartingPrice: p.StartingPrice,
		ClaimPolicy:   policy,
		Accumulate:    p.Accumulate,
		HighestBid:    auction.Bid{Bidder: self, Amount: p.StartingPrice},
		Escrow:        map[domain.Address]auction.Amount{},
		Pending:       map[string]auction.Transfer{},
		Owed:          map[domain.Address]auction.Owed{},
		CreatedAt:     e.now,
		UpdatedAt:     e.now,
	}
	if p.PaymentAsset != nil {
		a.PaymentAsset = p.PaymentAsset.ToLowerPtr()
	}
	if p.SettlementAsset != nil {
		a.SettlementAsset = &auction.Prize{
			Contract: p.SettlementAsset.Contract.ToLower(),
			TokenId:  p.SettlementAsset.TokenId,
		}
	}
	return a, nil
}

func ensureMaps(a *auction.Auction) {
	if a.Escrow == nil {
		a.Escrow = map[domain.Address]auction.Amount{}
	}
	if a.Pending == nil {
		a.Pending = map[string]auction.Transfer{}
	}
	if a.Owed == nil {
		a.Owed = map[domain.Address]auction.Owed{}
	}
}

// valueTransfer builds a transfer in the denomination of the auction.
func valueTransfer(a *auction.Auction, e env, kind auction.TransferKind, to domain.Address, amount auction.Amount) auction.Transfer {
	t := auction.Transfer{
		Id:        e.newId(),
		AuctionId: a.Id,
		Kind:      kind,
		Asset:     a.Denomination(),
		Ledger:    e.nativeLedger,
		Sender:    a.Self,
		Recipient: to.ToLower(),
		Amount:    amount,
		CreatedAt: e.now,
	}
	if a.PaymentAsset != nil {
		t.Ledger = *a.PaymentAsset
	}
	return t
}

func prizeTransfer(a *auction.Auction, e env, kind auction.TransferKind, to domain.Address, prize auction.Prize) auction.Transfer {
	return auction.Transfer{
		Id:        e.newId(),
		AuctionId: a.Id,
		Kind:      kind,
		Asset:     auction.AssetNonFungible,
		Ledger:    prize.Contract,
		Sender:    a.Self,
		Recipient: to.ToLower(),
		Amount:    auction.NewAmount(1),
		TokenId:   prize.TokenId,
		CreatedAt: e.now,
	}
}

func record(a *auction.Auction, ts ...auction.Transfer) []auction.Transfer {
	for _, t := range ts {
		a.Pending[t.Id] = t
	}
	return ts
}

// refundPrevious returns the transfer compensating the superseded bid, or
// nothing if the sentinel held it or it was worth nothing.
func refundPrevious(a *auction.Auction, e env, previous auction.Bid) []auction.Transfer {
	if previous.Bidder.Equals(a.Self) || !previous.Amount.IsPositive() {
		return nil
	}
	return record(a, valueTransfer(a, e, auction.TransferKindRefund, previous.Bidder, previous.Amount))
}

// admitNativeBid applies a bid paid with attached native value.
func admitNativeBid(a *auction.Auction, e env, bidder domain.Address, deposit auction.Amount) ([]auction.Transfer, error) {
	if a.PaymentAsset != nil {
		return nil, auction.ErrUnauthorizedCaller
	}
	if e.nowNano() >= a.EndTime {
		return nil, auction.ErrAuctionEnded
	}
	if !deposit.GreaterThan(a.HighestBid.Amount) {
		return nil, auction.ErrBidTooLow
	}

	previous := a.HighestBid
	a.HighestBid = auction.Bid{Bidder: bidder.ToLower(), Amount: deposit}
	return refundPrevious(a, e, previous), nil
}

// admitPayment applies a bid notified by the payment asset ledger, which has
// already moved the amount into the custody of the auction.
func admitPayment(a *auction.Auction, e env, caller domain.Address, p *auction.PaymentNotification) ([]auction.Transfer, error) {
	if a.PaymentAsset == nil || !caller.Equals(*a.PaymentAsset) {
		return nil, auction.ErrUnauthorizedCaller
	}
	if p == nil || !p.Sender.IsValid() || p.Sender.Equals(a.Self) {
		return nil, auction.ErrBadNotification
	}
	if e.nowNano() >= a.EndTime {
		return nil, auction.ErrAuctionEnded
	}

	sender := p.Sender.ToLower()
	if !a.Accumulate {
		if !p.Amount.GreaterThan(a.HighestBid.Amount) {
			return nil, auction.ErrBidTooLow
		}
		previous := a.HighestBid
		a.HighestBid = auction.Bid{Bidder: sender, Amount: p.Amount}
		return refundPrevious(a, e, previous), nil
	}

	// Accumulating: the bid is the total the sender has deposited so far.
	// Superseded bidders keep their escrow and get it back at claim, so the
	// highest bidder raising their own lead needs no refund either.
	total := a.Escrow[sender].Add(p.Amount)
	if !total.GreaterThan(a.HighestBid.Amount) {
		return nil, auction.ErrBidTooLow
	}
	a.Escrow[sender] = total
	a.HighestBid = auction.Bid{Bidder: sender, Amount: total}
	return nil, nil
}

// claim settles the auction once. Claimed is set in the same write that
// records the transfers, so a failed transfer can never reopen settlement.
func claim(a *auction.Auction, e env, caller domain.Address) ([]auction.Transfer, error) {
	if e.nowNano() < a.EndTime {
		return nil, auction.ErrAuctionNotEnded
	}
	if a.Claimed {
		return nil, auction.ErrAlreadyClaimed
	}
	if a.ClaimPolicy == auction.ClaimPolicyAuctioneer && !caller.Equals(a.Auctioneer) {
		return nil, auction.ErrUnauthorizedCaller
	}

	a.Claimed = true

	ts := []auction.Transfer{}
	winner := a.HighestBid.Bidder
	if a.SettlementAsset != nil {
		to := winner
		if !a.HasRealBid() {
			to = a.Auctioneer
		}
		ts = append(ts, prizeTransfer(a, e, auction.TransferKindPrize, to, *a.SettlementAsset))
	}
	if a.HasRealBid() && a.HighestBid.Amount.IsPositive() {
		ts = append(ts, valueTransfer(a, e, auction.TransferKindProceeds, a.Auctioneer, a.HighestBid.Amount))
	}

	if a.Accumulate {
		parties := make([]string, 0, len(a.Escrow))
		for party := range a.Escrow {
			parties = append(parties, string(party))
		}
		sort.Strings(parties)
		for _, p := range parties {
			party := domain.Address(p)
			if amount := a.Escrow[party]; !party.Equals(winner) && amount.IsPositive() {
				ts = append(ts, valueTransfer(a, e, auction.TransferKindRefund, party, amount))
			}
			delete(a.Escrow, party)
		}
	}

	return record(a, ts...), nil
}

// withdraw drains the owed entry of caller into new transfers.
func withdraw(a *auction.Auction, e env, caller domain.Address) ([]auction.Transfer, error) {
	party := caller.ToLower()
	owed, ok := a.Owed[party]
	if !ok || owed.IsEmpty() {
		return nil, auction.ErrNothingOwed
	}

	ts := []auction.Transfer{}
	if owed.Amount.IsPositive() {
		ts = append(ts, valueTransfer(a, e, auction.TransferKindWithdrawal, party, owed.Amount))
	}
	for _, prize := range owed.Prizes {
		ts = append(ts, prizeTransfer(a, e, auction.TransferKindWithdrawal, party, prize))
	}
	delete(a.Owed, party)
	return record(a, ts...), nil
}

// resolveTransfer completes the continuation record id. A failed transfer is
// credited to the owed ledger of its recipient and nothing else changes.
func resolveTransfer(a *auction.Auction, id string, caller domain.Address, outcome auction.Outcome) (auction.Transfer, bool, error) {
	if !outcome.IsFinal() {
		return auction.Transfer{}, false, auction.ErrInvalidOutcome
	}
	t, ok := a.Pending[id]
	if !ok {
		return auction.Transfer{}, false, auction.ErrUnknownTransfer
	}
	if !caller.Equals(t.Ledger) {
		return auction.Transfer{}, false, auction.ErrUnauthorizedCaller
	}

	delete(a.Pending, id)
	if outcome == auction.OutcomeSucceeded {
		return t, false, nil
	}

	owed := a.Owed[t.Recipient]
	if t.IsPrize() {
		owed.Prizes = append(owed.Prizes, auction.Prize{Contract: t.Ledger, TokenId: t.TokenId})
	} else {
		owed.Amount = owed.Amount.Add(t.Amount)
	}
	a.Owed[t.Recipient] = owed
	return t, true, nil
}
