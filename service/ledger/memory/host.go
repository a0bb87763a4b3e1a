package memory

import (
	"github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/domain"
	"github.com/x-xyz/auction/domain/auction"
)

type Executor interface {
	Execute(ctx ctx.Ctx, id string, call auction.Call) (*auction.Result, error)
}

// Call runs method on auction id as caller with attached native value. The
// attached value moves into the custody of the auction before the call and
// whatever the auction hands back returns to caller afterwards.
func (l *Ledger) Call(c ctx.Ctx, ex Executor, id string, method auction.Method, caller domain.Address, attached auction.Amount) (*auction.Result, error) {
	self := domain.DeriveAddress(id)
	caller = caller.ToLower()

	l.mu.Lock()
	err := l.move(l.native, caller, self, attached)
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}

	res, err := ex.Execute(c, id, auction.Call{
		Method:   method,
		Caller:   caller,
		Attached: attached,
	})
	if res != nil && res.Refund.IsPositive() {
		l.mu.Lock()
		if merr := l.move(l.native, self, caller, res.Refund); merr != nil {
			c.WithField("err", merr).Error("failed to return attached value")
		}
		l.mu.Unlock()
	}
	return res, err
}

// TransferAndNotify moves amount of token from sender to auction id, then
// notifies the auction. The unused part of the amount goes back to sender.
func (l *Ledger) TransferAndNotify(c ctx.Ctx, ex Executor, token domain.Address, sender domain.Address, id string, amount auction.Amount, message string) (*auction.Result, error) {
	self := domain.DeriveAddress(id)
	token = token.ToLower()
	sender = sender.ToLower()

	l.mu.Lock()
	err := l.move(token, sender, self, amount)
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}

	res, err := ex.Execute(c, id, auction.Call{
		Method:   auction.MethodOnPaymentReceived,
		Caller:   token,
		Attached: auction.Zero,
		Payment: &auction.PaymentNotification{
			Sender:  sender,
			Amount:  amount,
			Message: message,
		},
	})
	if res != nil && res.Unused.IsPositive() {
		l.mu.Lock()
		if merr := l.move(token, self, sender, res.Unused); merr != nil {
			c.WithField("err", merr).Error("failed to return unused amount")
		}
		l.mu.Unlock()
	}
	return res, err
}

// Deposit hands a prize token to auction id.
func (l *Ledger) Deposit(contract domain.Address, tokenId domain.TokenId, id string) {
	l.MintToken(contract, tokenId, domain.DeriveAddress(id))
}

type hosted struct {
	auction.Usecase
	l *Ledger
}

// Host wraps uc so calls arriving from outside the process settle on l. The
// value a call carries is minted to its caller first because the gateway
// that asserted it keeps the real balance. Prizes of new auctions are minted
// into their custody.
func (l *Ledger) Host(uc auction.Usecase) auction.Usecase {
	return &hosted{Usecase: uc, l: l}
}

func (h *hosted) Init(c ctx.Ctx, params auction.InitParams) (*auction.Auction, error) {
	a, err := h.Usecase.Init(c, params)
	if err != nil {
		return nil, err
	}
	if p := a.SettlementAsset; p != nil {
		h.l.MintToken(p.Contract, p.TokenId, a.Self)
	}
	return a, nil
}

func (h *hosted) Execute(c ctx.Ctx, id string, call auction.Call) (*auction.Result, error) {
	if call.Method == auction.MethodOnPaymentReceived && call.Payment != nil {
		p := call.Payment
		h.l.Mint(call.Caller, p.Sender, p.Amount)
		return h.l.TransferAndNotify(c, h.Usecase, call.Caller, p.Sender, id, p.Amount, p.Message)
	}
	h.l.Mint(h.l.native, call.Caller, call.Attached)
	return h.l.Call(c, h.Usecase, id, call.Method, call.Caller, call.Attached)
}
