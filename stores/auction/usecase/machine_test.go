package usecase

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/auction/domain"
	"github.com/x-xyz/auction/domain/auction"
)

var (
	nativeLedger = domain.Address("0x0000000000000000000000000000000000000001")
	tokenLedger  = domain.Address("0x00000000000000000000000000000000000000cc")
	nftContract  = domain.Address("0x00000000000000000000000000000000000000dd")
	auctioneer   = domain.Address("0x00000000000000000000000000000000000000a0")
	alice        = domain.Address("0x00000000000000000000000000000000000000aa")
	bob          = domain.Address("0x00000000000000000000000000000000000000bb")
	carol        = domain.Address("0x00000000000000000000000000000000000000ce")

	start = time.Unix(1700000000, 0)
	end   = start.Add(time.Hour)
)

func testEnv(now time.Time) env {
	n := 0
	return env{
		now:          now,
		nativeLedger: nativeLedger,
		newId: func() string {
			n++
			return fmt.Sprintf("t-%d", n)
		},
	}
}

func nativeParams() auction.InitParams {
	return auction.InitParams{
		Id:         "lot-1",
		Auctioneer: auctioneer,
		EndTime:    end.UnixNano(),
		SettlementAsset: &auction.Prize{
			Contract: nftContract,
			TokenId:  "7",
		},
	}
}

func tokenParams(accumulate bool) auction.InitParams {
	p := nativeParams()
	p.PaymentAsset = &tokenLedger
	p.Accumulate = accumulate
	return p
}

func mustAuction(t *testing.T, p auction.InitParams) *auction.Auction {
	a, err := newAuction(p, testEnv(start))
	require.NoError(t, err)
	return a
}

func payment(sender domain.Address, amount int64) *auction.PaymentNotification {
	return &auction.PaymentNotification{Sender: sender, Amount: auction.NewAmount(amount)}
}

func TestNewAuction(t *testing.T) {
	token := tokenLedger
	bad := domain.Address("nope")

	tests := []struct {
		desc   string
		modify func(p *auction.InitParams)
		err    error
	}{
		{desc: "valid native auction"},
		{desc: "valid without prize", modify: func(p *auction.InitParams) { p.SettlementAsset = nil }},
		{desc: "end time in the past", modify: func(p *auction.InitParams) { p.EndTime = start.UnixNano() }, err: auction.ErrInvalidConfig},
		{desc: "bad auctioneer", modify: func(p *auction.InitParams) { p.Auctioneer = bad }, err: auction.ErrInvalidConfig},
		{desc: "bad id", modify: func(p *auction.InitParams) { p.Id = "Lot 1" }, err: auction.ErrInvalidConfig},
		{desc: "bad payment asset", modify: func(p *auction.InitParams) { p.PaymentAsset = &bad }, err: auction.ErrInvalidConfig},
		{desc: "prize without token id", modify: func(p *auction.InitParams) { p.SettlementAsset.TokenId = "" }, err: auction.ErrInvalidConfig},
		{desc: "accumulate on native path", modify: func(p *auction.InitParams) { p.Accumulate = true }, err: auction.ErrInvalidConfig},
		{desc: "accumulate on token path", modify: func(p *auction.InitParams) { p.PaymentAsset = &token; p.Accumulate = true }},
		{desc: "bad claim policy", modify: func(p *auction.InitParams) { p.ClaimPolicy = "winner" }, err: auction.ErrInvalidConfig},
	}

	for _, tt := range tests {
		p := nativeParams()
		if tt.modify != nil {
			tt.modify(&p)
		}
		a, err := newAuction(p, testEnv(start))
		if tt.err != nil {
			assert.Equal(t, tt.err, err, tt.desc)
			continue
		}
		require.NoError(t, err, tt.desc)
		assert.True(t, a.IsInitialized(), tt.desc)
		assert.Equal(t, domain.DeriveAddress("lot-1"), a.Self, tt.desc)
		assert.Equal(t, a.Self, a.HighestBid.Bidder, tt.desc)
		assert.False(t, a.HasRealBid(), tt.desc)
		assert.Equal(t, auction.ClaimPolicyAnyone, a.ClaimPolicy, tt.desc)
		assert.Equal(t, auction.PhaseOpen, a.Phase(start.UnixNano()), tt.desc)
	}
}

func TestAdmitNativeBid(t *testing.T) {
	a := mustAuction(t, nativeParams())
	e := testEnv(start.Add(time.Minute))

	ts, err := admitNativeBid(a, e, alice, auction.NewAmount(5))
	require.NoError(t, err)
	assert.Empty(t, ts, "sentinel is never refunded")
	assert.Equal(t, alice, a.HighestBid.Bidder)

	_, err = admitNativeBid(a, e, bob, auction.NewAmount(5))
	assert.Equal(t, auction.ErrBidTooLow, err)
	assert.Equal(t, alice, a.HighestBid.Bidder)

	ts, err = admitNativeBid(a, e, bob, auction.NewAmount(8))
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, auction.TransferKindRefund, ts[0].Kind)
	assert.Equal(t, auction.AssetNative, ts[0].Asset)
	assert.Equal(t, nativeLedger, ts[0].Ledger)
	assert.Equal(t, a.Self, ts[0].Sender)
	assert.Equal(t, alice, ts[0].Recipient)
	assert.Equal(t, "5", ts[0].Amount.String())
	assert.Contains(t, a.Pending, ts[0].Id)

	// raising your own bid refunds the previous one
	ts, err = admitNativeBid(a, e, bob, auction.NewAmount(9))
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, bob, ts[0].Recipient)
	assert.Equal(t, "8", ts[0].Amount.String())

	_, err = admitNativeBid(a, testEnv(end), carol, auction.NewAmount(100))
	assert.Equal(t, auction.ErrAuctionEnded, err)
	assert.Equal(t, "9", a.HighestBid.Amount.String())
}

func TestAdmitNativeBidOnTokenAuction(t *testing.T) {
	a := mustAuction(t, tokenParams(false))
	_, err := admitNativeBid(a, testEnv(start), alice, auction.NewAmount(5))
	assert.Equal(t, auction.ErrUnauthorizedCaller, err)
}

func TestStartingPrice(t *testing.T) {
	p := nativeParams()
	p.StartingPrice = auction.NewAmount(10)
	a := mustAuction(t, p)
	e := testEnv(start)

	_, err := admitNativeBid(a, e, alice, auction.NewAmount(10))
	assert.Equal(t, auction.ErrBidTooLow, err)
	_, err = admitNativeBid(a, e, alice, auction.NewAmount(11))
	assert.NoError(t, err)
}

func TestAdmitPayment(t *testing.T) {
	a := mustAuction(t, tokenParams(false))
	e := testEnv(start)

	tests := []struct {
		desc   string
		caller domain.Address
		p      *auction.PaymentNotification
		err    error
		refund string
	}{
		{desc: "not the payment ledger", caller: nativeLedger, p: payment(alice, 5), err: auction.ErrUnauthorizedCaller},
		{desc: "missing notification", caller: tokenLedger, err: auction.ErrBadNotification},
		{desc: "bad sender", caller: tokenLedger, p: payment("x", 5), err: auction.ErrBadNotification},
		{desc: "auction as sender", caller: tokenLedger, p: payment(a.Self, 5), err: auction.ErrBadNotification},
		{desc: "first bid", caller: tokenLedger, p: payment(alice, 5)},
		{desc: "too low", caller: tokenLedger, p: payment(bob, 5), err: auction.ErrBidTooLow},
		{desc: "outbid", caller: tokenLedger, p: payment(bob, 6), refund: "5"},
	}

	for _, tt := range tests {
		ts, err := admitPayment(a, e, tt.caller, tt.p)
		assert.Equal(t, tt.err, err, tt.desc)
		if tt.refund == "" {
			assert.Empty(t, ts, tt.desc)
			continue
		}
		require.Len(t, ts, 1, tt.desc)
		assert.Equal(t, auction.AssetFungible, ts[0].Asset, tt.desc)
		assert.Equal(t, tokenLedger, ts[0].Ledger, tt.desc)
		assert.Equal(t, tt.refund, ts[0].Amount.String(), tt.desc)
	}

	_, err := admitPayment(a, testEnv(end), tokenLedger, payment(carol, 50))
	assert.Equal(t, auction.ErrAuctionEnded, err)
}

func TestAdmitPaymentAccumulates(t *testing.T) {
	a := mustAuction(t, tokenParams(true))
	e := testEnv(start)

	ts, err := admitPayment(a, e, tokenLedger, payment(alice, 5))
	require.NoError(t, err)
	assert.Empty(t, ts)

	ts, err = admitPayment(a, e, tokenLedger, payment(bob, 6))
	require.NoError(t, err)
	assert.Empty(t, ts, "superseded bidders keep their escrow")

	// 5 + 1 is not above 6
	_, err = admitPayment(a, e, tokenLedger, payment(alice, 1))
	assert.Equal(t, auction.ErrBidTooLow, err)
	assert.Equal(t, "5", a.Escrow[alice].String())

	_, err = admitPayment(a, e, tokenLedger, payment(alice, 2))
	require.NoError(t, err)
	assert.Equal(t, alice, a.HighestBid.Bidder)
	assert.Equal(t, "7", a.HighestBid.Amount.String())

	_, err = admitPayment(a, e, tokenLedger, payment(alice, 3))
	require.NoError(t, err)
	assert.Equal(t, "10", a.HighestBid.Amount.String())
	assert.Empty(t, a.Pending)

	ts, err = claim(a, testEnv(end), carol)
	require.NoError(t, err)
	require.Len(t, ts, 3)
	assert.Equal(t, auction.TransferKindPrize, ts[0].Kind)
	assert.Equal(t, alice, ts[0].Recipient)
	assert.Equal(t, auction.TransferKindProceeds, ts[1].Kind)
	assert.Equal(t, "10", ts[1].Amount.String())
	assert.Equal(t, auction.TransferKindRefund, ts[2].Kind)
	assert.Equal(t, bob, ts[2].Recipient)
	assert.Equal(t, "6", ts[2].Amount.String())
	assert.Empty(t, a.Escrow)
}

func TestClaim(t *testing.T) {
	a := mustAuction(t, nativeParams())
	_, err := admitNativeBid(a, testEnv(start), alice, auction.NewAmount(5))
	require.NoError(t, err)

	_, err = claim(a, testEnv(end.Add(-time.Nanosecond)), alice)
	assert.Equal(t, auction.ErrAuctionNotEnded, err)
	assert.False(t, a.Claimed)

	ts, err := claim(a, testEnv(end), carol)
	require.NoError(t, err)
	assert.True(t, a.Claimed)
	assert.Equal(t, auction.PhaseClaimed, a.Phase(end.UnixNano()))
	require.Len(t, ts, 2)

	prize := ts[0]
	assert.Equal(t, auction.TransferKindPrize, prize.Kind)
	assert.Equal(t, auction.AssetNonFungible, prize.Asset)
	assert.Equal(t, nftContract, prize.Ledger)
	assert.Equal(t, domain.TokenId("7"), prize.TokenId)
	assert.Equal(t, alice, prize.Recipient)

	proceeds := ts[1]
	assert.Equal(t, auction.TransferKindProceeds, proceeds.Kind)
	assert.Equal(t, auctioneer, proceeds.Recipient)
	assert.Equal(t, "5", proceeds.Amount.String())
	assert.Len(t, a.Pending, 2)

	_, err = claim(a, testEnv(end), carol)
	assert.Equal(t, auction.ErrAlreadyClaimed, err)
}

func TestClaimWithoutBids(t *testing.T) {
	a := mustAuction(t, nativeParams())
	ts, err := claim(a, testEnv(end), carol)
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, auction.TransferKindPrize, ts[0].Kind)
	assert.Equal(t, auctioneer, ts[0].Recipient)

	p := nativeParams()
	p.SettlementAsset = nil
	a = mustAuction(t, p)
	ts, err = claim(a, testEnv(end), carol)
	require.NoError(t, err)
	assert.Empty(t, ts)
	assert.True(t, a.Claimed)
}

func TestClaimPolicy(t *testing.T) {
	p := nativeParams()
	p.ClaimPolicy = auction.ClaimPolicyAuctioneer
	a := mustAuction(t, p)

	_, err := claim(a, testEnv(end), alice)
	assert.Equal(t, auction.ErrUnauthorizedCaller, err)
	assert.False(t, a.Claimed)

	_, err = claim(a, testEnv(end), auctioneer)
	assert.NoError(t, err)
}

func TestResolveTransfer(t *testing.T) {
	a := mustAuction(t, nativeParams())
	e := testEnv(start)
	_, err := admitNativeBid(a, e, alice, auction.NewAmount(5))
	require.NoError(t, err)
	ts, err := admitNativeBid(a, e, bob, auction.NewAmount(8))
	require.NoError(t, err)
	refund := ts[0]

	_, _, err = resolveTransfer(a, refund.Id, nativeLedger, auction.OutcomePending)
	assert.Equal(t, auction.ErrInvalidOutcome, err)
	_, _, err = resolveTransfer(a, "t-404", nativeLedger, auction.OutcomeFailed)
	assert.Equal(t, auction.ErrUnknownTransfer, err)
	_, _, err = resolveTransfer(a, refund.Id, alice, auction.OutcomeFailed)
	assert.Equal(t, auction.ErrUnauthorizedCaller, err)
	assert.Contains(t, a.Pending, refund.Id)

	got, credited, err := resolveTransfer(a, refund.Id, nativeLedger, auction.OutcomeFailed)
	require.NoError(t, err)
	assert.True(t, credited)
	assert.Equal(t, refund.Id, got.Id)
	assert.Empty(t, a.Pending)
	assert.Equal(t, "5", a.Owed[alice].Amount.String())
	assert.Equal(t, bob, a.HighestBid.Bidder, "a failed refund never touches the bid")

	_, _, err = resolveTransfer(a, refund.Id, nativeLedger, auction.OutcomeSucceeded)
	assert.Equal(t, auction.ErrUnknownTransfer, err, "outcomes are applied once")
}

func TestWithdraw(t *testing.T) {
	a := mustAuction(t, nativeParams())
	e := testEnv(end)

	_, err := withdraw(a, e, alice)
	assert.Equal(t, auction.ErrNothingOwed, err)

	a.Owed[alice] = auction.Owed{
		Amount: auction.NewAmount(5),
		Prizes: []auction.Prize{{Contract: nftContract, TokenId: "7"}},
	}
	ts, err := withdraw(a, e, alice)
	require.NoError(t, err)
	require.Len(t, ts, 2)
	assert.Equal(t, auction.TransferKindWithdrawal, ts[0].Kind)
	assert.Equal(t, "5", ts[0].Amount.String())
	assert.Equal(t, auction.AssetNonFungible, ts[1].Asset)
	assert.Equal(t, alice, ts[1].Recipient)
	assert.NotContains(t, a.Owed, alice)

	_, err = withdraw(a, e, alice)
	assert.Equal(t, auction.ErrNothingOwed, err)

	// a failed withdrawal is owed again
	_, credited, err := resolveTransfer(a, ts[0].Id, nativeLedger, auction.OutcomeFailed)
	require.NoError(t, err)
	assert.True(t, credited)
	assert.Equal(t, "5", a.Owed[alice].Amount.String())
}

// custody is the value an auction is accountable for: the highest bid until
// claimed, the escrow of accumulating bidders, and every pending or owed
// amount.
func custody(a *auction.Auction) auction.Amount {
	total := auction.Zero
	if a.HasRealBid() && !a.Claimed && !a.Accumulate {
		total = total.Add(a.HighestBid.Amount)
	}
	for _, amount := range a.Escrow {
		total = total.Add(amount)
	}
	for _, t := range a.Pending {
		if !t.IsPrize() {
			total = total.Add(t.Amount)
		}
	}
	for _, o := range a.Owed {
		total = total.Add(o.Amount)
	}
	return total
}

// TestConservation drives random call sequences and checks that value is
// neither created nor lost: what was deposited is always what the auction
// still accounts for plus what has been paid out.
func TestConservation(t *testing.T) {
	bidders := []domain.Address{alice, bob, carol}

	for seed := int64(0); seed < 200; seed++ {
		rnd := rand.New(rand.NewSource(seed))
		var p auction.InitParams
		switch seed % 3 {
		case 0:
			p = nativeParams()
		case 1:
			p = tokenParams(false)
		default:
			p = tokenParams(true)
		}
		a := mustAuction(t, p)
		e := testEnv(start)

		deposited, paidOut := auction.Zero, auction.Zero
		prizes := 0
		for step := 0; step < 40; step++ {
			if step == 25 {
				e.now = end
			}
			bidder := bidders[rnd.Intn(len(bidders))]
			amount := auction.NewAmount(rnd.Int63n(20) + 1)

			switch rnd.Intn(4) {
			case 0, 1:
				var err error
				if a.PaymentAsset == nil {
					_, err = admitNativeBid(a, e, bidder, amount)
				} else {
					_, err = admitPayment(a, e, *a.PaymentAsset, &auction.PaymentNotification{Sender: bidder, Amount: amount})
				}
				if err == nil {
					deposited = deposited.Add(amount)
				}
			case 2:
				if _, err := claim(a, e, bidder); err == nil && a.SettlementAsset != nil {
					prizes++
				}
				if rnd.Intn(2) == 0 {
					withdraw(a, e, bidder)
				}
			case 3:
				for id, tr := range a.Pending {
					outcome := auction.OutcomeSucceeded
					if rnd.Intn(3) == 0 {
						outcome = auction.OutcomeFailed
					}
					_, _, err := resolveTransfer(a, id, tr.Ledger, outcome)
					require.NoError(t, err)
					if outcome == auction.OutcomeSucceeded && !tr.IsPrize() {
						paidOut = paidOut.Add(tr.Amount)
					}
					break
				}
			}

			held := custody(a)
			require.True(t, deposited.Equal(held.Add(paidOut)),
				"seed %d step %d: deposited %s held %s paid %s", seed, step, deposited, held, paidOut)
			require.LessOrEqual(t, prizes, 1, "seed %d: prize handed out twice", seed)
		}
	}
}
