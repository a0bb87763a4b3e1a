package auction

import (
	"time"

	"github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/domain"
)

type Lifecycle string

const (
	LifecycleUninitialized Lifecycle = "uninitialized"
	LifecycleInitialized   Lifecycle = "initialized"
)

// Phase is derived from the end time and the claimed flag, never stored.
type Phase string

const (
	PhaseOpen    Phase = "open"
	PhaseEnded   Phase = "ended"
	PhaseClaimed Phase = "claimed"
)

type ClaimPolicy string

const (
	ClaimPolicyAnyone     ClaimPolicy = "anyone"
	ClaimPolicyAuctioneer ClaimPolicy = "auctioneer"
)

func (p ClaimPolicy) IsValid() bool {
	return p == ClaimPolicyAnyone || p == ClaimPolicyAuctioneer
}

type Bid struct {
	Bidder domain.Address `json:"bidder" bson:"bidder"`
	Amount Amount         `json:"amount" bson:"amount"`
}

// Prize is a non-fungible item held by the auction and handed to the winner
// on claim.
type Prize struct {
	Contract domain.Address `json:"contract" bson:"contract"`
	TokenId  domain.TokenId `json:"tokenId" bson:"tokenId"`
}

type Auction struct {
	Id        string         `json:"id" bson:"_id"`
	Lifecycle Lifecycle      `json:"lifecycle" bson:"lifecycle"`
	Self      domain.Address `json:"self" bson:"self"`

	// fixed at init
	Auctioneer      domain.Address  `json:"auctioneer" bson:"auctioneer"`
	EndTime         int64           `json:"endTime" bson:"endTime"` // unix nano
	StartingPrice   Amount          `json:"startingPrice" bson:"startingPrice"`
	PaymentAsset    *domain.Address `json:"paymentAsset,omitempty" bson:"paymentAsset,omitempty"`
	SettlementAsset *Prize          `json:"settlementAsset,omitempty" bson:"settlementAsset,omitempty"`
	ClaimPolicy     ClaimPolicy     `json:"claimPolicy" bson:"claimPolicy"`
	Accumulate      bool            `json:"accumulate" bson:"accumulate"`

	HighestBid Bid  `json:"highestBid" bson:"highestBid"`
	Claimed    bool `json:"claimed" bson:"claimed"`

	// Escrow is the running total per bidder when Accumulate is set.
	Escrow map[domain.Address]Amount `json:"escrow,omitempty" bson:"escrow,omitempty"`
	// Pending holds the continuation record of every dispatched transfer
	// whose outcome has not been observed yet, keyed by transfer id.
	Pending map[string]Transfer `json:"pending,omitempty" bson:"pending,omitempty"`
	// Owed is the recoverable-failures ledger.
	Owed map[domain.Address]Owed `json:"owed,omitempty" bson:"owed,omitempty"`

	Version   int64     `json:"version" bson:"version"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (a *Auction) IsInitialized() bool {
	return a != nil && a.Lifecycle == LifecycleInitialized
}

func (a *Auction) Phase(now int64) Phase {
	if a.Claimed {
		return PhaseClaimed
	}
	if now < a.EndTime {
		return PhaseOpen
	}
	return PhaseEnded
}

// HasRealBid is false while the sentinel bid placed at init is the highest.
func (a *Auction) HasRealBid() bool {
	return !a.HighestBid.Bidder.Equals(a.Self)
}

// Denomination is the asset kind bids, refunds and proceeds are paid in.
func (a *Auction) Denomination() Asset {
	if a.PaymentAsset != nil {
		return AssetFungible
	}
	return AssetNative
}

// Info is the read-only full view of an auction.
type Info struct {
	Id              string          `json:"id"`
	Self            domain.Address  `json:"self"`
	Auctioneer      domain.Address  `json:"auctioneer"`
	EndTime         int64           `json:"endTime"`
	StartingPrice   Amount          `json:"startingPrice"`
	PaymentAsset    *domain.Address `json:"paymentAsset,omitempty"`
	SettlementAsset *Prize          `json:"settlementAsset,omitempty"`
	ClaimPolicy     ClaimPolicy     `json:"claimPolicy"`
	Accumulate      bool            `json:"accumulate"`
	HighestBid      Bid             `json:"highestBid"`
	Claimed         bool            `json:"claimed"`
	Phase           Phase           `json:"phase"`
	PendingCount    int             `json:"pendingCount"`
	Version         int64           `json:"version"`
}

func (a *Auction) ToInfo(now int64) *Info {
	return &Info{
		Id:              a.Id,
		Self:            a.Self,
		Auctioneer:      a.Auctioneer,
		EndTime:         a.EndTime,
		StartingPrice:   a.StartingPrice,
		PaymentAsset:    a.PaymentAsset,
		SettlementAsset: a.SettlementAsset,
		ClaimPolicy:     a.ClaimPolicy,
		Accumulate:      a.Accumulate,
		HighestBid:      a.HighestBid,
		Claimed:         a.Claimed,
		Phase:           a.Phase(now),
		PendingCount:    len(a.Pending),
		Version:         a.Version,
	}
}

// InitParams configures a new auction instance.
type InitParams struct {
	Id              string
	Auctioneer      domain.Address
	EndTime         int64
	StartingPrice   Amount
	PaymentAsset    *domain.Address
	SettlementAsset *Prize
	ClaimPolicy     ClaimPolicy
	Accumulate      bool
}

type Repo interface {
	// Get returns domain.ErrNotFound for an unknown id.
	Get(ctx ctx.Ctx, id string) (*Auction, error)
	// Create fails with ErrAlreadyInitialized if the id exists.
	Create(ctx ctx.Ctx, a *Auction) error
	// Update replaces the stored auction if its version still equals
	// a.Version and bumps a.Version. Otherwise it fails with
	// ErrConcurrentModification.
	Update(ctx ctx.Ctx, a *Auction) error
	List(ctx ctx.Ctx, offset, limit int) ([]*Auction, error)
	// FindWithPendingBefore returns auctions holding at least one pending
	// transfer created before the given time.
	FindWithPendingBefore(ctx ctx.Ctx, before time.Time, limit int) ([]*Auction, error)
}

type Usecase interface {
	Init(ctx ctx.Ctx, params InitParams) (*Auction, error)
	// Execute runs one call against the auction. A rejected call leaves the
	// auction untouched and the returned Result tells what goes back to the
	// caller.
	Execute(ctx ctx.Ctx, id string, call Call) (*Result, error)
	// ResolveTransfer records the outcome of a dispatched transfer. Only the
	// ledger the transfer was submitted to may resolve it, and only once.
	ResolveTransfer(ctx ctx.Ctx, id, transferId string, caller domain.Address, outcome Outcome, reason string) error

	Get(ctx ctx.Ctx, id string) (*Info, error)
	HighestBid(ctx ctx.Ctx, id string) (*Bid, error)
	EndTime(ctx ctx.Ctx, id string) (int64, error)
	Claimed(ctx ctx.Ctx, id string) (bool, error)
	Owed(ctx ctx.Ctx, id string, party domain.Address) (*Owed, error)
	List(ctx ctx.Ctx, offset, limit int) ([]*Info, error)

	// Reconcile asks the ledgers about transfers pending for longer than
	// staleAfter and resolves the ones with a final outcome.
	Reconcile(ctx ctx.Ctx, staleAfter time.Duration, limit int) (int, error)
	// Drain waits for in-flight dispatches.
	Drain(ctx ctx.Ctx) error
}

// LedgerClient submits transfers to the ledgers. Submit only hands the
// transfer over; the outcome comes back later through ResolveTransfer. A
// Submit error wrapping ErrTransferRefused means the transfer was never
// accepted, any other error leaves the outcome to Status.
type LedgerClient interface {
	Submit(ctx ctx.Ctx, t Transfer) error
	Status(ctx ctx.Ctx, t Transfer) (Outcome, error)
}

type Notifier interface {
	OwedCredited(ctx ctx.Ctx, a *Auction, t Transfer, reason string)
	Claimed(ctx ctx.Ctx, a *Auction)
}
