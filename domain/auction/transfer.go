package auction

import (
	"time"

	"github.com/x-xyz/auction/domain"
)

type TransferKind string

const (
	TransferKindRefund     TransferKind = "refund"
	TransferKindProceeds   TransferKind = "proceeds"
	TransferKindPrize      TransferKind = "prize"
	TransferKindWithdrawal TransferKind = "withdrawal"
)

type Asset string

const (
	AssetNative      Asset = "native"
	AssetFungible    Asset = "fungible"
	AssetNonFungible Asset = "nonfungible"
)

// Transfer is the continuation record of one async value transfer. The ledger
// reports its outcome by Id.
type Transfer struct {
	Id        string         `json:"id" bson:"id"`
	AuctionId string         `json:"auctionId" bson:"auctionId"`
	Kind      TransferKind   `json:"kind" bson:"kind"`
	Asset     Asset          `json:"asset" bson:"asset"`
	Ledger    domain.Address `json:"ledger" bson:"ledger"`
	Sender    domain.Address `json:"sender" bson:"sender"`
	Recipient domain.Address `json:"recipient" bson:"recipient"`
	Amount    Amount         `json:"amount" bson:"amount"`
	TokenId   domain.TokenId `json:"tokenId,omitempty" bson:"tokenId,omitempty"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt"`
}

func (t Transfer) IsPrize() bool {
	return t.Asset == AssetNonFungible
}

// Owed is what a party can pull with withdraw after a push transfer to it
// failed.
type Owed struct {
	Amount Amount  `json:"amount" bson:"amount"`
	Prizes []Prize `json:"prizes,omitempty" bson:"prizes,omitempty"`
}

func (o Owed) IsEmpty() bool {
	return !o.Amount.IsPositive() && len(o.Prizes) == 0
}

type Outcome string

const (
	OutcomePending   Outcome = "pending"
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	// OutcomeUnknown means the ledger never accepted the transfer.
	OutcomeUnknown Outcome = "unknown"
)

func (o Outcome) IsFinal() bool {
	return o == OutcomeSucceeded || o == OutcomeFailed || o == OutcomeUnknown
}
