package auction

import "github.com/x-xyz/auction/domain"

// Method is the closed set of state changing calls an auction accepts.
type Method string

const (
	MethodBid               Method = "bid"
	MethodOnPaymentReceived Method = "on_payment_received"
	MethodClaim             Method = "claim"
	MethodWithdraw          Method = "withdraw"
)

func (m Method) IsValid() bool {
	switch m {
	case MethodBid, MethodOnPaymentReceived, MethodClaim, MethodWithdraw:
		return true
	}
	return false
}

// Call is one host scheduled invocation. Caller and Attached are asserted by
// the host, never by the caller itself.
type Call struct {
	Method   Method
	Caller   domain.Address
	Attached Amount
	// Payment is set for MethodOnPaymentReceived.
	Payment *PaymentNotification
}

// PaymentNotification is sent by the payment asset ledger after it moved
// Amount from Sender into the custody of the auction.
type PaymentNotification struct {
	Sender  domain.Address `json:"sender"`
	Amount  Amount         `json:"amount"`
	Message string         `json:"message"`
}

type Result struct {
	HighestBid Bid `json:"highestBid"`
	// Refund is the attached native value handed back to the caller.
	Refund Amount `json:"refund"`
	// Unused is the part of a payment notification the ledger must return
	// to its sender.
	Unused    Amount     `json:"unused"`
	Transfers []Transfer `json:"transfers,omitempty"`
}
