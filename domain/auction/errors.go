package auction

import "errors"

var (
	// configuration
	ErrAlreadyInitialized = errors.New("auction already initialized")
	ErrInvalidConfig      = errors.New("invalid auction config")
	ErrNotInitialized     = errors.New("auction not initialized")

	// admission
	ErrAuctionEnded       = errors.New("auction has ended")
	ErrBidTooLow          = errors.New("bid must be higher than the highest bid")
	ErrUnauthorizedCaller = errors.New("caller is not allowed to perform this call")
	ErrBadNotification    = errors.New("malformed payment notification")

	// settlement
	ErrAuctionNotEnded = errors.New("auction has not ended yet")
	ErrAlreadyClaimed  = errors.New("auction has already been claimed")

	// recovery
	ErrNothingOwed     = errors.New("nothing owed to caller")
	ErrUnknownTransfer = errors.New("unknown or already resolved transfer")
	// ErrTransferRefused is wrapped by LedgerClient.Submit errors when the
	// ledger definitely did not accept the transfer.
	ErrTransferRefused = errors.New("transfer refused by ledger")
	// ErrOutcomeUnknown means a state change may or may not have been
	// persisted. Nothing attached to the call is handed back.
	ErrOutcomeUnknown = errors.New("call outcome unknown")

	ErrUnknownOperation       = errors.New("unknown operation")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInvalidOutcome         = errors.New("invalid transfer outcome")
	ErrConcurrentModification = errors.New("auction modified concurrently")
)
