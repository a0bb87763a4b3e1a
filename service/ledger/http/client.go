package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/x-xyz/auction/domain/auction"
)

var (
	// ErrRejected is returned when the ledger refuses a request. It is not
	// retried.
	ErrRejected = fmt.Errorf("ledger rejected request: %w", auction.ErrTransferRefused)
	// ErrUnavailable is returned for a 5xx answer. It is retried.
	ErrUnavailable = errors.New("ledger unavailable")
)

type ClientCfg struct {
	BaseUrl string
	// CallbackBaseUrl is where the ledger reports outcomes, the public base
	// url of the auction api.
	CallbackBaseUrl string
	HttpClient      http.Client
	Timeout         time.Duration
	RetryStart      time.Duration
	RetryLimit      time.Duration
	Attempts        int
}

type submitReq struct {
	Transfer    auction.Transfer `json:"transfer"`
	CallbackUrl string           `json:"callbackUrl"`
}

type statusResp struct {
	Status auction.Outcome `json:"status"`
}
