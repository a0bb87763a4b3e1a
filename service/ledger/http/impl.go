package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/xerrors"

	"github.com/x-xyz/auction/base/backoff"
	bCtx "github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/base/log"
	"github.com/x-xyz/auction/base/metrics"
	"github.com/x-xyz/auction/domain/auction"
)

const (
	idempotencyKey = "Idempotency-Key"
)

var (
	met = metrics.New("ledger")
)

type client struct {
	cfg *ClientCfg
}

func NewClient(cfg *ClientCfg) auction.LedgerClient {
	if cfg.Attempts <= 0 {
		cfg.Attempts = 1
	}
	cfg.BaseUrl = strings.TrimSuffix(cfg.BaseUrl, "/")
	cfg.CallbackBaseUrl = strings.TrimSuffix(cfg.CallbackBaseUrl, "/")
	return &client{cfg: cfg}
}

func (c *client) callbackUrl(t auction.Transfer) string {
	return fmt.Sprintf("%s/auctions/%s/transfers/%s/outcome", c.cfg.CallbackBaseUrl, url.PathEscape(t.AuctionId), url.PathEscape(t.Id))
}

func retryable(err error) bool {
	return !errors.Is(err, ErrRejected)
}

func (c *client) retry(ctx bCtx.Ctx, fn func() error) error {
	b := backoff.NewExponential(c.cfg.RetryStart, c.cfg.RetryLimit)
	return b.Retry(ctx, c.cfg.Attempts, fn, retryable)
}

func (c *client) Submit(ctx bCtx.Ctx, t auction.Transfer) error {
	body, err := json.Marshal(submitReq{Transfer: t, CallbackUrl: c.callbackUrl(t)})
	if err != nil {
		ctx.WithField("err", err).Error("json.Marshal failed")
		return err
	}

	u := fmt.Sprintf("%s/transfers", c.cfg.BaseUrl)
	err = c.retry(ctx, func() error {
		status, _, err := c.do(ctx, http.MethodPost, u, t.Id, body)
		if err != nil {
			return err
		}
		switch {
		case status == http.StatusConflict:
			// accepted by an earlier attempt
			return nil
		case status >= 200 && status < 300:
			return nil
		case status >= 500:
			return xerrors.Errorf("POST %s: %d: %w", u, status, ErrUnavailable)
		}
		return xerrors.Errorf("POST %s: %d: %w", u, status, ErrRejected)
	})
	if err != nil {
		ctx.WithFields(log.Fields{"url": u, "err": err, "transferId": t.Id}).Error("submit transfer failed")
		return err
	}
	return nil
}

func (c *client) Status(ctx bCtx.Ctx, t auction.Transfer) (auction.Outcome, error) {
	u := fmt.Sprintf("%s/transfers/%s", c.cfg.BaseUrl, url.PathEscape(t.Id))

	var outcome auction.Outcome
	err := c.retry(ctx, func() error {
		status, data, err := c.do(ctx, http.MethodGet, u, "", nil)
		if err != nil {
			return err
		}
		switch {
		case status == http.StatusNotFound:
			outcome = auction.OutcomeUnknown
			return nil
		case status >= 500:
			return xerrors.Errorf("GET %s: %d: %w", u, status, ErrUnavailable)
		case status != http.StatusOK:
			return xerrors.Errorf("GET %s: %d: %w", u, status, ErrRejected)
		}

		resp := statusResp{}
		if err := json.Unmarshal(data, &resp); err != nil {
			return xerrors.Errorf("decode status: %v: %w", err, ErrRejected)
		}
		switch resp.Status {
		case auction.OutcomePending, auction.OutcomeSucceeded, auction.OutcomeFailed, auction.OutcomeUnknown:
			outcome = resp.Status
			return nil
		}
		return xerrors.Errorf("status %q: %w", resp.Status, ErrRejected)
	})
	if err != nil {
		ctx.WithFields(log.Fields{"url": u, "err": err, "transferId": t.Id}).Error("transfer status failed")
		return "", err
	}
	return outcome, nil
}

func (c *client) do(ctx bCtx.Ctx, method, u, key string, body []byte) (int, []byte, error) {
	defer met.BumpTime("http.latency", "method", method).End()

	rc, cancel := bCtx.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(rc, method, u, reader)
	if err != nil {
		return 0, nil, xerrors.Errorf("new request: %v: %w", err, ErrRejected)
	}
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(idempotencyKey, key)
	}

	resp, err := c.cfg.HttpClient.Do(req)
	if err != nil {
		ctx.WithFields(log.Fields{"url": u, "err": err}).Warn("client.Do failed")
		return 0, nil, xerrors.Errorf("%s %s: %w", method, u, err)
	}
	defer resp.Body.Close()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, xerrors.Errorf("read body: %w", err)
	}
	return resp.StatusCode, data, nil
}
