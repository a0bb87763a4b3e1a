package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/base/delivery"
	"github.com/x-xyz/auction/domain"
	"github.com/x-xyz/auction/domain/auction"
	"github.com/x-xyz/auction/middleware"
	authMiddleware "github.com/x-xyz/auction/stores/auth/delivery/http/middleware"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

var timeNow = time.Now

type handler struct {
	auction auction.Usecase
}

func New(e *echo.Echo, uc auction.Usecase, am *authMiddleware.AuthMiddleware) {
	h := &handler{uc}

	gs := e.Group("/auctions")
	gs.GET("", h.list)
	gs.POST("", h.init, am.Auth(), am.IsHostAdmin())

	g := e.Group("/auctions/:id")
	g.GET("", h.get)
	g.GET("/highest-bid", h.highestBid)
	g.GET("/end-time", h.endTime)
	g.GET("/claimed", h.claimed)
	g.GET("/owed/:party", h.owed, middleware.IsValidAddress("party"))
	g.POST("/calls", h.call, am.Auth())
	g.POST("/transfers/:transferId/outcome", h.outcome, am.Auth())
}

// errStatus is the http status a usecase error is reported with.
func errStatus(err error) int {
	switch {
	case errors.Is(err, auction.ErrNotInitialized), errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, auction.ErrInvalidConfig),
		errors.Is(err, auction.ErrInvalidAmount),
		errors.Is(err, auction.ErrBadNotification),
		errors.Is(err, auction.ErrUnknownOperation),
		errors.Is(err, auction.ErrInvalidOutcome):
		return http.StatusBadRequest
	case errors.Is(err, auction.ErrUnauthorizedCaller):
		return http.StatusForbidden
	case errors.Is(err, auction.ErrAlreadyInitialized),
		errors.Is(err, auction.ErrAuctionEnded),
		errors.Is(err, auction.ErrBidTooLow),
		errors.Is(err, auction.ErrAuctionNotEnded),
		errors.Is(err, auction.ErrAlreadyClaimed),
		errors.Is(err, auction.ErrNothingOwed),
		errors.Is(err, auction.ErrUnknownTransfer),
		errors.Is(err, auction.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, auction.ErrOutcomeUnknown):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func fail(c echo.Context, err error) error {
	return delivery.MakeJsonResp(c, errStatus(err), err)
}

func bind(c echo.Context, p interface{}) error {
	if err := c.Bind(p); err != nil {
		return err
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(p)
}

func parseAmount(s string) (auction.Amount, error) {
	if s == "" {
		return auction.Zero, nil
	}
	return auction.ParseAmount(s)
}

type prizeParams struct {
	Contract domain.Address `json:"contract" validate:"address"`
	TokenId  domain.TokenId `json:"tokenId" validate:"required"`
}

// init
//
//	@Summary		Initialize an auction
//	@Description	Create the auction instance named id. Host admins only.
//	@Tags			auctions
//	@Security		ApiKeyAuth
//	@Accept			json
//	@Produce		json
//	@Param			params	body		http.init.params	true	"params"
//	@Success		201		{object}	object{data=auction.Info}
//	@Failure		400
//	@Failure		403
//	@Failure		409
//	@Router			/auctions [post]
func (h *handler) init(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Id            string          `json:"id" validate:"auctionid"`
		Auctioneer    domain.Address  `json:"auctioneer" validate:"address"`
		EndTime       int64           `json:"endTime" validate:"required"` // unix nano
		StartingPrice string          `json:"startingPrice" validate:"omitempty,amount"`
		PaymentAsset  *domain.Address `json:"paymentAsset" validate:"omitempty,address"`
		Prize         *prizeParams    `json:"settlementAsset"`
		ClaimPolicy   string          `json:"claimPolicy" validate:"omitempty,oneof=anyone auctioneer"`
		Accumulate    bool            `json:"accumulate"`
	}

	p := &params{}
	if err := bind(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	price, err := parseAmount(p.StartingPrice)
	if err != nil {
		return fail(c, err)
	}

	ip := auction.InitParams{
		Id:            p.Id,
		Auctioneer:    p.Auctioneer,
		EndTime:       p.EndTime,
		StartingPrice: price,
		PaymentAsset:  p.PaymentAsset,
		ClaimPolicy:   auction.ClaimPolicy(p.ClaimPolicy),
		Accumulate:    p.Accumulate,
	}
	if p.Prize != nil {
		ip.SettlementAsset = &auction.Prize{Contract: p.Prize.Contract, TokenId: p.Prize.TokenId}
	}

	a, err := h.auction.Init(ctx, ip)
	if err != nil {
		return fail(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, a.ToInfo(timeNow().UnixNano()))
}

// list
//
//	@Summary		List auctions
//	@Description	List auctions ordered by creation time
//	@Tags			auctions
//	@Produce		json
//	@Param			offset	query		int	false	"offset"
//	@Param			limit	query		int	false	"limit, at most 100"
//	@Success		200		{object}	object{data=[]auction.Info}
//	@Failure		400
//	@Router			/auctions [get]
func (h *handler) list(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	offset, limit := 0, defaultListLimit
	if v := c.QueryParam("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid offset")
		}
		offset = n
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxListLimit {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid limit")
		}
		limit = n
	}

	res, err := h.auction.List(ctx, offset, limit)
	if err != nil {
		return fail(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// get
//
//	@Summary		Get auction
//	@Description	Full read-only view of an auction
//	@Tags			auctions
//	@Produce		json
//	@Param			id	path		string	true	"auction id"
//	@Success		200	{object}	object{data=auction.Info}
//	@Failure		404
//	@Router			/auctions/{id} [get]
func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.auction.Get(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// highestBid
//
//	@Summary		Get highest bid
//	@Tags			auctions
//	@Produce		json
//	@Param			id	path		string	true	"auction id"
//	@Success		200	{object}	object{data=auction.Bid}
//	@Failure		404
//	@Router			/auctions/{id}/highest-bid [get]
func (h *handler) highestBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.auction.HighestBid(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// endTime
//
//	@Summary		Get auction end time
//	@Tags			auctions
//	@Produce		json
//	@Param			id	path		string	true	"auction id"
//	@Success		200	{object}	object{data=int64}	"unix nano"
//	@Failure		404
//	@Router			/auctions/{id}/end-time [get]
func (h *handler) endTime(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.auction.EndTime(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// claimed
//
//	@Summary		Get claimed flag
//	@Tags			auctions
//	@Produce		json
//	@Param			id	path		string	true	"auction id"
//	@Success		200	{object}	object{data=bool}
//	@Failure		404
//	@Router			/auctions/{id}/claimed [get]
func (h *handler) claimed(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.auction.Claimed(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// owed
//
//	@Summary		Get owed amounts
//	@Description	What party can pull with withdraw after a failed transfer
//	@Tags			auctions
//	@Produce		json
//	@Param			id		path		string	true	"auction id"
//	@Param			party	path		string	true	"party address"
//	@Success		200		{object}	object{data=auction.Owed}
//	@Failure		400
//	@Failure		404
//	@Router			/auctions/{id}/owed/{party} [get]
func (h *handler) owed(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.auction.Owed(ctx, c.Param("id"), domain.Address(c.Param("party")))
	if err != nil {
		return fail(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

type rejected struct {
	Error  string         `json:"error"`
	Refund auction.Amount `json:"refund"`
	Unused auction.Amount `json:"unused"`
}

// call
//
//	@Summary		Call an auction
//	@Description	Run bid, on_payment_received, claim or withdraw as the caller asserted by the host token.
//	@Description	A rejected call reports the value handed back in refund and unused.
//	@Tags			auctions
//	@Security		ApiKeyAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"auction id"
//	@Param			params	body		http.call.params	true	"params"
//	@Success		200		{object}	object{data=auction.Result}
//	@Failure		400		{object}	object{data=http.rejected}
//	@Failure		403		{object}	object{data=http.rejected}
//	@Failure		409		{object}	object{data=http.rejected}
//	@Failure		503		{object}	object{data=http.rejected}
//	@Router			/auctions/{id}/calls [post]
func (h *handler) call(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payment struct {
		Sender  domain.Address `json:"sender" validate:"address"`
		Amount  string         `json:"amount" validate:"amount"`
		Message string         `json:"message"`
	}
	type params struct {
		Method   auction.Method `json:"method" validate:"required"`
		Attached string         `json:"attached" validate:"omitempty,amount"`
		Payment  *payment       `json:"payment"`
	}

	p := &params{}
	if err := bind(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	attached, err := parseAmount(p.Attached)
	if err != nil {
		return fail(c, err)
	}
	call := auction.Call{
		Method:   p.Method,
		Caller:   c.Get("caller").(domain.Address),
		Attached: attached,
	}
	if p.Payment != nil {
		amount, err := parseAmount(p.Payment.Amount)
		if err != nil {
			return fail(c, err)
		}
		call.Payment = &auction.PaymentNotification{
			Sender:  p.Payment.Sender,
			Amount:  amount,
			Message: p.Payment.Message,
		}
	}

	res, err := h.auction.Execute(ctx, c.Param("id"), call)
	if err != nil {
		r := rejected{Error: err.Error(), Refund: attached, Unused: auction.Zero}
		if res != nil {
			r.Refund, r.Unused = res.Refund, res.Unused
		}
		return delivery.MakeJsonResp(c, errStatus(err), r)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// outcome
//
//	@Summary		Report a transfer outcome
//	@Description	Called back by the ledger a transfer was submitted to
//	@Tags			auctions
//	@Security		ApiKeyAuth
//	@Accept			json
//	@Produce		json
//	@Param			id			path	string				true	"auction id"
//	@Param			transferId	path	string				true	"transfer id"
//	@Param			params		body	http.outcome.params	true	"params"
//	@Success		200
//	@Failure		400
//	@Failure		403
//	@Failure		409
//	@Router			/auctions/{id}/transfers/{transferId}/outcome [post]
func (h *handler) outcome(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Outcome auction.Outcome `json:"outcome" validate:"oneof=succeeded failed"`
		Reason  string          `json:"reason"`
	}

	p := &params{}
	if err := bind(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	caller := c.Get("caller").(domain.Address)
	if err := h.auction.ResolveTransfer(ctx, c.Param("id"), c.Param("transferId"), caller, p.Outcome, p.Reason); err != nil {
		return fail(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}
