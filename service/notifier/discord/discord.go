package discord

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/viney-shih/goroutines"

	"github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/base/goroutine"
	"github.com/x-xyz/auction/domain/auction"
)

const (
	colorWarn = 0xf0ad4e
	colorOk   = 0x5cb85c
)

type sender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error)
}

type Config struct {
	BotKey    string
	ChannelId string
}

type notifier struct {
	session   sender
	channelId string
	pool      *goroutines.Pool
}

// New posts operator alerts to a discord channel. Messages are sent in the
// background and dropped when the queue is full.
func New(cfg Config) (auction.Notifier, error) {
	session, err := discordgo.New(fmt.Sprintf("Bot %s", cfg.BotKey))
	if err != nil {
		return nil, err
	}
	return newNotifier(session, cfg.ChannelId), nil
}

func newNotifier(s sender, channelId string) *notifier {
	return &notifier{
		session:   s,
		channelId: channelId,
		pool:      goroutines.NewPool(1, goroutines.WithTaskQueueLength(256)),
	}
}

func (n *notifier) send(c ctx.Ctx, msg *discordgo.MessageEmbed) {
	err := n.pool.ScheduleWithTimeout(100*time.Millisecond, func() {
		goroutine.Recoverable(func() {
			if _, err := n.session.ChannelMessageSendEmbed(n.channelId, msg); err != nil {
				c.WithField("err", err).Warn("discord.ChannelMessageSendEmbed failed")
			}
		}, goroutine.WithLogger(c.Logger))
	})
	if err != nil {
		c.WithField("err", err).Warn("dropped discord notification")
	}
}

func (n *notifier) OwedCredited(c ctx.Ctx, a *auction.Auction, t auction.Transfer, reason string) {
	value := t.Amount.String()
	if t.IsPrize() {
		value = fmt.Sprintf("%s #%s", t.Ledger, t.TokenId)
	}
	n.send(ctx.Detach(c), &discordgo.MessageEmbed{
		Title:       "Transfer failed, amount credited to owed ledger",
		Description: fmt.Sprintf("auction %s", a.Id),
		Color:       colorWarn,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Kind", Value: string(t.Kind), Inline: true},
			{Name: "Recipient", Value: t.Recipient.String(), Inline: true},
			{Name: "Value", Value: value},
			{Name: "Transfer", Value: t.Id},
			{Name: "Reason", Value: orDash(reason)},
		},
	})
}

func (n *notifier) Claimed(c ctx.Ctx, a *auction.Auction) {
	winner := "no bids"
	if a.HasRealBid() {
		winner = a.HighestBid.Bidder.String()
	}
	n.send(ctx.Detach(c), &discordgo.MessageEmbed{
		Title:       "Auction settled",
		Description: fmt.Sprintf("auction %s", a.Id),
		Color:       colorOk,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Winner", Value: winner},
			{Name: "Amount", Value: a.HighestBid.Amount.String(), Inline: true},
			{Name: "Auctioneer", Value: a.Auctioneer.String(), Inline: true},
		},
	})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
