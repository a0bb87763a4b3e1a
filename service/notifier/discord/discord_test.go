package discord

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/domain"
	"github.com/x-xyz/auction/domain/auction"
)

type fakeSender struct {
	sent chan *discordgo.MessageEmbed
}

func (f *fakeSender) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	f.sent <- embed
	return &discordgo.Message{ChannelID: channelID}, nil
}

func receive(t *testing.T, f *fakeSender) *discordgo.MessageEmbed {
	select {
	case msg := <-f.sent:
		return msg
	case <-time.After(time.Second):
		require.FailNow(t, "no message sent")
	}
	return nil
}

func TestNotifier(t *testing.T) {
	f := &fakeSender{sent: make(chan *discordgo.MessageEmbed, 2)}
	n := newNotifier(f, "channel")

	a := &auction.Auction{
		Id:         "lot-1",
		Self:       domain.DeriveAddress("lot-1"),
		Auctioneer: domain.Address("0x00000000000000000000000000000000000000aa"),
	}
	a.HighestBid = auction.Bid{Bidder: domain.Address("0x00000000000000000000000000000000000000bb"), Amount: auction.NewAmount(2)}

	n.OwedCredited(ctx.Background(), a, auction.Transfer{
		Id:        "t-1",
		Kind:      auction.TransferKindRefund,
		Recipient: a.HighestBid.Bidder,
		Amount:    auction.NewAmount(1),
	}, "")
	msg := receive(t, f)
	assert.Equal(t, "auction lot-1", msg.Description)
	assert.Equal(t, "1", msg.Fields[2].Value)
	assert.Equal(t, "-", msg.Fields[4].Value)

	n.Claimed(ctx.Background(), a)
	msg = receive(t, f)
	assert.Equal(t, "Auction settled", msg.Title)
	assert.Equal(t, a.HighestBid.Bidder.String(), msg.Fields[0].Value)
	assert.Equal(t, "2", msg.Fields[1].Value)
}
