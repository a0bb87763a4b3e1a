package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedisKey(t *testing.T) {
	assert.Equal(t, "auctionLock:lot-1", RedisKey(PfxAuctionLock, "lot-1"))
	assert.Equal(t, "a|b", CustomKey("|", "a", "b"))
}

func TestGetPrefix(t *testing.T) {
	assert.Equal(t, "", GetPrefix("plain"))
	assert.Equal(t, "auctionLock", GetPrefix("auctionLock:lot-1"))
	assert.Equal(t, "auctionView:lot-1", GetPrefix("auctionView:lot-1:3"))
}
