package keys

import (
	"strings"
)

const (
	// PfxAuctionLock is used for prefixing the per auction call lock
	PfxAuctionLock = "auctionLock"
	// PfxAuctionView is used for prefixing cached read-only auction views
	PfxAuctionView = "auctionView"
)

// CustomKey is used to join the customized key by componets with specified delimiter
func CustomKey(delimiter string, components ...string) string {
	return strings.Join(components, delimiter)
}

// RedisKey is used to join the redis key by componets
func RedisKey(components ...string) string {
	return CustomKey(":", components...)
}

// GetPrefix extracts the prefix of a key for metric tags.
// A key with more than two components reports its first two.
func GetPrefix(key string) string {
	s := strings.Split(key, ":")
	if len(s) > 2 {
		return strings.Join([]string{s[0], s[1]}, ":")
	} else if len(s) > 1 {
		return s[0]
	}
	return ""
}
