package domain

// Table is a mongo collection name
type Table string

const (
	TableAuctions Table = "auctions"
)
