package query

/*
	Description:
		Package `query` wraps https://github.com/mongodb/mongo-go-driver for the
		handful of document operations the auction store needs. Every method
		logs slow queries and reports its latency per table.
*/

import (
	"fmt"

	"github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/domain"
)

var (
	// ErrNotFound is mongo document not found error
	ErrNotFound = fmt.Errorf("document not found")

	// ErrDuplicateKey is an error when violating unique index
	ErrDuplicateKey = fmt.Errorf("duplicate key")

	// ErrCollScan is error for unindexed query
	ErrCollScan = fmt.Errorf("COLLSCAN is not allowed")
)

// Index is one index on a table, keys in order. A key prefixed with "-" is
// descending.
type Index struct {
	Keys   []string
	Unique bool
}

// Mongo is the document store used by the repositories.
type Mongo interface {
	// Insert inserts a new document to the table
	// Return ErrDuplicateKey if a unique index is violated
	Insert(context ctx.Ctx, table domain.Table, insert interface{}) error

	// FindOne get data from the table
	// Return ErrNotFound if query does not match any documents
	FindOne(context ctx.Ctx, table domain.Table, query, result interface{}) error

	// Replace replaces the document matched by selector.
	// Return ErrNotFound if selector does not match any documents
	Replace(context ctx.Ctx, table domain.Table, selector, replacement interface{}) error

	// Search sort order by `sort` argument (ex "timestamp" ascending, or "-timestamp" descending)
	// if `sort` is "", the sort action is skipped, and the MongoDB does not guarantee the order of query results.
	Search(context ctx.Ctx, table domain.Table, offset, limit int, sort string, query, results interface{}) error

	// EnsureIndexes creates the indexes if they do not exist yet.
	EnsureIndexes(context ctx.Ctx, table domain.Table, indexes []Index) error
}
