package repository

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/base/log"
	"github.com/x-xyz/auction/domain"
	"github.com/x-xyz/auction/domain/auction"
	"github.com/x-xyz/auction/service/query"
)

// auctionDoc is the stored form of an auction. OldestPending lets stale
// transfers be found with an index, since pending records are keyed by id.
type auctionDoc struct {
	auction.Auction `bson:",inline"`
	OldestPending   *time.Time `bson:"oldestPending,omitempty"`
}

func toDoc(a *auction.Auction) *auctionDoc {
	d := &auctionDoc{Auction: *a}
	for _, t := range a.Pending {
		if d.OldestPending == nil || t.CreatedAt.Before(*d.OldestPending) {
			createdAt := t.CreatedAt
			d.OldestPending = &createdAt
		}
	}
	return d
}

var indexes = []query.Index{
	{Keys: []string{"createdAt"}},
	{Keys: []string{"oldestPending"}},
}

type mongoRepo struct {
	q query.Mongo
}

func NewMongo(c ctx.Ctx, q query.Mongo) (auction.Repo, error) {
	if err := q.EnsureIndexes(c, domain.TableAuctions, indexes); err != nil {
		c.WithField("err", err).Error("q.EnsureIndexes failed")
		return nil, err
	}
	return &mongoRepo{q: q}, nil
}

func (r *mongoRepo) Get(c ctx.Ctx, id string) (*auction.Auction, error) {
	d := &auctionDoc{}
	if err := r.q.FindOne(c, domain.TableAuctions, bson.M{"_id": id}, d); errors.Is(err, query.ErrNotFound) {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "id": id}).Error("q.FindOne failed")
		return nil, err
	}
	return &d.Auction, nil
}

func (r *mongoRepo) Create(c ctx.Ctx, a *auction.Auction) error {
	if err := r.q.Insert(c, domain.TableAuctions, toDoc(a)); errors.Is(err, query.ErrDuplicateKey) {
		return auction.ErrAlreadyInitialized
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "id": a.Id}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *mongoRepo) Update(c ctx.Ctx, a *auction.Auction) error {
	selector := bson.M{"_id": a.Id, "version": a.Version}
	d := toDoc(a)
	d.Version = a.Version + 1
	if err := r.q.Replace(c, domain.TableAuctions, selector, d); errors.Is(err, query.ErrNotFound) {
		return auction.ErrConcurrentModification
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "id": a.Id}).Error("q.Replace failed")
		return err
	}
	a.Version = d.Version
	return nil
}

func (r *mongoRepo) search(c ctx.Ctx, offset, limit int, sort string, qry bson.M) ([]*auction.Auction, error) {
	docs := []auctionDoc{}
	if err := r.q.Search(c, domain.TableAuctions, offset, limit, sort, qry, &docs); err != nil {
		c.WithFields(log.Fields{"err": err, "query": qry}).Error("q.Search failed")
		return nil, err
	}
	res := make([]*auction.Auction, 0, len(docs))
	for i := range docs {
		res = append(res, &docs[i].Auction)
	}
	return res, nil
}

func (r *mongoRepo) List(c ctx.Ctx, offset, limit int) ([]*auction.Auction, error) {
	return r.search(c, offset, limit, "createdAt", bson.M{})
}

func (r *mongoRepo) FindWithPendingBefore(c ctx.Ctx, before time.Time, limit int) ([]*auction.Auction, error) {
	return r.search(c, 0, limit, "oldestPending", bson.M{"oldestPending": bson.M{"$lt": before}})
}
