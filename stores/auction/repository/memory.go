package repository

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/domain"
	"github.com/x-xyz/auction/domain/auction"
)

type memoryRepo struct {
	mu       sync.RWMutex
	auctions map[string][]byte
}

// NewMemory keeps auctions in process. Every read and write goes through a
// copy, so callers never share state with the store.
func NewMemory() auction.Repo {
	return &memoryRepo{auctions: map[string][]byte{}}
}

func decode(raw []byte) (*auction.Auction, error) {
	a := &auction.Auction{}
	if err := json.Unmarshal(raw, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *memoryRepo) Get(c ctx.Ctx, id string) (*auction.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	raw, ok := r.auctions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return decode(raw)
}

func (r *memoryRepo) Create(c ctx.Ctx, a *auction.Auction) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.auctions[a.Id]; ok {
		return auction.ErrAlreadyInitialized
	}
	r.auctions[a.Id] = raw
	return nil
}

func (r *memoryRepo) Update(c ctx.Ctx, a *auction.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	raw, ok := r.auctions[a.Id]
	if !ok {
		return auction.ErrConcurrentModification
	}
	stored, err := decode(raw)
	if err != nil {
		return err
	}
	if stored.Version != a.Version {
		return auction.ErrConcurrentModification
	}

	next := *a
	next.Version++
	if raw, err = json.Marshal(&next); err != nil {
		return err
	}
	r.auctions[a.Id] = raw
	a.Version = next.Version
	return nil
}

func (r *memoryRepo) all() ([]*auction.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]*auction.Auction, 0, len(r.auctions))
	for _, raw := range r.auctions {
		a, err := decode(raw)
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, nil
}

func page(as []*auction.Auction, offset, limit int) []*auction.Auction {
	if offset >= len(as) {
		return []*auction.Auction{}
	}
	as = as[offset:]
	if limit > 0 && limit < len(as) {
		as = as[:limit]
	}
	return as
}

func (r *memoryRepo) List(c ctx.Ctx, offset, limit int) ([]*auction.Auction, error) {
	as, err := r.all()
	if err != nil {
		return nil, err
	}
	sort.Slice(as, func(i, j int) bool {
		if as[i].CreatedAt.Equal(as[j].CreatedAt) {
			return as[i].Id < as[j].Id
		}
		return as[i].CreatedAt.Before(as[j].CreatedAt)
	})
	return page(as, offset, limit), nil
}

func (r *memoryRepo) FindWithPendingBefore(c ctx.Ctx, before time.Time, limit int) ([]*auction.Auction, error) {
	as, err := r.all()
	if err != nil {
		return nil, err
	}
	oldest := map[string]time.Time{}
	found := []*auction.Auction{}
	for _, a := range as {
		for _, t := range a.Pending {
			if o, ok := oldest[a.Id]; !ok || t.CreatedAt.Before(o) {
				oldest[a.Id] = t.CreatedAt
			}
		}
		if o, ok := oldest[a.Id]; ok && o.Before(before) {
			found = append(found, a)
		}
	}
	sort.Slice(found, func(i, j int) bool {
		return oldest[found[i].Id].Before(oldest[found[j].Id])
	})
	return page(found, 0, limit), nil
}
