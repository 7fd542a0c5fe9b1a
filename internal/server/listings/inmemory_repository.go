package listings

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/reverseauction/internal/client/models"
	"github.com/dmitrijs2005/reverseauction/internal/shared"
)

type InMemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]models.Listing
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byID: make(map[string]models.Listing)}
}

// clone copies the slices so callers never share backing arrays with the
// stored value.
func clone(l models.Listing) models.Listing {
	l.Bids = append([]models.Bid(nil), l.Bids...)
	l.Images = append([]string(nil), l.Images...)
	if l.CurrentPrice != nil {
		p := *l.CurrentPrice
		l.CurrentPrice = &p
	}
	if l.Winner != nil {
		w := *l.Winner
		l.Winner = &w
	}
	return l
}

func (r *InMemoryRepository) Create(_ context.Context, l models.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[l.ID]; ok {
		return shared.ErrorAlreadyExists
	}
	r.byID[l.ID] = clone(l)
	return nil
}

func (r *InMemoryRepository) Get(_ context.Context, id string) (models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.byID[id]
	if !ok {
		return models.Listing{}, shared.Errorf(shared.ErrorNotFound, "listing not found")
	}
	return clone(l), nil
}

func (r *InMemoryRepository) Update(_ context.Context, l models.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[l.ID]; !ok {
		return shared.Errorf(shared.ErrorNotFound, "listing not found")
	}
	r.byID[l.ID] = clone(l)
	return nil
}

func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return shared.Errorf(shared.ErrorNotFound, "listing not found")
	}
	delete(r.byID, id)
	return nil
}

func (r *InMemoryRepository) List(_ context.Context) ([]models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Listing, 0, len(r.byID))
	for _, l := range r.byID {
		out = append(out, clone(l))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
