package users

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/reverseauction/internal/shared"
)

// InMemoryRepository keeps accounts in insertion order.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*Account
	byEmail map[string]string
	order   []string
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byID: make(map[string]*Account), byEmail: make(map[string]string)}
}

func (r *InMemoryRepository) Create(_ context.Context, a *Account) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := shared.NormalizeEmail(a.User.Email)
	if _, ok := r.byEmail[email]; ok {
		return nil, shared.Errorf(shared.ErrorAlreadyExists, "email %s is already registered", a.User.Email)
	}
	cp := *a
	r.byID[a.User.ID] = &cp
	r.byEmail[email] = a.User.ID
	r.order = append(r.order, a.User.ID)
	out := cp
	return &out, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrorNotFound
	}
	out := *a
	return &out, nil
}

func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	r.mu.RLock()
	id, ok := r.byEmail[shared.NormalizeEmail(email)]
	r.mu.RUnlock()
	if !ok {
		return nil, shared.ErrorNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *InMemoryRepository) Update(_ context.Context, a *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.User.ID]; !ok {
		return shared.ErrorNotFound
	}
	cp := *a
	r.byID[a.User.ID] = &cp
	return nil
}

func (r *InMemoryRepository) List(_ context.Context) ([]*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Account, 0, len(r.order))
	for _, id := range r.order {
		a := *r.byID[id]
		out = append(out, &a)
	}
	return out, nil
}
