package categories

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/dmitrijs2005/reverseauction/internal/client/models"
	"github.com/dmitrijs2005/reverseauction/internal/shared"
)

type InMemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]models.Category
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byID: make(map[string]models.Category)}
}

func (r *InMemoryRepository) nameTaken(name, exceptID string) bool {
	for id, c := range r.byID {
		if id != exceptID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (r *InMemoryRepository) Create(_ context.Context, c models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nameTaken(c.Name, "") {
		return shared.Errorf(shared.ErrorAlreadyExists, "category %q already exists", c.Name)
	}
	r.byID[c.ID] = c
	return nil
}

func (r *InMemoryRepository) Get(_ context.Context, id string) (models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return models.Category{}, shared.Errorf(shared.ErrorNotFound, "category not found")
	}
	return c, nil
}

func (r *InMemoryRepository) Update(_ context.Context, c models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[c.ID]; !ok {
		return shared.Errorf(shared.ErrorNotFound, "category not found")
	}
	if r.nameTaken(c.Name, c.ID) {
		return shared.Errorf(shared.ErrorAlreadyExists, "category %q already exists", c.Name)
	}
	r.byID[c.ID] = c
	return nil
}

func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return shared.Errorf(shared.ErrorNotFound, "category not found")
	}
	delete(r.byID, id)
	return nil
}

// List returns categories sorted by name.
func (r *InMemoryRepository) List(_ context.Context) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Category, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
