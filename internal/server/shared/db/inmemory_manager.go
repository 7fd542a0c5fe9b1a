package db

import (
	"github.com/dmitrijs2005/reverseauction/internal/server/categories"
	"github.com/dmitrijs2005/reverseauction/internal/server/listings"
	"github.com/dmitrijs2005/reverseauction/internal/server/users"
)

type InMemoryRepositoryManager struct {
	users      *users.InMemoryRepository
	listings   *listings.InMemoryRepository
	categories *categories.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:      users.NewInMemoryRepository(),
		listings:   listings.NewInMemoryRepository(),
		categories: categories.NewInMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) Users() users.Repository { return m.users }

func (m *InMemoryRepositoryManager) Listings() listings.Repository { return m.listings }

func (m *InMemoryRepositoryManager) Categories() categories.Repository { return m.categories }

func (m *InMemoryRepositoryManager) Close() error { return nil }
