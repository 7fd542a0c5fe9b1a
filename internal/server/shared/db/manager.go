// Package db groups the backend's repositories behind one manager.
package db

import (
	"github.com/dmitrijs2005/reverseauction/internal/server/categories"
	"github.com/dmitrijs2005/reverseauction/internal/server/listings"
	"github.com/dmitrijs2005/reverseauction/internal/server/users"
)

type RepositoryManager interface {
	Users() users.Repository
	Listings() listings.Repository
	Categories() categories.Repository
	Close() error
}
