package listings

import (
	"context"

	"github.com/dmitrijs2005/reverseauction/internal/client/models"
)

type Repository interface {
	Create(ctx context.Context, l models.Listing) error
	Get(ctx context.Context, id string) (models.Listing, error)
	Update(ctx context.Context, l models.Listing) error
	Delete(ctx context.Context, id string) error
	// List returns every listing, newest first.
	List(ctx context.Context) ([]models.Listing, error)
}
