package categories

import (
	"context"

	"github.com/dmitrijs2005/reverseauction/internal/client/models"
)

type Repository interface {
	Create(ctx context.Context, c models.Category) error
	Get(ctx context.Context, id string) (models.Category, error)
	Update(ctx context.Context, c models.Category) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Category, error)
}
