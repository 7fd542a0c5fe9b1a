package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/reverseauction/internal/client/client"
	"github.com/dmitrijs2005/reverseauction/internal/client/models"
)

type CategoryService struct {
	api API
}

func NewCategoryService(api API) *CategoryService {
	return &CategoryService{api: api}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := s.api.Get(ctx, "/categories", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (models.Category, error) {
	var out models.Category
	err := s.api.Get(ctx, "/categories/"+pathID(id), &out)
	return out, err
}

func (s *CategoryService) Create(ctx context.Context, in models.CategoryInput) (models.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.Category{}, &client.Error{Kind: client.ErrValidation, Message: "category name is required"}
	}
	var out models.Category
	err := s.api.Post(ctx, "/categories", in, &out)
	return out, err
}

func (s *CategoryService) Update(ctx context.Context, id string, in models.CategoryInput) (models.Category, error) {
	var out models.Category
	err := s.api.Put(ctx, "/categories/"+pathID(id), in, &out)
	return out, err
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	return s.api.Delete(ctx, "/categories/"+pathID(id), nil)
}

// ToggleStatus flips IsActive and returns the updated category.
func (s *CategoryService) ToggleStatus(ctx context.Context, id string) (models.Category, error) {
	var out models.Category
	err := s.api.Patch(ctx, "/categories/"+pathID(id)+"/toggle-status", nil, &out)
	return out, err
}
