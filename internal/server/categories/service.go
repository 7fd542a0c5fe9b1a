// Package categories manages the listing categories of the development
// backend.
package categories

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/reverseauction/internal/client/models"
	"github.com/dmitrijs2005/reverseauction/internal/client/realtime"
	"github.com/dmitrijs2005/reverseauction/internal/server/hub"
	"github.com/dmitrijs2005/reverseauction/internal/shared"
	"github.com/google/uuid"
)

// DefaultSeed is what a fresh backend starts with.
var DefaultSeed = []string{"Agriculture", "Construction", "Electronics", "Packaging", "Textiles"}

type Service struct {
	repo Repository
	pub  hub.Publisher
	now  func() time.Time
}

func NewService(repo Repository, pub hub.Publisher) *Service {
	if pub == nil {
		pub = hub.Nop{}
	}
	return &Service{repo: repo, pub: pub, now: time.Now}
}

func (s *Service) List(ctx context.Context) ([]models.Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (models.Category, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in models.CategoryInput) (models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Category{}, shared.Errorf(shared.ErrorValidation, "category name is required")
	}
	now := s.now().UTC()
	c := models.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Description: in.Description,
		Icon:        in.Icon,
		IsActive:    in.IsActive == nil || *in.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return models.Category{}, err
	}
	s.pub.Publish(realtime.CategoryChanged{Type: realtime.CategoryCreate, Category: &c})
	return c, nil
}

// Update applies the non-empty fields of in.
func (s *Service) Update(ctx context.Context, id string, in models.CategoryInput) (models.Category, error) {
	return s.update(ctx, id, func(c *models.Category) {
		if name := strings.TrimSpace(in.Name); name != "" {
			c.Name = name
		}
		if in.Description != "" {
			c.Description = in.Description
		}
		if in.Icon != "" {
			c.Icon = in.Icon
		}
		if in.IsActive != nil {
			c.IsActive = *in.IsActive
		}
	})
}

func (s *Service) ToggleStatus(ctx context.Context, id string) (models.Category, error) {
	return s.update(ctx, id, func(c *models.Category) { c.IsActive = !c.IsActive })
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.pub.Publish(realtime.CategoryChanged{Type: realtime.CategoryDelete, CategoryID: id})
	return nil
}

// Seed creates the named categories on an empty repository.
func (s *Service) Seed(ctx context.Context, names []string) error {
	existing, err := s.repo.List(ctx)
	if err != nil || len(existing) > 0 {
		return err
	}
	for _, n := range names {
		if _, err := s.Create(ctx, models.CategoryInput{Name: n}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) update(ctx context.Context, id string, fn func(*models.Category)) (models.Category, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Category{}, err
	}
	fn(&c)
	c.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return models.Category{}, err
	}
	s.pub.Publish(realtime.CategoryChanged{Type: realtime.CategoryUpdate, Category: &c})
	return c, nil
}
