package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/reverseauction/internal/client/models"
	"github.com/dmitrijs2005/reverseauction/internal/logging"
	"golang.org/x/sync/errgroup"
)

type DashboardService struct {
	users      *UserService
	listings   *ListingService
	categories *CategoryService
	log        logging.Logger
}

func NewDashboardService(users *UserService, listings *ListingService, categories *CategoryService, log logging.Logger) *DashboardService {
	if log == nil {
		log = logging.Nop()
	}
	return &DashboardService{users: users, listings: listings, categories: categories, log: log.With("component", "dashboard")}
}

// Stats loads users, listings and categories in parallel and counts them.
// A source that fails is logged and counted as empty.
func (s *DashboardService) Stats(ctx context.Context) (models.Stats, error) {
	var (
		users      []models.User
		listings   []models.Listing
		categories []models.Category
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		if users, err = s.users.List(ctx); err != nil {
			s.log.Warn(ctx, "stats: users unavailable", "error", err)
			users = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if listings, err = s.listings.List(ctx, ""); err != nil {
			s.log.Warn(ctx, "stats: listings unavailable", "error", err)
			listings = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if categories, err = s.categories.List(ctx); err != nil {
			s.log.Warn(ctx, "stats: categories unavailable", "error", err)
			categories = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.Stats{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.Stats{}, err
	}

	return ComputeStats(users, listings, categories), nil
}

// ComputeStats derives the dashboard counters.
func ComputeStats(users []models.User, listings []models.Listing, categories []models.Category) models.Stats {
	st := models.Stats{
		TotalUsers:      len(users),
		TotalListings:   len(listings),
		TotalCategories: len(categories),
	}
	for _, u := range users {
		if !u.IsApproved && !u.IsRejected {
			st.PendingUsers++
		}
		if u.IsApproved {
			st.ActiveUsers++
		}
	}
	for _, l := range listings {
		if strings.EqualFold(string(l.Status), "pending") || !l.IsApproved {
			st.PendingListings++
		}
		if l.Status == models.ListingActive && l.IsApproved {
			st.ActiveListings++
		}
		if l.Status == models.ListingCompleted {
			st.CompletedListings++
		}
		st.TotalBids += len(l.Bids)
	}
	return st
}
