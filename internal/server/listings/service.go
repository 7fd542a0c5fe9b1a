// Package listings holds the development backend's listings and enforces the
// auction rules on them.
package listings

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/reverseauction/internal/client/models"
	"github.com/dmitrijs2005/reverseauction/internal/client/realtime"
	"github.com/dmitrijs2005/reverseauction/internal/server/hub"
	"github.com/dmitrijs2005/reverseauction/internal/shared"
	"github.com/google/uuid"
)

// MinDecrementPercent is how far below the floor a bid has to be.
const MinDecrementPercent = models.BidDecrementPercent

// CategoryLookup resolves the category of a new listing.
type CategoryLookup interface {
	Get(ctx context.Context, id string) (models.Category, error)
}

type Service struct {
	repo       Repository
	categories CategoryLookup
	pub        hub.Publisher
	now        func() time.Time

	// mu serialises read-modify-write cycles so concurrent bids see each
	// other's floor.
	mu sync.Mutex
}

func NewService(repo Repository, categories CategoryLookup, pub hub.Publisher) *Service {
	if pub == nil {
		pub = hub.Nop{}
	}
	return &Service{repo: repo, categories: categories, pub: pub, now: time.Now}
}

// List returns what viewer may browse: admins see every listing, everyone
// else only approved active ones. categoryID narrows the result when set.
func (s *Service) List(ctx context.Context, viewer models.User, categoryID string) ([]models.Listing, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Listing, 0, len(all))
	for _, l := range all {
		if categoryID != "" && l.Category.ID != categoryID {
			continue
		}
		if !viewer.IsAdmin && !(l.IsApproved && l.IsActive()) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (models.Listing, error) {
	return s.repo.Get(ctx, id)
}

// Mine returns the listings owned by userID in any state.
func (s *Service) Mine(ctx context.Context, userID string) ([]models.Listing, error) {
	return s.filter(ctx, func(l models.Listing) bool { return l.IsOwnedBy(userID) })
}

// MyBids returns the listings userID has bid on.
func (s *Service) MyBids(ctx context.Context, userID string) ([]models.Listing, error) {
	return s.filter(ctx, func(l models.Listing) bool {
		for _, b := range l.Bids {
			if b.Bidder.ID == userID {
				return true
			}
		}
		return false
	})
}

func (s *Service) filter(ctx context.Context, keep func(models.Listing) bool) ([]models.Listing, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Listing, 0)
	for _, l := range all {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out, nil
}

// Create stores a new listing. Listings by admins are approved right away,
// everyone else's wait for Approve.
func (s *Service) Create(ctx context.Context, owner models.User, in models.ListingInput) (models.Listing, error) {
	if !owner.IsApproved {
		return models.Listing{}, shared.Errorf(shared.ErrorNotAllowed, "your account is waiting for admin approval")
	}
	cat, err := s.checkInput(ctx, in)
	if err != nil {
		return models.Listing{}, err
	}

	now := s.now().UTC()
	l := models.Listing{
		ID:              uuid.NewString(),
		Title:           strings.TrimSpace(in.Title),
		Description:     in.Description,
		Category:        models.Ref{ID: cat.ID, Name: cat.Name},
		Owner:           models.Ref{ID: owner.ID, Name: owner.Name, Email: owner.Email},
		Quantity:        in.Quantity,
		Unit:            strings.TrimSpace(in.Unit),
		InitialMaxPrice: in.InitialMaxPrice,
		Images:          in.Images,
		Bids:            []models.Bid{},
		Status:          models.ListingActive,
		IsApproved:      owner.IsAdmin,
		ExpiresAt:       in.ExpiresAt.UTC(),
		CreatedAt:       now,
		UpdatedAt:       now,
		Revision:        1,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return models.Listing{}, err
	}
	if l.IsApproved {
		s.pub.Publish(realtime.ListingCreated{Listing: l})
	}
	return l, nil
}

func (s *Service) checkInput(ctx context.Context, in models.ListingInput) (models.Category, error) {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return models.Category{}, shared.Errorf(shared.ErrorValidation, "title is required")
	case in.Category == "":
		return models.Category{}, shared.Errorf(shared.ErrorValidation, "category is required")
	case !shared.ValidAmount(in.Quantity):
		return models.Category{}, shared.Errorf(shared.ErrorValidation, "quantity must be positive")
	case strings.TrimSpace(in.Unit) == "":
		return models.Category{}, shared.Errorf(shared.ErrorValidation, "unit is required")
	case !shared.ValidAmount(in.InitialMaxPrice):
		return models.Category{}, shared.Errorf(shared.ErrorValidation, "initial max price must be positive")
	case !in.ExpiresAt.After(s.now()):
		return models.Category{}, shared.Errorf(shared.ErrorValidation, "expiry must be in the future")
	}
	cat, err := s.categories.Get(ctx, in.Category)
	if err != nil {
		return models.Category{}, shared.Errorf(shared.ErrorValidation, "unknown category")
	}
	if !cat.IsActive {
		return models.Category{}, shared.Errorf(shared.ErrorValidation, "category %s is inactive", cat.Name)
	}
	return cat, nil
}

// Update edits an active listing that has no bids yet.
func (s *Service) Update(ctx context.Context, actor models.User, id string, in models.ListingInput) (models.Listing, error) {
	cat, err := s.checkInput(ctx, in)
	if err != nil {
		return models.Listing{}, err
	}
	return s.mutate(ctx, id, func(l *models.Listing) error {
		if err := ownerOrAdmin(actor, *l); err != nil {
			return err
		}
		if !l.IsActive() {
			return shared.Errorf(shared.ErrorNotAllowed, "listing is %s", l.Status)
		}
		if len(l.Bids) > 0 {
			return shared.Errorf(shared.ErrorNotAllowed, "listing already has bids")
		}
		l.Title = strings.TrimSpace(in.Title)
		l.Description = in.Description
		l.Category = models.Ref{ID: cat.ID, Name: cat.Name}
		l.Quantity = in.Quantity
		l.Unit = strings.TrimSpace(in.Unit)
		l.InitialMaxPrice = in.InitialMaxPrice
		l.ExpiresAt = in.ExpiresAt.UTC()
		if in.Images != nil {
			l.Images = in.Images
		}
		return nil
	}, updated)
}

func (s *Service) Delete(ctx context.Context, actor models.User, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := ownerOrAdmin(actor, l); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.pub.Publish(realtime.ListingDeleted{ListingID: id})
	return nil
}

func (s *Service) Cancel(ctx context.Context, actor models.User, id string) (models.Listing, error) {
	return s.mutate(ctx, id, func(l *models.Listing) error {
		if err := ownerOrAdmin(actor, *l); err != nil {
			return err
		}
		if !l.IsActive() {
			return shared.Errorf(shared.ErrorNotAllowed, "listing is already %s", l.Status)
		}
		l.Status = models.ListingCancelled
		return nil
	}, updated)
}

// Complete closes an active listing. Accepting awards it to the lowest
// bid, rejecting cancels it.
func (s *Service) Complete(ctx context.Context, actor models.User, id string, accept bool) (models.Listing, error) {
	return s.mutate(ctx, id, func(l *models.Listing) error {
		if !l.IsOwnedBy(actor.ID) {
			return shared.Errorf(shared.ErrorNotAllowed, "only the owner can complete a listing")
		}
		if !l.IsActive() {
			return shared.Errorf(shared.ErrorNotAllowed, "listing is already %s", l.Status)
		}
		if !accept {
			l.Status = models.ListingCancelled
			return nil
		}
		last, ok := l.LastBid()
		if !ok {
			return shared.Errorf(shared.ErrorNotAllowed, "listing has no bids to accept")
		}
		w := last.Bidder
		l.Winner = &w
		l.Status = models.ListingCompleted
		return nil
	}, updated)
}

// Approve publishes a pending listing to the market.
func (s *Service) Approve(ctx context.Context, id string) (models.Listing, error) {
	return s.mutate(ctx, id, func(l *models.Listing) error {
		if l.IsApproved {
			return shared.Errorf(shared.ErrorNotAllowed, "listing is already approved")
		}
		l.IsApproved = true
		return nil
	}, func(l models.Listing) realtime.Event { return realtime.ListingCreated{Listing: l} })
}

// PlaceBid records a bid when it is at least MinDecrementPercent below the
// floor and the bidder is allowed to bid.
func (s *Service) PlaceBid(ctx context.Context, bidder models.User, id string, price float64) (models.BidResponse, error) {
	var bid models.Bid
	l, err := s.mutate(ctx, id, func(l *models.Listing) error {
		if err := s.checkBid(bidder, l, price); err != nil {
			return err
		}
		bid = models.Bid{
			ID:        uuid.NewString(),
			Bidder:    models.Ref{ID: bidder.ID, Name: bidder.Name, Email: bidder.Email},
			Price:     price,
			CreatedAt: s.now().UTC(),
		}
		l.Bids = append(l.Bids, bid)
		p := price
		l.CurrentPrice = &p
		return nil
	}, func(l models.Listing) realtime.Event { return realtime.BidUpdate{Listing: l, Bid: bid} })
	if err != nil {
		return models.BidResponse{}, err
	}
	return models.BidResponse{Message: "bid placed", Listing: &l, Bid: &bid}, nil
}

func (s *Service) checkBid(bidder models.User, l *models.Listing, price float64) error {
	switch {
	case !bidder.IsApproved:
		return shared.Errorf(shared.ErrorNotAllowed, "your account is waiting for admin approval")
	case l.IsOwnedBy(bidder.ID):
		return shared.Errorf(shared.ErrorNotAllowed, "you cannot bid on your own listing")
	case !l.IsApproved:
		return shared.Errorf(shared.ErrorNotAllowed, "listing is not approved yet")
	case !l.IsActive():
		return shared.Errorf(shared.ErrorNotAllowed, "listing is %s, bidding is closed", l.Status)
	case !s.now().Before(l.ExpiresAt):
		return shared.Errorf(shared.ErrorNotAllowed, "listing has expired")
	case !shared.ValidAmount(price):
		return shared.Errorf(shared.ErrorValidation, "bid price must be a positive number")
	}
	if !l.AcceptsBid(price) {
		return shared.Errorf(shared.ErrorNotAllowed, "bid must be at least %d%% below the current price %.2f",
			MinDecrementPercent, l.Floor())
	}
	return nil
}

// ExpireDue marks active listings past their expiry as expired and returns
// how many changed.
func (s *Service) ExpireDue(ctx context.Context) (int, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	now := s.now()
	n := 0
	for _, l := range all {
		if !l.IsActive() || now.Before(l.ExpiresAt) {
			continue
		}
		_, err := s.mutate(ctx, l.ID, func(l *models.Listing) error {
			if !l.IsActive() {
				return shared.ErrorNotAllowed
			}
			l.Status = models.ListingExpired
			return nil
		}, updated)
		if err == nil {
			n++
		}
	}
	return n, nil
}

func updated(l models.Listing) realtime.Event { return realtime.ListingUpdated{Listing: l} }

// mutate loads, edits and stores a listing under the service lock, bumps
// its revision and publishes the resulting event.
func (s *Service) mutate(ctx context.Context, id string, fn func(*models.Listing) error, event func(models.Listing) realtime.Event) (models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Listing{}, err
	}
	if err := fn(&l); err != nil {
		return models.Listing{}, err
	}
	l.Revision++
	l.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, l); err != nil {
		return models.Listing{}, err
	}
	if l.IsApproved {
		s.pub.Publish(event(l))
	}
	return l, nil
}

func ownerOrAdmin(actor models.User, l models.Listing) error {
	if actor.IsAdmin || l.IsOwnedBy(actor.ID) {
		return nil
	}
	return shared.Errorf(shared.ErrorNotAllowed, "only the owner can change this listing")
}
