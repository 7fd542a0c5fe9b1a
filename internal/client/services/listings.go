package services

import (
	"context"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/reverseauction/internal/client/client"
	"github.com/dmitrijs2005/reverseauction/internal/client/models"
	"github.com/dmitrijs2005/reverseauction/internal/logging"
)

type ListingService struct {
	api API
	log logging.Logger
	now func() time.Time
}

func NewListingService(api API, log logging.Logger) *ListingService {
	if log == nil {
		log = logging.Nop()
	}
	return &ListingService{api: api, log: log.With("component", "listings"), now: time.Now}
}

// List returns active listings, optionally only those of categoryID.
func (s *ListingService) List(ctx context.Context, categoryID string) ([]models.Listing, error) {
	path := "/listings"
	if categoryID != "" {
		path += "?" + url.Values{"category": {categoryID}}.Encode()
	}
	var out []models.Listing
	if err := s.api.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ListingService) Get(ctx context.Context, id string) (models.Listing, error) {
	var out models.Listing
	err := s.api.Get(ctx, "/listings/"+pathID(id), &out)
	return out, err
}

// Mine lists the caller's own listings.
func (s *ListingService) Mine(ctx context.Context) ([]models.Listing, error) {
	var out []models.Listing
	if err := s.api.Get(ctx, "/listings/user/mylistings", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyBids lists listings the caller has bid on.
func (s *ListingService) MyBids(ctx context.Context) ([]models.Listing, error) {
	var out []models.Listing
	if err := s.api.Get(ctx, "/listings/user/mybids", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ListingService) Create(ctx context.Context, in models.ListingInput) (models.Listing, error) {
	if err := s.validate(in); err != nil {
		return models.Listing{}, err
	}
	var out models.Listing
	err := s.api.Post(ctx, "/listings", in, &out)
	return out, err
}

func (s *ListingService) Update(ctx context.Context, id string, in models.ListingInput) (models.Listing, error) {
	if err := s.validate(in); err != nil {
		return models.Listing{}, err
	}
	var out models.Listing
	err := s.api.Put(ctx, "/listings/"+pathID(id), in, &out)
	return out, err
}

func (s *ListingService) Delete(ctx context.Context, id string) error {
	return s.api.Delete(ctx, "/listings/"+pathID(id), nil)
}

func (s *ListingService) Cancel(ctx context.Context, id string) (models.Listing, error) {
	var out models.Listing
	err := s.api.Put(ctx, "/listings/"+pathID(id)+"/cancel", nil, &out)
	return out, err
}

// Complete closes a listing; accept picks the lowest bid as winner.
func (s *ListingService) Complete(ctx context.Context, id string, accept bool) (models.Listing, error) {
	var out models.Listing
	err := s.api.Put(ctx, "/listings/"+pathID(id)+"/complete", models.CompleteRequest{Accept: accept}, &out)
	return out, err
}

// Approve publishes a pending listing (admin only).
func (s *ListingService) Approve(ctx context.Context, id string) (models.Listing, error) {
	var out models.Listing
	err := s.api.Put(ctx, "/listings/"+pathID(id)+"/approve", nil, &out)
	return out, err
}

// PlaceBid checks the bid rule and only then sends the bid. The local listing
// is not changed; the bidUpdate event carries the new state.
func (s *ListingService) PlaceBid(ctx context.Context, sess models.Session, l models.Listing, amount float64) (models.BidResponse, error) {
	if err := CheckBid(sess, l, amount); err != nil {
		return models.BidResponse{}, err
	}
	var out models.BidResponse
	if err := s.api.Post(ctx, "/listings/"+pathID(l.ID)+"/bid", models.BidRequest{Price: amount}, &out); err != nil {
		s.log.Info(ctx, "bid rejected", "listing_id", l.ID, "price", amount, "error", err)
		return models.BidResponse{}, err
	}
	s.log.Info(ctx, "bid placed", "listing_id", l.ID, "price", amount)
	return out, nil
}

func (s *ListingService) validate(in models.ListingInput) error {
	bad := func(msg string) error {
		return &client.Error{Kind: client.ErrValidation, Message: msg}
	}
	switch {
	case strings.TrimSpace(in.Title) == "":
		return bad("title is required")
	case strings.TrimSpace(in.Category) == "":
		return bad("category is required")
	case math.IsNaN(in.Quantity) || math.IsInf(in.Quantity, 0) || in.Quantity <= 0:
		return bad("quantity must be positive")
	case strings.TrimSpace(in.Unit) == "":
		return bad("unit is required")
	case math.IsNaN(in.InitialMaxPrice) || math.IsInf(in.InitialMaxPrice, 0) || in.InitialMaxPrice <= 0:
		return bad("maximum price must be positive")
	case !in.ExpiresAt.After(s.now()):
		return bad("expiry must be in the future")
	}
	return nil
}
