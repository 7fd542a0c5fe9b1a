package listings

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/reverseauction/internal/client/models"
	"github.com/dmitrijs2005/reverseauction/internal/client/realtime"
	"github.com/dmitrijs2005/reverseauction/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (r *recorder) Publish(ev realtime.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Name()
	}
	return out
}

type fakeCategories map[string]models.Category

func (f fakeCategories) Get(_ context.Context, id string) (models.Category, error) {
	c, ok := f[id]
	if !ok {
		return models.Category{}, shared.ErrorNotFound
	}
	return c, nil
}

var (
	t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	owner  = models.User{ID: "owner", Name: "Owner Co", IsApproved: true}
	bidder = models.User{ID: "bidder", Name: "Bidder Co", IsApproved: true}
	other  = models.User{ID: "other", Name: "Other Co", IsApproved: true}
	admin  = models.User{ID: "admin", Name: "Admin", IsApproved: true, IsAdmin: true}
)

func newService(t *testing.T) (*Service, *recorder) {
	t.Helper()
	pub := &recorder{}
	cats := fakeCategories{
		"steel": {ID: "steel", Name: "Steel", IsActive: true},
		"old":   {ID: "old", Name: "Old", IsActive: false},
	}
	s := NewService(NewInMemoryRepository(), cats, pub)
	clock := t0
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s, pub
}

func input() models.ListingInput {
	return models.ListingInput{
		Title:           "Rebar",
		Category:        "steel",
		Quantity:        10,
		Unit:            "ton",
		InitialMaxPrice: 1000,
		ExpiresAt:       t0.Add(72 * time.Hour),
	}
}

// approvedListing creates a listing by owner and has admin approve it.
func approvedListing(t *testing.T, s *Service) models.Listing {
	t.Helper()
	ctx := context.Background()
	l, err := s.Create(ctx, owner, input())
	require.NoError(t, err)
	l, err = s.Approve(ctx, l.ID)
	require.NoError(t, err)
	return l
}

func TestCreate_Validation(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		edit func(*models.ListingInput)
	}{
		{"no title", func(in *models.ListingInput) { in.Title = " " }},
		{"no category", func(in *models.ListingInput) { in.Category = "" }},
		{"unknown category", func(in *models.ListingInput) { in.Category = "wood" }},
		{"inactive category", func(in *models.ListingInput) { in.Category = "old" }},
		{"zero quantity", func(in *models.ListingInput) { in.Quantity = 0 }},
		{"no unit", func(in *models.ListingInput) { in.Unit = "" }},
		{"negative price", func(in *models.ListingInput) { in.InitialMaxPrice = -1 }},
		{"past expiry", func(in *models.ListingInput) { in.ExpiresAt = t0.Add(-time.Hour) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := input()
			tt.edit(&in)
			_, err := s.Create(ctx, owner, in)
			require.ErrorIs(t, err, shared.ErrorValidation)
		})
	}

	_, err := s.Create(ctx, models.User{ID: "new"}, input())
	require.ErrorIs(t, err, shared.ErrorNotAllowed)
}

func TestCreate_ApprovalFlow(t *testing.T) {
	s, pub := newService(t)
	ctx := context.Background()

	l, err := s.Create(ctx, owner, input())
	require.NoError(t, err)
	assert.False(t, l.IsApproved)
	assert.Equal(t, int64(1), l.Revision)
	assert.Equal(t, "Steel", l.Category.Name)
	assert.Empty(t, pub.names(), "pending listings are not broadcast")

	visible, err := s.List(ctx, bidder, "")
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, err := s.List(ctx, admin, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	l, err = s.Approve(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, l.IsApproved)
	assert.Equal(t, int64(2), l.Revision)
	assert.Equal(t, []string{realtime.EventListingCreated}, pub.names())

	_, err = s.Approve(ctx, l.ID)
	require.ErrorIs(t, err, shared.ErrorNotAllowed)

	visible, err = s.List(ctx, bidder, "steel")
	require.NoError(t, err)
	assert.Len(t, visible, 1)
	visible, err = s.List(ctx, bidder, "wood")
	require.NoError(t, err)
	assert.Empty(t, visible)

	byAdmin, err := s.Create(ctx, admin, input())
	require.NoError(t, err)
	assert.True(t, byAdmin.IsApproved)
}

func TestPlaceBid_FivePercentSequence(t *testing.T) {
	s, pub := newService(t)
	ctx := context.Background()
	l := approvedListing(t, s)

	steps := []struct {
		price float64
		ok    bool
	}{
		{960, false},
		{950, true},
		{900, true},
		{920, false},
		{855, true},
		{855, false},
	}
	for _, st := range steps {
		resp, err := s.PlaceBid(ctx, bidder, l.ID, st.price)
		if !st.ok {
			require.ErrorIs(t, err, shared.ErrorNotAllowed, "price %v", st.price)
			continue
		}
		require.NoError(t, err, "price %v", st.price)
		require.NotNil(t, resp.Listing)
		require.NotNil(t, resp.Bid)
		assert.Equal(t, st.price, *resp.Listing.CurrentPrice)
		assert.Equal(t, st.price, resp.Bid.Price)
	}

	got, err := s.Get(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, got.Bids, 3)
	assert.Equal(t, 855.0, got.Floor())
	assert.Equal(t, l.Revision+3, got.Revision)

	names := pub.names()
	assert.Equal(t, realtime.EventBidUpdate, names[len(names)-1])
}

func TestPlaceBid_NonRoundFloor(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	in := input()
	in.InitialMaxPrice = 19.99
	l, err := s.Create(ctx, owner, in)
	require.NoError(t, err)
	l, err = s.Approve(ctx, l.ID)
	require.NoError(t, err)

	limit := l.MaxBid()
	_, err = s.PlaceBid(ctx, bidder, l.ID, math.Nextafter(limit, math.Inf(1)))
	require.ErrorIs(t, err, shared.ErrorNotAllowed)

	resp, err := s.PlaceBid(ctx, bidder, l.ID, limit)
	require.NoError(t, err)
	assert.Equal(t, limit, *resp.Listing.CurrentPrice)
}

func TestPlaceBid_Preconditions(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()
	l := approvedListing(t, s)

	_, err := s.PlaceBid(ctx, owner, l.ID, 500)
	require.ErrorIs(t, err, shared.ErrorNotAllowed)

	_, err = s.PlaceBid(ctx, models.User{ID: "pending"}, l.ID, 500)
	require.ErrorIs(t, err, shared.ErrorNotAllowed)

	_, err = s.PlaceBid(ctx, bidder, l.ID, 0)
	require.ErrorIs(t, err, shared.ErrorValidation)

	_, err = s.PlaceBid(ctx, bidder, "missing", 500)
	require.ErrorIs(t, err, shared.ErrorNotFound)

	pending, err := s.Create(ctx, owner, input())
	require.NoError(t, err)
	_, err = s.PlaceBid(ctx, bidder, pending.ID, 500)
	require.ErrorIs(t, err, shared.ErrorNotAllowed)

	_, err = s.Cancel(ctx, owner, l.ID)
	require.NoError(t, err)
	_, err = s.PlaceBid(ctx, bidder, l.ID, 500)
	require.ErrorIs(t, err, shared.ErrorNotAllowed)
}

func TestPlaceBid_Concurrent(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()
	l := approvedListing(t, s)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.PlaceBid(ctx, bidder, l.ID, 950)
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Len(t, got.Bids, 1, "only the first 950 beats the floor")
}

func TestComplete(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	l := approvedListing(t, s)
	_, err := s.Complete(ctx, owner, l.ID, true)
	require.ErrorIs(t, err, shared.ErrorNotAllowed, "nothing to accept")

	_, err = s.PlaceBid(ctx, bidder, l.ID, 900)
	require.NoError(t, err)
	_, err = s.PlaceBid(ctx, other, l.ID, 800)
	require.NoError(t, err)

	_, err = s.Complete(ctx, bidder, l.ID, true)
	require.ErrorIs(t, err, shared.ErrorNotAllowed)

	done, err := s.Complete(ctx, owner, l.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.ListingCompleted, done.Status)
	require.NotNil(t, done.Winner)
	assert.Equal(t, other.ID, done.Winner.ID)

	rejected := approvedListing(t, s)
	r, err := s.Complete(ctx, owner, rejected.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.ListingCancelled, r.Status)
	assert.Nil(t, r.Winner)
}

func TestUpdateDeleteAndMine(t *testing.T) {
	s, pub := newService(t)
	ctx := context.Background()
	l := approvedListing(t, s)

	in := input()
	in.Title = "Rebar 12mm"
	up, err := s.Update(ctx, owner, l.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Rebar 12mm", up.Title)

	_, err = s.Update(ctx, other, l.ID, in)
	require.ErrorIs(t, err, shared.ErrorNotAllowed)

	_, err = s.PlaceBid(ctx, bidder, l.ID, 900)
	require.NoError(t, err)
	_, err = s.Update(ctx, owner, l.ID, in)
	require.ErrorIs(t, err, shared.ErrorNotAllowed, "no edits once bids exist")

	mine, err := s.Mine(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	bids, err := s.MyBids(ctx, bidder.ID)
	require.NoError(t, err)
	assert.Len(t, bids, 1)
	none, err := s.MyBids(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, none)

	require.ErrorIs(t, s.Delete(ctx, other, l.ID), shared.ErrorNotAllowed)
	require.NoError(t, s.Delete(ctx, admin, l.ID))
	names := pub.names()
	assert.Equal(t, realtime.EventListingDeleted, names[len(names)-1])
}

func TestExpireDue(t *testing.T) {
	s, pub := newService(t)
	ctx := context.Background()
	l := approvedListing(t, s)

	n, err := s.ExpireDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	s.now = func() time.Time { return t0.Add(100 * time.Hour) }
	n, err = s.ExpireDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ListingExpired, got.Status)
	names := pub.names()
	assert.Equal(t, realtime.EventListingUpdated, names[len(names)-1])
}
