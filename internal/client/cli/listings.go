package cli

import (
	"context"
	"time"

	"github.com/dmitrijs2005/reverseauction/internal/client/client"
	"github.com/dmitrijs2005/reverseauction/internal/client/models"
	"github.com/dmitrijs2005/reverseauction/internal/client/services"
)

// List shows active listings. An argument sets the category filter first.
func (a *App) List(ctx context.Context, args []string) error {
	if len(args) > 0 {
		a.feed.SetFilter(args[0])
	}
	listings, err := a.listings.List(ctx, a.feed.Filter())
	if err != nil {
		return err
	}
	a.feed.SetListings(listings)
	printListings(a.out, listings)
	return nil
}

func (a *App) Filter(ctx context.Context, args []string) error {
	if args[0] == "clear" {
		a.feed.SetFilter("")
	} else {
		a.feed.SetFilter(args[0])
	}
	return a.List(ctx, nil)
}

// Refresh reloads listings and categories, replacing whatever realtime
// updates were merged so far.
func (a *App) Refresh(ctx context.Context, _ []string) error {
	cats, err := a.categories.List(ctx)
	if err != nil {
		return err
	}
	listings, err := a.listings.List(ctx, a.feed.Filter())
	if err != nil {
		return err
	}
	a.feed.Replace(listings, cats)
	a.printf("%d listings, %d categories\n", len(listings), len(cats))
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	l, err := a.listings.Get(ctx, args[0])
	if err != nil {
		return err
	}
	printListing(a.out, l)
	return nil
}

// Bid places a bid on a listing. The listing the rule is checked against is
// the live copy held by the feed when there is one.
// Bid checks the amount against the held copy, then again against a fresh
// read of the listing, and sends it. The feed is left alone until the
// bidUpdate event arrives.
func (a *App) Bid(ctx context.Context, args []string) error {
	amount, err := services.ParseBidAmount(args[1])
	if err != nil {
		return err
	}
	sess := a.store.Session()
	if held, ok := a.feed.Listing(args[0]); ok {
		if err := services.CheckBid(sess, held, amount); err != nil {
			return err
		}
	}
	l, err := a.listings.Get(ctx, args[0])
	if err != nil {
		return err
	}
	if _, err := a.listings.PlaceBid(ctx, sess, l, amount); err != nil {
		return err
	}
	a.printf("Bid of %s sent for %q\n", money(amount), l.Title)
	return nil
}

func (a *App) Mine(ctx context.Context, _ []string) error {
	listings, err := a.listings.Mine(ctx)
	if err != nil {
		return err
	}
	printListings(a.out, listings)
	return nil
}

func (a *App) MyBids(ctx context.Context, _ []string) error {
	listings, err := a.listings.MyBids(ctx)
	if err != nil {
		return err
	}
	printListings(a.out, listings)
	return nil
}

// Create walks through the listing form.
func (a *App) Create(ctx context.Context, _ []string) error {
	if !a.store.Session().IsApproved {
		return client.BusinessRule("your account is waiting for admin approval")
	}

	var in models.ListingInput
	var err error
	if in.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
		return err
	}
	if in.Description, err = getMultiline(a.reader, "Description", a.out); err != nil {
		return err
	}
	if in.Category, err = getSimpleText(a.reader, "Category ID (see 'categories')", a.out); err != nil {
		return err
	}
	if in.Quantity, err = getNumber(a.reader, "Quantity", a.out); err != nil {
		return err
	}
	if in.Unit, err = getSimpleText(a.reader, "Unit (kg, ton, piece...)", a.out); err != nil {
		return err
	}
	if in.InitialMaxPrice, err = getNumber(a.reader, "Maximum price (TL)", a.out); err != nil {
		return err
	}
	days, err := getNumber(a.reader, "Duration in days", a.out)
	if err != nil {
		return err
	}
	in.ExpiresAt = time.Now().Add(time.Duration(days * float64(24*time.Hour)))

	l, err := a.listings.Create(ctx, in)
	if err != nil {
		return err
	}
	a.printf("Listing %s created", l.ID)
	if !l.IsApproved {
		a.printf(", it will be visible after admin approval")
	}
	a.println()
	return nil
}

func (a *App) Cancel(ctx context.Context, args []string) error {
	if _, err := a.listings.Cancel(ctx, args[0]); err != nil {
		return err
	}
	a.println("Listing cancelled")
	return nil
}

// Complete closes a listing; "accept" awards it to the lowest bid.
func (a *App) Complete(ctx context.Context, args []string) error {
	var accept bool
	switch args[1] {
	case "accept":
		accept = true
	case "reject":
	default:
		return usageError("<listingID> accept|reject")
	}
	l, err := a.listings.Complete(ctx, args[0], accept)
	if err != nil {
		return err
	}
	if l.Winner != nil {
		a.printf("Listing completed, winner: %s\n", l.Winner.Label())
		return nil
	}
	a.println("Listing completed")
	return nil
}

func (a *App) Categories(ctx context.Context, _ []string) error {
	cats, err := a.categories.List(ctx)
	if err != nil {
		return err
	}
	a.feed.Replace(a.feed.Listings(), cats)
	printCategories(a.out, cats, a.feed.Filter())
	return nil
}

// Notifications lists what was shown at the prompt recently.
func (a *App) Notifications(_ context.Context, _ []string) error {
	if len(a.history) == 0 {
		a.println("No notifications")
		return nil
	}
	now := time.Now()
	for i := len(a.history) - 1; i >= 0; i-- {
		n := a.history[i]
		a.printf("%-10s %s\n", since(now, n.At), n.Text)
	}
	return nil
}
