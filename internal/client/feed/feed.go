// Package feed holds the client's view of listings and categories and merges
// realtime events into it.
package feed

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/reverseauction/internal/client/models"
	"github.com/dmitrijs2005/reverseauction/internal/client/realtime"
)

const DefaultNotificationLimit = 50

type Notification struct {
	At        time.Time
	Text      string
	ListingID string
}

// Feed is safe for concurrent use: the realtime goroutine applies events
// while the REPL reads.
type Feed struct {
	mu         sync.RWMutex
	listings   []models.Listing
	categories []models.Category
	filter     string
	notes      []Notification
	limit      int
	owner      string
	now        func() time.Time
}

func New(limit int) *Feed {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	return &Feed{limit: limit, now: time.Now}
}

// Replace resynchronises both collections, e.g. after a refresh.
func (f *Feed) Replace(listings []models.Listing, categories []models.Category) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listings = append([]models.Listing(nil), listings...)
	f.categories = append([]models.Category(nil), categories...)
}

func (f *Feed) SetListings(listings []models.Listing) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listings = append([]models.Listing(nil), listings...)
}

func (f *Feed) Listings() []models.Listing {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]models.Listing(nil), f.listings...)
}

func (f *Feed) Listing(id string) (models.Listing, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if i := f.indexOf(id); i >= 0 {
		return f.listings[i], true
	}
	return models.Listing{}, false
}

func (f *Feed) Categories() []models.Category {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]models.Category(nil), f.categories...)
}

// Filter is the active category id, "" when unfiltered.
func (f *Feed) Filter() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.filter
}

func (f *Feed) SetFilter(categoryID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter = categoryID
}

func (f *Feed) Notifications() []Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]Notification(nil), f.notes...)
}

// DrainNotifications returns and forgets the queued notifications.
func (f *Feed) DrainNotifications() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.notes
	f.notes = nil
	return out
}

// Apply merges ev in arrival order. currentUserID suppresses notifications
// about the user's own bids. It reports whether the view changed.
func (f *Feed) Apply(ev realtime.Event, currentUserID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch e := ev.(type) {
	case realtime.BidUpdate:
		changed := f.replace(e.Listing)
		if e.Bid.Bidder.ID != currentUserID {
			f.notify(e.Listing.ID, fmt.Sprintf("%s bid %s TL on %s",
				e.Bid.Bidder.Label(), formatPrice(e.Bid.Price), e.Listing.Title))
		}
		return changed

	case realtime.ListingCreated:
		if f.filter != "" && e.Listing.Category.ID != f.filter {
			return false
		}
		if f.indexOf(e.Listing.ID) >= 0 {
			return f.replace(e.Listing)
		}
		f.listings = append([]models.Listing{e.Listing}, f.listings...)
		f.notify(e.Listing.ID, "new listing: "+e.Listing.Title)
		return true

	case realtime.ListingUpdated:
		return f.replace(e.Listing)

	case realtime.ListingDeleted:
		i := f.indexOf(e.ListingID)
		if i < 0 {
			return false
		}
		f.listings = append(f.listings[:i:i], f.listings[i+1:]...)
		return true

	case realtime.CategoryChanged:
		return f.applyCategory(e)
	}
	return false
}

func (f *Feed) applyCategory(e realtime.CategoryChanged) bool {
	id := e.ID()
	i := -1
	for j, c := range f.categories {
		if c.ID == id {
			i = j
			break
		}
	}

	switch e.Type {
	case realtime.CategoryCreate, realtime.CategoryUpdate:
		if i >= 0 {
			f.categories[i] = *e.Category
			return true
		}
		if e.Type == realtime.CategoryUpdate {
			return false
		}
		f.categories = append(f.categories, *e.Category)
		return true
	case realtime.CategoryDelete:
		changed := false
		if i >= 0 {
			f.categories = append(f.categories[:i:i], f.categories[i+1:]...)
			changed = true
		}
		if f.filter == id {
			f.filter = ""
			changed = true
		}
		return changed
	}
	return false
}

// HandleSession is the session listener. Signing out, or signing in as a
// different user, drops everything held for the previous user.
func (f *Feed) HandleSession(sess models.Session) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !sess.IsZero() && sess.UserID == f.owner {
		return
	}
	f.listings = nil
	f.categories = nil
	f.filter = ""
	f.notes = nil
	f.owner = sess.UserID
}

// replace swaps the held listing for l unless l is older by revision.
// Absent listings are not inserted.
func (f *Feed) replace(l models.Listing) bool {
	i := f.indexOf(l.ID)
	if i < 0 {
		return false
	}
	held := f.listings[i]
	if held.Revision != 0 && l.Revision != 0 && l.Revision < held.Revision {
		return false
	}
	f.listings[i] = l
	return true
}

func (f *Feed) indexOf(id string) int {
	for i, l := range f.listings {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (f *Feed) notify(listingID, text string) {
	f.notes = append(f.notes, Notification{At: f.now(), Text: text, ListingID: listingID})
	if over := len(f.notes) - f.limit; over > 0 {
		f.notes = append([]Notification(nil), f.notes[over:]...)
	}
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
