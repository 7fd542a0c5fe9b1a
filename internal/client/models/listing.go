package models

import "time"

type ListingStatus string

const (
	ListingActive    ListingStatus = "active"
	ListingCompleted ListingStatus = "completed"
	ListingCancelled ListingStatus = "cancelled"
	ListingExpired   ListingStatus = "expired"
)

// Bid is immutable once created; a listing's bids are kept in creation order.
type Bid struct {
	ID        string    `json:"_id"`
	Bidder    Ref       `json:"bidder"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
}

type Listing struct {
	ID              string        `json:"_id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Category        Ref           `json:"category"`
	Owner           Ref           `json:"owner"`
	Quantity        float64       `json:"quantity"`
	Unit            string        `json:"unit"`
	InitialMaxPrice float64       `json:"initialMaxPrice"`
	CurrentPrice    *float64      `json:"currentPrice,omitempty"`
	Images          []string      `json:"images,omitempty"`
	Bids            []Bid         `json:"bids"`
	Status          ListingStatus `json:"status"`
	IsApproved      bool          `json:"isApproved"`
	Winner          *Ref          `json:"winner,omitempty"`
	ExpiresAt       time.Time     `json:"expiresAt"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`

	// Revision is a per-listing counter assigned by servers that support it;
	// zero means the server did not send one.
	Revision int64 `json:"revision,omitempty"`
}

// Floor is the price a new bid has to beat: the current price when any bid
// exists, the initial maximum otherwise.
func (l Listing) Floor() float64 {
	if l.CurrentPrice != nil {
		return *l.CurrentPrice
	}
	return l.InitialMaxPrice
}

// BidDecrementPercent is how far below the floor a new bid has to be.
const BidDecrementPercent = 5

const maxBidRatio = (100 - BidDecrementPercent) / 100.0

// MaxBid is the highest acceptable bid: floor * 0.95.
func (l Listing) MaxBid() float64 {
	return l.Floor() * maxBidRatio
}

// AcceptsBid reports p <= MaxBid(). Client and server both decide with it.
func (l Listing) AcceptsBid(p float64) bool {
	return p <= l.MaxBid()
}

func (l Listing) IsActive() bool {
	return l.Status == ListingActive
}

func (l Listing) IsOwnedBy(userID string) bool {
	return userID != "" && l.Owner.ID == userID
}

// LastBid returns the most recent bid, if any.
func (l Listing) LastBid() (Bid, bool) {
	if len(l.Bids) == 0 {
		return Bid{}, false
	}
	return l.Bids[len(l.Bids)-1], true
}
