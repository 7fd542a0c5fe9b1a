package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/reverseauction/internal/client/models"
)

// Event names on the wire.
const (
	EventBidUpdate       = "bidUpdate"
	EventListingCreated  = "listingCreated"
	EventListingUpdated  = "listingUpdated"
	EventListingDeleted  = "listingDeleted"
	EventCategoryChanged = "categoryChanged"

	// EventJoin is sent by the client right after connecting.
	EventJoin = "join"
)

// Frame is one websocket message.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Event is one of BidUpdate, ListingCreated, ListingUpdated, ListingDeleted
// or CategoryChanged.
type Event interface {
	Name() string
	isEvent()
}

type BidUpdate struct {
	Listing models.Listing `json:"listing"`
	Bid     models.Bid     `json:"bid"`
}

type ListingCreated struct {
	Listing models.Listing
}

type ListingUpdated struct {
	Listing models.Listing
}

type ListingDeleted struct {
	ListingID string `json:"listingId"`
}

type CategoryChangeType string

const (
	CategoryCreate CategoryChangeType = "create"
	CategoryUpdate CategoryChangeType = "update"
	CategoryDelete CategoryChangeType = "delete"
)

type CategoryChanged struct {
	Type       CategoryChangeType `json:"type"`
	Category   *models.Category   `json:"category,omitempty"`
	CategoryID string             `json:"categoryId,omitempty"`
}

// ID is the affected category id whichever form the server used.
func (e CategoryChanged) ID() string {
	if e.CategoryID != "" {
		return e.CategoryID
	}
	if e.Category != nil {
		return e.Category.ID
	}
	return ""
}

func (BidUpdate) Name() string       { return EventBidUpdate }
func (ListingCreated) Name() string  { return EventListingCreated }
func (ListingUpdated) Name() string  { return EventListingUpdated }
func (ListingDeleted) Name() string  { return EventListingDeleted }
func (CategoryChanged) Name() string { return EventCategoryChanged }

func (BidUpdate) isEvent()       {}
func (ListingCreated) isEvent()  {}
func (ListingUpdated) isEvent()  {}
func (ListingDeleted) isEvent()  {}
func (CategoryChanged) isEvent() {}

// ErrUnknownEvent is returned by Decode for names outside the five events.
type ErrUnknownEvent string

func (e ErrUnknownEvent) Error() string {
	return fmt.Sprintf("unknown event %q", string(e))
}

// Decode turns a frame into its typed Event.
func Decode(f Frame) (Event, error) {
	switch f.Event {
	case EventBidUpdate:
		var e BidUpdate
		if err := json.Unmarshal(f.Data, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.Event, err)
		}
		if e.Listing.ID == "" {
			return nil, fmt.Errorf("decode %s: missing listing id", f.Event)
		}
		return e, nil
	case EventListingCreated, EventListingUpdated:
		var l models.Listing
		if err := json.Unmarshal(f.Data, &l); err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.Event, err)
		}
		if l.ID == "" {
			return nil, fmt.Errorf("decode %s: missing listing id", f.Event)
		}
		if f.Event == EventListingCreated {
			return ListingCreated{Listing: l}, nil
		}
		return ListingUpdated{Listing: l}, nil
	case EventListingDeleted:
		var e ListingDeleted
		if err := json.Unmarshal(f.Data, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.Event, err)
		}
		return e, nil
	case EventCategoryChanged:
		var e CategoryChanged
		if err := json.Unmarshal(f.Data, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.Event, err)
		}
		switch e.Type {
		case CategoryCreate, CategoryUpdate:
			if e.Category == nil {
				return nil, fmt.Errorf("decode %s: %s without category", f.Event, e.Type)
			}
		case CategoryDelete:
		default:
			return nil, fmt.Errorf("decode %s: unknown change type %q", f.Event, e.Type)
		}
		return e, nil
	default:
		return nil, ErrUnknownEvent(f.Event)
	}
}

// Encode builds the wire frame for e.
func Encode(e Event) (Frame, error) {
	var payload any = e
	switch v := e.(type) {
	case ListingCreated:
		payload = v.Listing
	case ListingUpdated:
		payload = v.Listing
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Event: e.Name(), Data: data}, nil
}
