package models

import "time"

// AuthResponse is returned by /auth/login and /auth/register.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ListingInput is the create/update payload for a listing.
type ListingInput struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Quantity        float64   `json:"quantity"`
	Unit            string    `json:"unit"`
	InitialMaxPrice float64   `json:"initialMaxPrice"`
	ExpiresAt       time.Time `json:"expiresAt"`
	Images          []string  `json:"images,omitempty"`
}

// CategoryInput is the create/update payload for a category.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

type BidRequest struct {
	Price float64 `json:"price"`
}

type CompleteRequest struct {
	Accept bool `json:"accept"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

// BidResponse is the body of a successful bid placement.
type BidResponse struct {
	Message string   `json:"message,omitempty"`
	Listing *Listing `json:"listing,omitempty"`
	Bid     *Bid     `json:"bid,omitempty"`
}
