package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/reverseauction/internal/client/client"
	"github.com/dmitrijs2005/reverseauction/internal/client/models"
)

// MinDecrementPercent is how far below the floor a bid has to be.
const MinDecrementPercent = models.BidDecrementPercent

// CheckBid applies the local bid rule. A bid p is accepted when the caller
// is signed in, approved, not the owner, the listing is active, p is a
// finite positive number and p <= floor * 0.95.
func CheckBid(sess models.Session, l models.Listing, amount float64) error {
	switch {
	case sess.IsZero():
		return client.BusinessRule("log in to place a bid")
	case !sess.IsApproved:
		return client.BusinessRule("your account is waiting for admin approval")
	case l.IsOwnedBy(sess.UserID):
		return client.BusinessRule("you cannot bid on your own listing")
	case !l.IsActive():
		return client.BusinessRule(fmt.Sprintf("listing is %s, bidding is closed", l.Status))
	case math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0:
		return client.BusinessRule("enter a valid bid amount")
	}

	if !l.AcceptsBid(amount) {
		return client.BusinessRule(fmt.Sprintf("bid must be at least %d%% below the current price %s (at most %s)",
			MinDecrementPercent, formatAmount(l.Floor()), formatAmount(displayMax(l))))
	}
	return nil
}

// MaxAcceptedBid is the highest amount CheckBid lets through for l.
func MaxAcceptedBid(l models.Listing) float64 {
	return l.MaxBid()
}

// displayMax rounds MaxAcceptedBid down to whole kuruş, so the quoted
// amount is itself accepted.
func displayMax(l models.Listing) float64 {
	limit := l.MaxBid()
	v := math.Floor(limit*100) / 100
	if v > limit {
		v = (math.Floor(limit*100) - 1) / 100
	}
	return v
}

// ParseBidAmount reads user input such as "950", "950.5" or "950,5".
// Thousands separators ("1,000", "1.000,50") are refused rather than
// guessed at.
func ParseBidAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if hasThousandsSeparator(s) {
		return 0, client.BusinessRule("write the amount without thousands separators, e.g. 1000 or 1000,50")
	}
	s = strings.Replace(s, ",", ".", 1)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, client.BusinessRule("enter a valid bid amount")
	}
	return v, nil
}

// hasThousandsSeparator spots both separators together, repeated commas, or
// a single comma followed by exactly three digits.
func hasThousandsSeparator(s string) bool {
	commas := strings.Count(s, ",")
	switch {
	case commas == 0:
		return false
	case commas > 1 || strings.Contains(s, "."):
		return true
	}
	frac := s[strings.IndexByte(s, ',')+1:]
	return len(frac) == 3 && strings.Trim(frac, "0123456789") == ""
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
