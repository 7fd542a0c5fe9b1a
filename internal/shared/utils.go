// Package shared holds the development server's domain errors and small
// helpers used by its services.
package shared

import (
	"math"
	"strings"
)

// NormalizeEmail lower-cases and trims an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidAmount reports whether v is a finite positive number.
func ValidAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
