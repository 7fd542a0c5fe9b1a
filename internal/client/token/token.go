// Package token reads the claims of the backend's JWT access tokens on the
// client. Signatures are not verified here; the server does that on every
// request.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/reverseauction/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered claims plus the user id the backend embeds.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

var parser = jwt.NewParser()

// Decode parses tok without verifying its signature.
func Decode(tok string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(tok, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	return claims, nil
}

// ExpiresAt returns the exp claim. A token without exp is rejected.
func ExpiresAt(tok string) (time.Time, error) {
	claims, err := Decode(tok)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.Join(common.ErrInvalidToken, errors.New("missing exp claim"))
	}
	return claims.ExpiresAt.Time, nil
}

// IsValid reports exp > now. At exp == now the token is already expired.
func IsValid(tok string, now time.Time) bool {
	exp, err := ExpiresAt(tok)
	if err != nil {
		return false
	}
	return exp.After(now)
}
