package common

import "errors"

var (
	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Storage errors.
	ErrNotFound = errors.New("not found")
)
