// Package common contains constants and sentinel errors shared by the client
// packages and the development backend.
package common

// Durable storage keys for the cached session.
const (
	StorageKeyToken = "token"
	StorageKeyUser  = "user"
)

// HTTP header names used on outbound requests and realtime dials.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerPrefix            = "Bearer "
)
