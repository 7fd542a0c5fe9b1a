// Package client is the REST gateway to the marketplace backend.
//
// Every request carries the current bearer token (when signed in), a
// generated X-Request-ID and a fixed timeout. Responses are classified into
// the error kinds ErrUnavailable, ErrUnauthorized, ErrValidation, ErrNotFound
// and ErrServer; ErrBusinessRule is reserved for rules checked locally before
// a request is made. Use Message to get text that is safe to show.
//
// A 401 or 403 on an authenticated request triggers the OnUnauthorized hook,
// which the session store uses to drop the stored credentials.
//
// Nothing is retried.
package client
