package services

import (
	"context"
	"net/url"
)

// API is the REST gateway as seen by the services.
type API interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

func pathID(id string) string {
	return url.PathEscape(id)
}
