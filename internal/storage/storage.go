package storage

import (
	"context"
	"io"
)

// Service persists uploaded avatar blobs in remote object storage and
// resolves keys to retrievable URLs.
type Service interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	ObjectURL(key string) string
}
