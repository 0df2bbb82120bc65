package ports

import (
	"context"
	"io"
)

// BlobStore keeps uploaded recordings and presentations.
type BlobStore interface {
	// Put stores r at key and returns a URL for it.
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	// DeletePrefix removes every object under prefix. Nothing to delete is not an error.
	DeletePrefix(ctx context.Context, prefix string) error
}
