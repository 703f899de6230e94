// Package media stores uploaded incident photos and serves back
// stable URLs for them.
package media

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("media: object not found")

// Store persists photo payloads. Implementations must be safe for
// concurrent use.
type Store interface {
	// Put stores content under id with the given MIME type.
	Put(ctx context.Context, id, mimeType string, content []byte) error
	// Get returns the content and MIME type for id.
	Get(ctx context.Context, id string) ([]byte, string, error)
	// URL returns a URL at which the object can be fetched, or an
	// empty string when the backend has no URL scheme of its own.
	URL(ctx context.Context, id string) (string, error)
}
