package storage

import "context"

// ImageStore uploads image files to the external image host and returns the
// public URL they are served from. Services depend on this interface so tests
// can substitute a mock.
type ImageStore interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}
