package object

import (
	"context"
	"io"
)

// ObjectStore persists analysis artifacts under caller-chosen keys.
type ObjectStore interface {
	// SaveWithKey stores the object at the exact storage key and returns
	// the number of bytes written.
	SaveWithKey(ctx context.Context, storageKey, contentType string, r io.Reader) (int64, error)
	// Open returns a reader for the stored object. The caller must close it.
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
