package media

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound signals that the requested blob does not exist.
var ErrNotFound = errors.New("media: file not found")

// Store persists media blobs. Upload stores the content under a
// caller-chosen path and returns the public URL the blob is served at.
// Open retrieves a blob by the ID embedded in that URL.
type Store interface {
	Upload(ctx context.Context, path string, r io.Reader) (string, error)
	Open(ctx context.Context, id string) (io.ReadCloser, string, error)
	Remove(ctx context.Context, path string) error
}
