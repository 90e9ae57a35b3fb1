package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned (wrapped) by Download when the object does not exist.
var ErrNotFound = errors.New("storage: object not found")

// Storage defines the interface for object storage operations.
type Storage interface {
	// Upload writes data from reader to the given path. Readers of path
	// observe either the previous object or the complete new one.
	Upload(ctx context.Context, path string, reader io.Reader) error

	// Download returns a reader for the object at the given path.
	// The caller is responsible for closing the returned ReadCloser.
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists checks whether an object exists at the given path.
	Exists(ctx context.Context, path string) (bool, error)

	// URL returns a URL identifying the object at the given path.
	URL(ctx context.Context, path string) (string, error)
}

// IsNotFound reports whether err means the object does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
