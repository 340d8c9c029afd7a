// Package blobstore persists uploaded media bytes under flat, server-generated names.
package blobstore

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"
)

// ErrInvalidName is returned for names that would escape the flat namespace.
var ErrInvalidName = errors.New("invalid blob name")

// Object describes one stored blob.
type Object struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// UnknownSize is passed to Save when the length of the content is not known up front.
const UnknownSize int64 = -1

// Store abstracts where uploaded files live.
type Store interface {
	// Save writes the size bytes of r under name and returns the number of bytes written.
	// size is UnknownSize when the length is not known. A failed Save leaves nothing behind.
	Save(ctx context.Context, name string, r io.Reader, size int64) (int64, error)

	// Open returns a reader for name. Callers must close it.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Delete removes name. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// List returns every stored blob.
	List(ctx context.Context) ([]Object, error)

	// URL returns the address clients use to fetch name.
	URL(ctx context.Context, name string) (string, error)
}

// ValidName reports whether name is a single, plain path element.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return false
	}
	return path.Base(name) == name
}
