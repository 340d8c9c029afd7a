package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// tempPrefix marks in-flight writes. ValidName rejects it, so temp files never
// clash with blob names.
const tempPrefix = ".upload-"

// Local keeps blobs in a single directory on the server's filesystem.
type Local struct {
	dir    string
	prefix string
}

// NewLocal creates dir if needed. prefix is the public URL path files are served under.
func NewLocal(dir, prefix string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Local{dir: dir, prefix: prefix}, nil
}

// Dir returns the directory blobs are written to.
func (l *Local) Dir() string {
	return l.dir
}

func (l *Local) path(name string) (string, error) {
	if !ValidName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(l.dir, name), nil
}

func (l *Local) Save(ctx context.Context, name string, r io.Reader, size int64) (int64, error) {
	dst, err := l.path(name)
	if err != nil {
		return 0, err
	}

	// Write to a hidden temp file first so a partial write never shows up under name.
	tmp, err := os.CreateTemp(l.dir, tempPrefix+"*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, readerWithContext(ctx, r))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil && size >= 0 && n != size {
		err = fmt.Errorf("got %d bytes, want %d", n, size)
	}
	if err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("write %s: %w", name, err)
	}

	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("rename %s: %w", name, err)
	}

	return n, nil
}

func (l *Local) Open(_ context.Context, name string) (io.ReadCloser, error) {
	p, err := l.path(name)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

func (l *Local) Delete(_ context.Context, name string) error {
	p, err := l.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

func (l *Local) List(_ context.Context) ([]Object, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read uploads dir: %w", err)
	}

	objects := make([]Object, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !ValidName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		objects = append(objects, Object{Name: e.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	return objects, nil
}

// RemoveStaleTemp deletes temp files of writes that never finished, such as
// those left by a crash mid-upload, when they were last touched before cutoff.
func (l *Local) RemoveStaleTemp(_ context.Context, cutoff time.Time) (int, int64, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return 0, 0, fmt.Errorf("read uploads dir: %w", err)
	}

	var removed int
	var reclaimed int64
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), tempPrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(l.dir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, reclaimed, fmt.Errorf("remove %s: %w", e.Name(), err)
		}
		removed++
		reclaimed += info.Size()
	}
	return removed, reclaimed, nil
}

func (l *Local) URL(_ context.Context, name string) (string, error) {
	if !ValidName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return l.prefix + url.PathEscape(name), nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return ctxReader{ctx: ctx, r: r}
}
