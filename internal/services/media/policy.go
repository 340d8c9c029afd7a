package media

import (
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/princekumarofficial/tourism-media-service/internal/config"
	"github.com/princekumarofficial/tourism-media-service/internal/types/media"
)

var allowedExts = map[media.Kind][]string{
	media.KindImage: {".jpeg", ".jpg", ".png", ".webp"},
	media.KindVideo: {".mp4", ".avi", ".mov", ".wmv", ".flv", ".webm"},
}

// File is one uploaded part as declared by the client.
type File struct {
	Name        string // original filename
	Size        int64
	ContentType string // declared MIME type
	Open        func() (io.ReadCloser, error)
}

// Policy bounds what a single upload request may carry for one media kind.
type Policy struct {
	Kind         media.Kind
	Field        string
	MaxFiles     int
	MaxFileSize  int64
	AllowedTypes []string
	AllowedExts  []string
}

func NewPolicy(kind media.Kind, l config.Limits) Policy {
	types := make([]string, len(l.AllowedTypes))
	for i, t := range l.AllowedTypes {
		types[i] = strings.ToLower(t)
	}
	return Policy{
		Kind:         kind,
		Field:        l.Field,
		MaxFiles:     l.MaxFiles,
		MaxFileSize:  l.MaxFileSize,
		AllowedTypes: types,
		AllowedExts:  allowedExts[kind],
	}
}

// MaxRequestSize bounds the whole multipart body.
func (p Policy) MaxRequestSize() int64 {
	return p.MaxFileSize*int64(p.MaxFiles) + 1<<20
}

func normalizeType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Check validates file count, declared types, extensions and sizes before anything is written.
func (p Policy) Check(files []File) error {
	if len(files) == 0 {
		return fmt.Errorf("%w: no files uploaded", ErrInvalidInput)
	}
	if len(files) > p.MaxFiles {
		return fmt.Errorf("%w: too many files: at most %d %s file(s) per request", ErrInvalidInput, p.MaxFiles, p.Kind)
	}

	for _, f := range files {
		ct := normalizeType(f.ContentType)
		if !contains(p.AllowedTypes, ct) {
			return fmt.Errorf("%w: %s: file type %q is not allowed", ErrInvalidInput, f.Name, ct)
		}

		ext := strings.ToLower(filepath.Ext(f.Name))
		if !contains(p.AllowedExts, ext) {
			return fmt.Errorf("%w: %s: file extension %q is not allowed", ErrInvalidInput, f.Name, ext)
		}

		if f.Size > p.MaxFileSize {
			return fmt.Errorf("%w: %s exceeds the %s limit", ErrInvalidInput, f.Name, humanize.IBytes(uint64(p.MaxFileSize)))
		}
	}

	return nil
}
