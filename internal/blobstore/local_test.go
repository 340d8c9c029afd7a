package blobstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) *Local {
	t.Helper()
	l, err := NewLocal(filepath.Join(t.TempDir(), "uploads"), "/uploads")
	require.NoError(t, err)
	return l
}

func TestLocal_SaveOpenDelete(t *testing.T) {
	l := newLocal(t)
	ctx := context.Background()

	n, err := l.Save(ctx, "a.jpg", strings.NewReader("hello"), 5)
	require.NoError(t, err)
	require.Equal(t, int64(5), n)

	rc, err := l.Open(ctx, "a.jpg")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))

	require.NoError(t, l.Delete(ctx, "a.jpg"))
	_, err = os.Stat(filepath.Join(l.Dir(), "a.jpg"))
	require.True(t, os.IsNotExist(err))
}

func TestLocal_DeleteMissingIsNoop(t *testing.T) {
	l := newLocal(t)
	require.NoError(t, l.Delete(context.Background(), "never-written.png"))
}

func TestLocal_RejectsTraversal(t *testing.T) {
	l := newLocal(t)
	ctx := context.Background()

	for _, name := range []string{"../x.jpg", "a/b.jpg", "", ".hidden", ".."} {
		_, err := l.Save(ctx, name, strings.NewReader("x"), 1)
		require.ErrorIs(t, err, ErrInvalidName, name)
	}
}

type failingReader struct{ after int }

func (f *failingReader) Read(p []byte) (int, error) {
	if f.after <= 0 {
		return 0, errors.New("boom")
	}
	n := min(len(p), f.after)
	f.after -= n
	return n, nil
}

func TestLocal_FailedSaveLeavesNothing(t *testing.T) {
	l := newLocal(t)

	_, err := l.Save(context.Background(), "broken.mp4", &failingReader{after: 10}, UnknownSize)
	require.Error(t, err)

	entries, err := os.ReadDir(l.Dir())
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestLocal_CanceledContext(t *testing.T) {
	l := newLocal(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Save(ctx, "late.jpg", strings.NewReader("x"), 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestLocal_ListSkipsTempFiles(t *testing.T) {
	l := newLocal(t)
	ctx := context.Background()

	_, err := l.Save(ctx, "one.png", strings.NewReader("1"), UnknownSize)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(l.Dir(), ".upload-123"), []byte("x"), 0o644))

	objects, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	require.Equal(t, "one.png", objects[0].Name)
	require.Equal(t, int64(1), objects[0].Size)
}

func TestLocal_SizeMismatchLeavesNothing(t *testing.T) {
	l := newLocal(t)

	_, err := l.Save(context.Background(), "short.jpg", strings.NewReader("abc"), 10)
	require.Error(t, err)

	entries, err := os.ReadDir(l.Dir())
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestLocal_RemoveStaleTemp(t *testing.T) {
	l := newLocal(t)
	ctx := context.Background()

	old := time.Now().Add(-2 * time.Hour)
	stale := filepath.Join(l.Dir(), ".upload-111")
	fresh := filepath.Join(l.Dir(), ".upload-222")
	require.NoError(t, os.WriteFile(stale, []byte("partial"), 0o644))
	require.NoError(t, os.Chtimes(stale, old, old))
	require.NoError(t, os.WriteFile(fresh, []byte("busy"), 0o644))

	_, err := l.Save(ctx, "kept.png", strings.NewReader("1"), 1)
	require.NoError(t, err)
	require.NoError(t, os.Chtimes(filepath.Join(l.Dir(), "kept.png"), old, old))

	removed, reclaimed, err := l.RemoveStaleTemp(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, removed)
	require.Equal(t, int64(7), reclaimed)

	_, err = os.Stat(stale)
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(l.Dir(), "kept.png"))
	require.NoError(t, err)
}

func TestLocal_URL(t *testing.T) {
	l := newLocal(t)
	u, err := l.URL(context.Background(), "galleryImages-1-ab.jpg")
	require.NoError(t, err)
	require.Equal(t, "/uploads/galleryImages-1-ab.jpg", u)
}
