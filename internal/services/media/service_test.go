package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/princekumarofficial/tourism-media-service/internal/blobstore"
	"github.com/princekumarofficial/tourism-media-service/internal/config"
	"github.com/princekumarofficial/tourism-media-service/internal/storage"
	"github.com/princekumarofficial/tourism-media-service/internal/storage/memory"
	"github.com/princekumarofficial/tourism-media-service/internal/types"
	"github.com/princekumarofficial/tourism-media-service/internal/types/media"
)

// failingStore lets a test break the metadata insert.
type failingStore struct {
	*memory.Memory
	createErr error
}

func (s *failingStore) CreateMediaAssets(ctx context.Context, assets []media.MediaAsset) ([]media.MediaAsset, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.Memory.CreateMediaAssets(ctx, assets)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []types.EventType
}

func (p *recordingPublisher) PublishMediaEvent(t types.EventType, _ types.MediaEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, t)
}

var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

func memFile(name, contentType string, data []byte) File {
	return File{
		Name:        name,
		Size:        int64(len(data)),
		ContentType: contentType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

type fixture struct {
	svc   *Service
	store *failingStore
	blobs *blobstore.Local
	pub   *recordingPublisher
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	blobs, err := blobstore.NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)
	store := &failingStore{Memory: memory.New()}
	store.AddParent(media.Sanctuary, 7)
	store.AddParent(media.District, 3)
	pub := &recordingPublisher{}
	return fixture{
		svc:   NewService(store, blobs, pub, config.DefaultMedia()),
		store: store,
		blobs: blobs,
		pub:   pub,
	}
}

// rows counts the recorded assets of the parents the tests use.
func (f fixture) rows(t *testing.T) int {
	t.Helper()
	n := 0
	for _, p := range []struct {
		name string
		id   int64
	}{{"sanctuary", 7}, {"sanctuary", 999}, {"district", 3}} {
		s, err := f.store.MediaSummary(context.Background(), p.name, p.id)
		require.NoError(t, err)
		n += s.Images.Count + s.Videos.Count
	}
	return n
}

func (f fixture) files(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(f.blobs.Dir())
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestUpload_GalleryImages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Upload(ctx, UploadRequest{
		Parent:   media.Sanctuary,
		ParentID: 7,
		Kind:     media.KindImage,
		Files: []File{
			memFile("Tiger.JPG", "image/jpeg", jpegHeader),
			memFile("elephant.jpg", "image/jpeg", jpegHeader),
		},
		Meta: media.UploadMetadata{Title: "Wildlife"},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	for _, a := range created {
		require.NotZero(t, a.ID)
		require.Equal(t, "sanctuary", a.ParentType)
		require.Equal(t, int64(7), a.ParentID)
		require.Equal(t, "image/jpeg", a.ContentType)
		require.Equal(t, "Wildlife", a.Title)
		require.Regexp(t, `^galleryImages-\d+-[0-9a-f]{12}\.jpg$`, a.FilePath)
		require.Equal(t, "/uploads/"+a.FilePath, a.URL)
	}
	require.Equal(t, "Tiger.JPG", created[0].OriginalFilename)
	require.Len(t, f.files(t), 2)
	require.Equal(t, []types.EventType{types.EventMediaUploaded}, f.pub.events)

	listed, err := f.svc.List(ctx, media.Sanctuary, 7, media.KindImage)
	require.NoError(t, err)
	require.Len(t, listed, 2)
}

func TestUpload_ParentNotFoundWritesNothing(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Upload(context.Background(), UploadRequest{
		Parent:   media.Sanctuary,
		ParentID: 999,
		Kind:     media.KindImage,
		Files:    []File{memFile("a.jpg", "image/jpeg", jpegHeader)},
	})
	require.ErrorIs(t, err, ErrParentNotFound)
	require.Empty(t, f.files(t))
	require.Zero(t, f.rows(t))
	require.Empty(t, f.pub.events)
}

func TestUpload_RejectsBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  UploadRequest
		want error
	}{
		{
			name: "no files",
			req:  UploadRequest{Parent: media.Sanctuary, ParentID: 7, Kind: media.KindImage},
			want: ErrInvalidInput,
		},
		{
			name: "wrong mime type",
			req: UploadRequest{Parent: media.Sanctuary, ParentID: 7, Kind: media.KindImage,
				Files: []File{memFile("doc.jpg", "application/pdf", []byte("%PDF-1.4"))}},
			want: ErrInvalidInput,
		},
		{
			name: "wrong extension",
			req: UploadRequest{Parent: media.Sanctuary, ParentID: 7, Kind: media.KindImage,
				Files: []File{memFile("a.gif", "image/jpeg", jpegHeader)}},
			want: ErrInvalidInput,
		},
		{
			name: "two videos",
			req: UploadRequest{Parent: media.Sanctuary, ParentID: 7, Kind: media.KindVideo,
				Files: []File{
					memFile("a.mp4", "video/mp4", []byte("x")),
					memFile("b.mp4", "video/mp4", []byte("x")),
				}},
			want: ErrInvalidInput,
		},
		{
			name: "video for district",
			req: UploadRequest{Parent: media.District, ParentID: 3, Kind: media.KindVideo,
				Files: []File{memFile("a.mp4", "video/mp4", []byte("x"))}},
			want: ErrUnsupportedKind,
		},
		{
			name: "negative sort order",
			req: UploadRequest{Parent: media.Sanctuary, ParentID: 7, Kind: media.KindImage,
				Files: []File{memFile("a.jpg", "image/jpeg", jpegHeader)},
				Meta:  media.UploadMetadata{SortOrder: -1}},
			want: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Upload(ctx, tt.req)
			require.ErrorIs(t, err, tt.want)
		})
	}

	require.Empty(t, f.files(t))
	require.Zero(t, f.rows(t))
}

func TestUpload_OversizedFile(t *testing.T) {
	f := newFixture(t)
	big := memFile("huge.jpg", "image/jpeg", jpegHeader)
	big.Size = 11 << 20

	_, err := f.svc.Upload(context.Background(), UploadRequest{
		Parent: media.Sanctuary, ParentID: 7, Kind: media.KindImage, Files: []File{big},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Contains(t, err.Error(), "10 MiB")
}

func TestUpload_MetadataFailureRemovesFiles(t *testing.T) {
	f := newFixture(t)
	f.store.createErr = errors.New("db down")

	_, err := f.svc.Upload(context.Background(), UploadRequest{
		Parent:   media.Sanctuary,
		ParentID: 7,
		Kind:     media.KindImage,
		Files: []File{
			memFile("a.jpg", "image/jpeg", jpegHeader),
			memFile("b.png", "image/png", []byte("\x89PNG\r\n\x1a\n")),
		},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "db down")
	require.Empty(t, f.files(t))
}

func TestUpload_OpenFailureRemovesEarlierFiles(t *testing.T) {
	f := newFixture(t)
	broken := memFile("b.jpg", "image/jpeg", jpegHeader)
	broken.Open = func() (io.ReadCloser, error) { return nil, errors.New("part vanished") }

	_, err := f.svc.Upload(context.Background(), UploadRequest{
		Parent:   media.Sanctuary,
		ParentID: 7,
		Kind:     media.KindImage,
		Files:    []File{memFile("a.jpg", "image/jpeg", jpegHeader), broken},
	})
	require.Error(t, err)
	require.Empty(t, f.files(t))
	require.Zero(t, f.rows(t))
}

func TestUpload_SniffedTypeWins(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Upload(context.Background(), UploadRequest{
		Parent:   media.Sanctuary,
		ParentID: 7,
		Kind:     media.KindImage,
		Files:    []File{memFile("photo.png", "image/png", jpegHeader)},
	})
	require.NoError(t, err)
	require.Equal(t, "image/jpeg", created[0].ContentType)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Upload(ctx, UploadRequest{
		Parent: media.Sanctuary, ParentID: 7, Kind: media.KindVideo,
		Files: []File{memFile("tour.mp4", "video/mp4", []byte("video-bytes"))},
	})
	require.NoError(t, err)
	require.Len(t, f.files(t), 1)

	// wrong parent scope
	err = f.svc.Delete(ctx, media.Sanctuary, 8, media.KindVideo, created[0].ID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, f.svc.Delete(ctx, media.Sanctuary, 7, media.KindVideo, created[0].ID))
	require.Empty(t, f.files(t))

	err = f.svc.Delete(ctx, media.Sanctuary, 7, media.KindVideo, created[0].ID)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDelete_MissingFileStillDeletesRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Upload(ctx, UploadRequest{
		Parent: media.District, ParentID: 3, Kind: media.KindImage,
		Files: []File{memFile("a.webp", "image/webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "))},
	})
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(f.blobs.Dir(), created[0].FilePath)))

	require.NoError(t, f.svc.Delete(ctx, media.District, 3, media.KindImage, created[0].ID))

	listed, err := f.svc.List(ctx, media.District, 3, media.KindImage)
	require.NoError(t, err)
	require.Empty(t, listed)
	require.NotNil(t, listed)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Upload(ctx, UploadRequest{
		Parent: media.Sanctuary, ParentID: 7, Kind: media.KindImage,
		Files: []File{memFile("a.jpg", "image/jpeg", jpegHeader)},
	})
	require.NoError(t, err)
	id := created[0].ID

	_, err = f.svc.Update(ctx, media.Sanctuary, 7, media.KindImage, id, media.AssetUpdate{})
	require.ErrorIs(t, err, ErrInvalidInput)

	title := "Bengal tiger"
	order := 2
	updated, err := f.svc.Update(ctx, media.Sanctuary, 7, media.KindImage, id, media.AssetUpdate{Title: &title, SortOrder: &order})
	require.NoError(t, err)
	require.Equal(t, "Bengal tiger", updated.Title)
	require.Equal(t, 2, updated.SortOrder)
	require.NotEmpty(t, updated.URL)

	hidden := false
	_, err = f.svc.Update(ctx, media.Sanctuary, 7, media.KindImage, id, media.AssetUpdate{IsActive: &hidden})
	require.NoError(t, err)

	listed, err := f.svc.List(ctx, media.Sanctuary, 7, media.KindImage)
	require.NoError(t, err)
	require.Empty(t, listed)

	_, err = f.svc.Update(ctx, media.Sanctuary, 7, media.KindImage, 999, media.AssetUpdate{Title: &title})
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Upload(ctx, UploadRequest{
		Parent: media.Sanctuary, ParentID: 7, Kind: media.KindImage,
		Files: []File{memFile("a.jpg", "image/jpeg", jpegHeader), memFile("b.jpg", "image/jpeg", jpegHeader)},
	})
	require.NoError(t, err)
	_, err = f.svc.Upload(ctx, UploadRequest{
		Parent: media.Sanctuary, ParentID: 7, Kind: media.KindVideo,
		Files: []File{memFile("c.mp4", "video/mp4", []byte("1234"))},
	})
	require.NoError(t, err)

	s, err := f.svc.Summary(ctx, media.Sanctuary, 7)
	require.NoError(t, err)
	require.Equal(t, 2, s.Images.Count)
	require.Equal(t, int64(2*len(jpegHeader)), s.Images.TotalBytes)
	require.Equal(t, 1, s.Videos.Count)
	require.Equal(t, int64(4), s.Videos.TotalBytes)

	_, err = f.svc.Summary(ctx, media.Sanctuary, 8)
	require.ErrorIs(t, err, ErrParentNotFound)
}

func TestPolicy_MaxRequestSize(t *testing.T) {
	p := NewPolicy(media.KindVideo, config.Limits{Field: "video", MaxFiles: 1, MaxFileSize: 100 << 20, AllowedTypes: []string{"VIDEO/MP4"}})
	require.Equal(t, int64(101<<20), p.MaxRequestSize())
	require.Equal(t, []string{"video/mp4"}, p.AllowedTypes)
	require.NoError(t, p.Check([]File{memFile("x.MP4", "video/mp4; codecs=avc1", nil)}))
}
