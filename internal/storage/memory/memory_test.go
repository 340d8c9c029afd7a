package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/princekumarofficial/tourism-media-service/internal/storage"
	"github.com/princekumarofficial/tourism-media-service/internal/types/media"
)

func TestListOrdering(t *testing.T) {
	m := New()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tick := base
	m.now = func() time.Time { tick = tick.Add(time.Second); return tick }

	for _, a := range []media.MediaAsset{
		{FilePath: "c.jpg", SortOrder: 1},
		{FilePath: "a.jpg", SortOrder: 0},
		{FilePath: "b.jpg", SortOrder: 0},
		{FilePath: "hidden.jpg", SortOrder: 0},
	} {
		a.ParentType, a.ParentID, a.Kind, a.IsActive = "sanctuary", 7, media.KindImage, a.FilePath != "hidden.jpg"
		_, err := m.CreateMediaAssets(ctx, []media.MediaAsset{a})
		require.NoError(t, err)
	}

	list, err := m.ListMediaAssets(ctx, "sanctuary", 7, media.KindImage)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "a.jpg", list[0].FilePath)
	require.Equal(t, "b.jpg", list[1].FilePath)
	require.Equal(t, "c.jpg", list[2].FilePath)

	empty, err := m.ListMediaAssets(ctx, "sanctuary", 8, media.KindImage)
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)
}

func TestScopedDelete(t *testing.T) {
	m := New()
	ctx := context.Background()

	created, err := m.CreateMediaAssets(ctx, []media.MediaAsset{
		{ParentType: "district", ParentID: 3, Kind: media.KindImage, FilePath: "x.png", IsActive: true},
	})
	require.NoError(t, err)
	id := created[0].ID

	require.ErrorIs(t, m.DeleteMediaAsset(ctx, "district", 4, media.KindImage, id), storage.ErrNotFound)
	require.ErrorIs(t, m.DeleteMediaAsset(ctx, "territory", 3, media.KindImage, id), storage.ErrNotFound)

	ref, err := m.MediaFileReferenced(ctx, "x.png")
	require.NoError(t, err)
	require.True(t, ref)

	require.NoError(t, m.DeleteMediaAsset(ctx, "district", 3, media.KindImage, id))

	ref, err = m.MediaFileReferenced(ctx, "x.png")
	require.NoError(t, err)
	require.False(t, ref)
}

func TestUsers(t *testing.T) {
	m := New()
	ctx := context.Background()

	id, err := m.CreateUser(ctx, "ranger@example.com", "hash")
	require.NoError(t, err)

	_, err = m.CreateUser(ctx, "ranger@example.com", "hash")
	require.ErrorIs(t, err, storage.ErrDuplicate)

	gotID, hash, err := m.GetUserByEmail(ctx, "ranger@example.com")
	require.NoError(t, err)
	require.Equal(t, id, gotID)
	require.Equal(t, "hash", hash)
}
