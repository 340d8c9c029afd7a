package blobstore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutOptions(t *testing.T) {
	known := putOptions("video-1-abc.mp4", 42<<20)
	require.Zero(t, known.PartSize)
	require.Equal(t, "video/mp4", known.ContentType)

	streamed := putOptions("galleryImages-1-abc.png", UnknownSize)
	require.Equal(t, uint64(streamPartSize), streamed.PartSize)
	require.Equal(t, "image/png", streamed.ContentType)
}
