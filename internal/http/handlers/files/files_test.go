package files

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/princekumarofficial/tourism-media-service/internal/blobstore"
)

func TestServe_Local(t *testing.T) {
	blobs, err := blobstore.NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)
	_, err = blobs.Save(context.Background(), "galleryImages-1-abc.png", strings.NewReader("\x89PNG\r\n\x1a\n"), blobstore.UnknownSize)
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /uploads/{filename}", Serve(blobs))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/galleryImages-1-abc.png", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.Equal(t, "\x89PNG\r\n\x1a\n", rec.Body.String())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/missing.png", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/.upload-123", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
