package files

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/princekumarofficial/tourism-media-service/internal/blobstore"
	"github.com/princekumarofficial/tourism-media-service/internal/utils/response"
)

// Serve returns a stored media file. Files kept in object storage are served
// through a redirect to their presigned URL.
// @Summary Fetch an uploaded file
// @Tags media
// @Param filename path string true "Stored file name"
// @Success 200 {file} file
// @Success 307 "Redirect to object storage"
// @Failure 404 {object} response.Response "Not found"
// @Router /uploads/{filename} [get]
func Serve(blobs blobstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("filename")
		if !blobstore.ValidName(name) {
			response.WriteJSON(w, http.StatusNotFound, response.GeneralError(errors.New("file not found")))
			return
		}

		if _, local := blobs.(*blobstore.Local); !local {
			u, err := blobs.URL(r.Context(), name)
			if err != nil {
				slog.Error("failed to build file URL", slog.String("file", name), slog.String("error", err.Error()))
				response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
				return
			}
			http.Redirect(w, r, u, http.StatusTemporaryRedirect)
			return
		}

		rc, err := blobs.Open(r.Context(), name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				response.WriteJSON(w, http.StatusNotFound, response.GeneralError(errors.New("file not found")))
				return
			}
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}
		defer rc.Close()

		var modTime time.Time
		if st, ok := rc.(interface{ Stat() (fs.FileInfo, error) }); ok {
			if info, err := st.Stat(); err == nil {
				modTime = info.ModTime()
			}
		}

		if rs, ok := rc.(io.ReadSeeker); ok {
			http.ServeContent(w, r, name, modTime, rs)
			return
		}
		io.Copy(w, rc)
	}
}
