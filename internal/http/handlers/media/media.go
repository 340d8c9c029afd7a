package media

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	mediaService "github.com/princekumarofficial/tourism-media-service/internal/services/media"
	"github.com/princekumarofficial/tourism-media-service/internal/storage"
	"github.com/princekumarofficial/tourism-media-service/internal/types/media"
	"github.com/princekumarofficial/tourism-media-service/internal/utils/response"
)

// maxMemory is how much of a multipart body is kept in memory before spilling to temp files.
const maxMemory = 32 << 20

type MediaHandlers struct {
	mediaService *mediaService.Service
}

// NewMediaHandlers creates a new media handlers instance
func NewMediaHandlers(mediaService *mediaService.Service) *MediaHandlers {
	return &MediaHandlers{
		mediaService: mediaService,
	}
}

// noun names an asset of kind in messages.
func noun(kind media.Kind) string {
	if kind == media.KindVideo {
		return "Video"
	}
	return "Image"
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// writeError maps service and storage errors onto status codes.
func writeError(w http.ResponseWriter, err error, notFound string) {
	switch {
	case errors.Is(err, mediaService.ErrInvalidInput), errors.Is(err, mediaService.ErrUnsupportedKind):
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
	case errors.Is(err, mediaService.ErrParentNotFound):
		response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
	case errors.Is(err, storage.ErrNotFound):
		response.WriteJSON(w, http.StatusNotFound, response.GeneralError(errors.New(notFound)))
	default:
		slog.Error("media request failed", slog.String("error", err.Error()))
		response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
	}
}

func uploadMetadata(r *http.Request) (media.UploadMetadata, error) {
	meta := media.UploadMetadata{
		Title:   r.FormValue("title"),
		AltText: r.FormValue("altText"),
	}
	if v := r.FormValue("sortOrder"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return meta, fmt.Errorf("%w: sortOrder must be an integer", mediaService.ErrInvalidInput)
		}
		meta.SortOrder = n
	}
	return meta, nil
}

func toFiles(headers []*multipart.FileHeader) []mediaService.File {
	files := make([]mediaService.File, len(headers))
	for i, fh := range headers {
		files[i] = mediaService.File{
			Name:        fh.Filename,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		}
	}
	return files
}

func uploaded(a media.MediaAsset) media.UploadedFile {
	return media.UploadedFile{
		ID:           a.ID,
		Filename:     a.FilePath,
		OriginalName: a.OriginalFilename,
		Size:         a.Size,
		URL:          a.URL,
	}
}

// Upload stores the files of one multipart request for a parent.
// @Summary Upload gallery images or a video
// @Description Images go to /gallery in the galleryImages field (up to 50, 10MB each). A video goes to /videos in the video field (1 file, 100MB).
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param parentType path string true "Parent route, e.g. sanctuaries"
// @Param parentId path int true "Parent ID"
// @Param galleryImages formData file false "Image files"
// @Param video formData file false "Video file"
// @Param title formData string false "Title"
// @Param altText formData string false "Alt text"
// @Param sortOrder formData int false "Sort order"
// @Success 201 {object} media.GalleryUploadResponse
// @Failure 400 {object} response.Response "Bad request"
// @Failure 404 {object} response.Response "Parent not found"
// @Failure 429 {object} response.Response "Rate limit exceeded"
// @Failure 500 {object} response.Response "Internal server error"
// @Security BearerAuth
// @Router /api/{parentType}/{parentId}/gallery [post]
// @Router /api/{parentType}/{parentId}/videos [post]
func (h *MediaHandlers) Upload(parent media.ParentType, kind media.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parentID, err := pathID(r, "parentId")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		policy := h.mediaService.Policy(kind)
		r.Body = http.MaxBytesReader(w, r.Body, policy.MaxRequestSize())

		if err := r.ParseMultipartForm(maxMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(
					fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(
				fmt.Errorf("invalid multipart form: %w", err)))
			return
		}
		defer r.MultipartForm.RemoveAll()

		meta, err := uploadMetadata(r)
		if err != nil {
			writeError(w, err, "")
			return
		}

		created, err := h.mediaService.Upload(r.Context(), mediaService.UploadRequest{
			Parent:   parent,
			ParentID: parentID,
			Kind:     kind,
			Files:    toFiles(r.MultipartForm.File[policy.Field]),
			Meta:     meta,
		})
		if err != nil {
			writeError(w, err, "")
			return
		}

		if kind == media.KindVideo {
			response.WriteJSON(w, http.StatusCreated, media.VideoUploadResponse{
				Status:       response.StatusSuccess,
				Message:      "Video uploaded successfully",
				UploadedFile: uploaded(created[0]),
			})
			return
		}

		files := make([]media.UploadedFile, len(created))
		for i, a := range created {
			files[i] = uploaded(a)
		}
		response.WriteJSON(w, http.StatusCreated, media.GalleryUploadResponse{
			Status:        response.StatusSuccess,
			Message:       fmt.Sprintf("%d image(s) uploaded successfully", len(files)),
			UploadedCount: len(files),
			Files:         files,
		})
	}
}

// List returns a parent's active images or videos.
// @Summary List gallery images or videos
// @Tags media
// @Produce json
// @Param parentType path string true "Parent route, e.g. sanctuaries"
// @Param parentId path int true "Parent ID"
// @Success 200 {object} media.ListResponse
// @Failure 400 {object} response.Response "Bad request"
// @Failure 500 {object} response.Response "Internal server error"
// @Router /api/{parentType}/{parentId}/gallery [get]
// @Router /api/{parentType}/{parentId}/videos [get]
func (h *MediaHandlers) List(parent media.ParentType, kind media.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parentID, err := pathID(r, "parentId")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		assets, err := h.mediaService.List(r.Context(), parent, parentID, kind)
		if err != nil {
			writeError(w, err, "")
			return
		}

		response.WriteJSON(w, http.StatusOK, media.ListResponse{
			Status: response.StatusSuccess,
			Data:   assets,
			Count:  len(assets),
		})
	}
}

// Delete removes one asset of a parent.
// @Summary Delete an image or video
// @Tags media
// @Produce json
// @Param parentType path string true "Parent route, e.g. sanctuaries"
// @Param parentId path int true "Parent ID"
// @Param assetId path int true "Asset ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response "Bad request"
// @Failure 404 {object} response.Response "Not found"
// @Failure 500 {object} response.Response "Internal server error"
// @Security BearerAuth
// @Router /api/{parentType}/{parentId}/gallery/{assetId} [delete]
// @Router /api/{parentType}/{parentId}/videos/{assetId} [delete]
func (h *MediaHandlers) Delete(parent media.ParentType, kind media.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parentID, err := pathID(r, "parentId")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		assetID, err := pathID(r, "assetId")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := h.mediaService.Delete(r.Context(), parent, parentID, kind, assetID); err != nil {
			writeError(w, err, noun(kind)+" not found")
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK(noun(kind)+" deleted successfully", nil))
	}
}

// Update patches the display metadata of one asset.
// @Summary Update image or video metadata
// @Tags media
// @Accept json
// @Produce json
// @Param parentType path string true "Parent route, e.g. sanctuaries"
// @Param parentId path int true "Parent ID"
// @Param assetId path int true "Asset ID"
// @Param update body media.AssetUpdate true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response "Bad request"
// @Failure 404 {object} response.Response "Not found"
// @Security BearerAuth
// @Router /api/{parentType}/{parentId}/gallery/{assetId} [patch]
// @Router /api/{parentType}/{parentId}/videos/{assetId} [patch]
func (h *MediaHandlers) Update(parent media.ParentType, kind media.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parentID, err := pathID(r, "parentId")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		assetID, err := pathID(r, "assetId")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		var upd media.AssetUpdate
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&upd); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("invalid request body")))
			return
		}

		asset, err := h.mediaService.Update(r.Context(), parent, parentID, kind, assetID, upd)
		if err != nil {
			writeError(w, err, noun(kind)+" not found")
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK(noun(kind)+" updated successfully", asset))
	}
}

// Summary reports counts and total bytes of a parent's media.
// @Summary Media summary
// @Tags media
// @Produce json
// @Param parentType path string true "Parent route, e.g. sanctuaries"
// @Param parentId path int true "Parent ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response "Parent not found"
// @Router /api/{parentType}/{parentId}/media/summary [get]
func (h *MediaHandlers) Summary(parent media.ParentType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parentID, err := pathID(r, "parentId")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		summary, err := h.mediaService.Summary(r.Context(), parent, parentID)
		if err != nil {
			writeError(w, err, "")
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Media summary retrieved", summary))
	}
}
