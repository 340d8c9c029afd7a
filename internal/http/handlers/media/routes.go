package media

import (
	"net/http"

	"github.com/princekumarofficial/tourism-media-service/internal/types/media"
)

// Middleware wraps a handler.
type Middleware func(http.Handler) http.Handler

// Routes holds the middleware applied to the media routes. Nil entries are skipped.
type Routes struct {
	Auth       Middleware
	UploadRate Middleware
	DeleteRate Middleware
}

func chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			h = mws[i](h)
		}
	}
	return h
}

// collection is the URL segment of a media kind.
func collection(kind media.Kind) string {
	if kind == media.KindVideo {
		return "videos"
	}
	return "gallery"
}

// Register mounts the media routes of every parent type on mux.
func (h *MediaHandlers) Register(mux *http.ServeMux, rt Routes) {
	for _, parent := range media.ParentTypes {
		base := "/api/" + parent.Route + "/{parentId}"

		for _, kind := range parent.Kinds {
			col := base + "/" + collection(kind)
			item := col + "/{assetId}"

			mux.Handle("POST "+col, chain(h.Upload(parent, kind), rt.Auth, rt.UploadRate))
			mux.Handle("GET "+col, h.List(parent, kind))
			mux.Handle("DELETE "+item, chain(h.Delete(parent, kind), rt.Auth, rt.DeleteRate))
			mux.Handle("PATCH "+item, chain(h.Update(parent, kind), rt.Auth))
		}

		mux.Handle("GET "+base+"/media/summary", h.Summary(parent))
	}
}
