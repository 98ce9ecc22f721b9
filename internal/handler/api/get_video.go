package api

import (
	"net/http"

	"github.com/fhuszti/videos-ms-go/internal/api_context"
	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

func GetVideoHandler(renderer port.HTTPRenderer, svc port.VideoGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, ok := api_context.IDFromContext(ctx)
		if !ok {
			writeError(ctx, w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		raw, etag, err := renderer.RenderGetVideo(ctx, svc, id)
		if err != nil {
			writeServiceError(r, w, "Could not get video details", err)
			return
		}

		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "public, max-age=0, must-revalidate")
		if match := r.Header.Get("If-None-Match"); match == etag {
			w.WriteHeader(http.StatusNotModified)
			logger.Debugf(ctx, "✅  Video #%s not modified", id)
			return
		}

		RespondRawJSON(w, http.StatusOK, raw)
		logger.Debugf(ctx, "✅  Successfully returned details for video #%s", id)
	}
}
