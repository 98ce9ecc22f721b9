package api

import (
	"net/http"

	"github.com/fhuszti/videos-ms-go/internal/api_context"
	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

func DeleteVideoHandler(svc port.VideoDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, ok := api_context.IDFromContext(ctx)
		if !ok {
			writeError(ctx, w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		if err := svc.DeleteVideo(ctx, id); err != nil {
			writeServiceError(r, w, "could not delete video", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
		logger.Infof(ctx, "✅  Successfully deleted video #%s", id)
	}
}
