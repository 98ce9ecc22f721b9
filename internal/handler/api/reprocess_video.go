package api

import (
	"net/http"

	"github.com/fhuszti/videos-ms-go/internal/api_context"
	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

func ReprocessVideoHandler(svc port.VideoReprocessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, ok := api_context.IDFromContext(ctx)
		if !ok {
			writeError(ctx, w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		out, err := svc.ReprocessVideo(ctx, id)
		if err != nil {
			writeServiceError(r, w, "could not reprocess video", err)
			return
		}

		RespondJSON(w, http.StatusAccepted, out)
		logger.Infof(ctx, "✅  Queued reprocessing of video #%s", id)
	}
}
