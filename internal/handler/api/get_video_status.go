package api

import (
	"net/http"

	"github.com/fhuszti/videos-ms-go/internal/api_context"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

func GetVideoStatusHandler(svc port.VideoStatusGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, ok := api_context.IDFromContext(ctx)
		if !ok {
			writeError(ctx, w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		job, err := svc.GetVideoStatus(ctx, id)
		if err != nil {
			writeServiceError(r, w, "Could not get processing status", err)
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		RespondJSON(w, http.StatusOK, job)
	}
}
