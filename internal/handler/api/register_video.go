package api

import (
	"encoding/json"
	"net/http"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/validation"
)

type RegisterVideoRequest struct {
	BlobURL      string `json:"blobUrl" validate:"required,httpurl"`
	Title        string `json:"title" validate:"max=255"`
	BlobSize     int64  `json:"blobSize" validate:"gte=0"`
	BlobPathname string `json:"blobPathname"`
}

func RegisterVideoHandler(svc port.VideoRegistrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req RegisterVideoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(ctx, w, http.StatusBadRequest, "invalid request payload", err)
			return
		}

		if errs := validation.ValidateStruct(req); errs != nil {
			errsJSON, err := validation.ErrorsToJson(errs)
			if err != nil {
				writeError(ctx, w, http.StatusInternalServerError, "failed to encode validation errors", err)
				return
			}
			RespondRawJSON(w, http.StatusBadRequest, []byte(errsJSON))
			logger.Warnf(ctx, "❌  Validation failed: %s", errsJSON)
			return
		}

		out, err := svc.RegisterVideo(ctx, port.RegisterVideoInput{
			BlobURL:      req.BlobURL,
			Title:        req.Title,
			BlobSize:     req.BlobSize,
			BlobPathname: req.BlobPathname,
		})
		if err != nil {
			writeServiceError(r, w, "could not register video", err)
			return
		}

		RespondJSON(w, http.StatusAccepted, out)
		logger.Infof(ctx, "✅  Registered video #%s from %s", out.ID, req.BlobURL)
	}
}
