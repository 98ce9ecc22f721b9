package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/metrics"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

// multipart parts beyond this size are spooled to disk by net/http
const uploadMemoryLimit = 32 << 20

func UploadVideoHandler(svc port.VideoCreator, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}

		if err := r.ParseMultipartForm(uploadMemoryLimit); err != nil {
			if isBodyTooLarge(err) {
				metrics.UploadsRejectedTotal.WithLabelValues("too_large").Inc()
				writeError(ctx, w, http.StatusRequestEntityTooLarge, "Uploaded file is too large", err)
				return
			}
			writeError(ctx, w, http.StatusBadRequest, "invalid multipart payload", err)
			return
		}
		defer func() {
			if err := r.MultipartForm.RemoveAll(); err != nil {
				logger.Warnf(ctx, "⚠️  failed to clean multipart spool: %v", err)
			}
		}()

		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(ctx, w, http.StatusBadRequest, "file is required", err)
			return
		}
		defer file.Close()

		out, err := svc.CreateVideo(ctx, port.CreateVideoInput{
			Title:       r.FormValue("title"),
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		})
		if err != nil {
			writeServiceError(r, w, "could not store uploaded video", err)
			return
		}

		RespondJSON(w, http.StatusAccepted, out)
		logger.Infof(ctx, "✅  Accepted upload of video #%s", out.ID)
	}
}

func isBodyTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return true
	}
	// the multipart reader does not always wrap the underlying read error
	return strings.Contains(err.Error(), "request body too large")
}
