package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/usecase/video"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteError(w http.ResponseWriter, status int, msg string, err error) {
	writeError(context.Background(), w, status, msg, err)
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, msg string, err error) {
	switch {
	case status >= http.StatusInternalServerError && err != nil:
		logger.Errorf(ctx, "❌  %s: %v", msg, err)
	case status >= http.StatusInternalServerError:
		logger.Error(ctx, "❌  "+msg)
	case err != nil:
		logger.Warnf(ctx, "⚠️  %s: %v", msg, err)
	default:
		logger.Warn(ctx, "⚠️  "+msg)
	}
	w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
	RespondJSON(w, status, ErrorResponse{Error: msg})
}

func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf(context.Background(), "❌  Failed to encode JSON response: %v", err)
	}
}

func RespondRawJSON(w http.ResponseWriter, status int, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(raw); err != nil {
		logger.Errorf(context.Background(), "❌  Failed to write JSON payload: %v", err)
	}
}

// StatusFor maps a use case error onto the HTTP status it is reported with.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, video.ErrVideoNotFound), errors.Is(err, video.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, video.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, video.ErrJobActive):
		return http.StatusConflict
	case errors.Is(err, video.ErrStorageUnavailable),
		errors.Is(err, video.ErrQueueFull),
		errors.Is(err, video.ErrPoolClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError reports err with its mapped status. Client errors carry
// the error text, server errors only the generic msg.
func writeServiceError(r *http.Request, w http.ResponseWriter, msg string, err error) {
	status := StatusFor(err)
	switch status {
	case http.StatusNotFound:
		writeError(r.Context(), w, status, notFoundMessage(err), nil)
	case http.StatusBadRequest, http.StatusConflict:
		writeError(r.Context(), w, status, err.Error(), nil)
	case http.StatusServiceUnavailable:
		writeError(r.Context(), w, status, "Service temporarily unavailable, try again later", err)
	default:
		writeError(r.Context(), w, status, msg, err)
	}
}

func notFoundMessage(err error) string {
	if errors.Is(err, video.ErrJobNotFound) {
		return "Processing job not found"
	}
	return "Video not found"
}
