package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/validation"
)

type ListVideosQuery struct {
	Page   int    `json:"page" validate:"omitempty,gte=1"`
	Limit  int    `json:"limit" validate:"omitempty,gte=1,lte=100"`
	Status string `json:"status" validate:"omitempty,videostatus"`
}

func ListVideosHandler(svc port.VideoLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		q, err := parseListQuery(r)
		if err != nil {
			writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		if errs := validation.ValidateStruct(q); errs != nil {
			errsJSON, err := validation.ErrorsToJson(errs)
			if err != nil {
				writeError(ctx, w, http.StatusInternalServerError, "failed to encode validation errors", err)
				return
			}
			RespondRawJSON(w, http.StatusBadRequest, []byte(errsJSON))
			logger.Warnf(ctx, "❌  Validation failed: %s", errsJSON)
			return
		}

		in := port.ListVideosInput{Page: q.Page, Limit: q.Limit}
		if q.Status != "" {
			st := model.VideoStatus(q.Status)
			in.Status = &st
		}

		out, err := svc.ListVideos(ctx, in)
		if err != nil {
			writeServiceError(r, w, "could not list videos", err)
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		RespondJSON(w, http.StatusOK, out)
		logger.Debugf(ctx, "✅  Listed %d of %d videos", len(out.Videos), out.Total)
	}
}

func parseListQuery(r *http.Request) (ListVideosQuery, error) {
	values := r.URL.Query()
	q := ListVideosQuery{Status: values.Get("status")}

	var err error
	if q.Page, err = intParam(values.Get("page"), "page"); err != nil {
		return q, err
	}
	if q.Limit, err = intParam(values.Get("limit"), "limit"); err != nil {
		return q, err
	}
	return q, nil
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}
