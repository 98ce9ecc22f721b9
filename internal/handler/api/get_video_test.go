package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fhuszti/videos-ms-go/internal/api_context"
	"github.com/fhuszti/videos-ms-go/internal/mock"
	"github.com/fhuszti/videos-ms-go/internal/usecase/video"
	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

func requestWithID(method, target string, id *uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	if id != nil {
		req = req.WithContext(api_context.WithID(context.Background(), *id))
	}
	return req
}

func TestGetVideoHandler(t *testing.T) {
	id := uuid.NewUUID()
	raw := []byte(`{"id":"` + id.String() + `","title":"Clip A"}`)
	const etag = `"0badc0de"`

	tests := []struct {
		name        string
		ctxID       *uuid.UUID
		ifNoneMatch string
		renderErr   error
		wantStatus  int
		wantETag    bool
		wantBody    string
	}{
		{name: "ok", ctxID: &id, wantStatus: http.StatusOK, wantETag: true, wantBody: string(raw)},
		{name: "not modified", ctxID: &id, ifNoneMatch: etag, wantStatus: http.StatusNotModified, wantETag: true},
		{name: "stale etag", ctxID: &id, ifNoneMatch: `"deadbeef"`, wantStatus: http.StatusOK, wantETag: true, wantBody: string(raw)},
		{name: "missing id", wantStatus: http.StatusBadRequest},
		{name: "not found", ctxID: &id, renderErr: video.ErrVideoNotFound, wantStatus: http.StatusNotFound},
		{name: "repository down", ctxID: &id, renderErr: fmt.Errorf("%w: boom", video.ErrPersistence), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			renderer := &mock.HTTPRenderer{VideoOut: raw, EtagVideo: etag, GetVideoErr: tc.renderErr}
			req := requestWithID(http.MethodGet, "/videos/x", tc.ctxID)
			if tc.ifNoneMatch != "" {
				req.Header.Set("If-None-Match", tc.ifNoneMatch)
			}
			rec := httptest.NewRecorder()

			GetVideoHandler(renderer, &mock.VideoGetter{}).ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if got := rec.Header().Get("ETag") != ""; got != tc.wantETag {
				t.Errorf("ETag present = %v; want %v", got, tc.wantETag)
			}
			if tc.wantBody != "" && rec.Body.String() != tc.wantBody {
				t.Errorf("body = %q; want %q", rec.Body.String(), tc.wantBody)
			}
			if tc.wantStatus == http.StatusNotModified && rec.Body.Len() != 0 {
				t.Errorf("304 must not carry a body, got %q", rec.Body.String())
			}
			if tc.ctxID != nil && renderer.GotVideoID != *tc.ctxID {
				t.Errorf("renderer got id %s; want %s", renderer.GotVideoID, *tc.ctxID)
			}
		})
	}
}
