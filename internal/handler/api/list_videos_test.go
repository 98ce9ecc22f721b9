package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fhuszti/videos-ms-go/internal/mock"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/usecase/video"
	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

func TestListVideosHandler(t *testing.T) {
	ready := model.VideoStatusReady

	tests := []struct {
		name       string
		query      string
		svcErr     error
		wantStatus int
		wantCalled bool
		wantIn     port.ListVideosInput
	}{
		{name: "defaults", query: "", wantStatus: http.StatusOK, wantCalled: true},
		{name: "paging and status", query: "?page=2&limit=5&status=ready", wantStatus: http.StatusOK, wantCalled: true,
			wantIn: port.ListVideosInput{Page: 2, Limit: 5, Status: &ready}},
		{name: "page not a number", query: "?page=two", wantStatus: http.StatusBadRequest},
		{name: "page zero", query: "?page=-1", wantStatus: http.StatusBadRequest},
		{name: "limit too high", query: "?limit=101", wantStatus: http.StatusBadRequest},
		{name: "unknown status", query: "?status=done", wantStatus: http.StatusBadRequest},
		{name: "repository down", query: "", svcErr: fmt.Errorf("%w: boom", video.ErrPersistence),
			wantStatus: http.StatusInternalServerError, wantCalled: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mock.VideoLister{
				Out: port.ListVideosOutput{
					Videos: []*model.Video{model.NewVideo(uuid.NewUUID(), "Clip A", "https://blob/a.mp4", "video/mp4", 10)},
					Total:  1, Page: 1, Limit: 20, TotalPages: 1,
				},
				Err: tc.svcErr,
			}
			req := httptest.NewRequest(http.MethodGet, "/videos"+tc.query, nil)
			rec := httptest.NewRecorder()

			ListVideosHandler(svc).ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if svc.Called != tc.wantCalled {
				t.Fatalf("ListVideos called = %v; want %v", svc.Called, tc.wantCalled)
			}
			if tc.wantStatus != http.StatusOK {
				return
			}

			if svc.In.Page != tc.wantIn.Page || svc.In.Limit != tc.wantIn.Limit {
				t.Errorf("input paging = %d/%d; want %d/%d", svc.In.Page, svc.In.Limit, tc.wantIn.Page, tc.wantIn.Limit)
			}
			if (svc.In.Status == nil) != (tc.wantIn.Status == nil) ||
				(svc.In.Status != nil && *svc.In.Status != *tc.wantIn.Status) {
				t.Errorf("input status = %v; want %v", svc.In.Status, tc.wantIn.Status)
			}

			var out port.ListVideosOutput
			if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if out.Total != 1 || len(out.Videos) != 1 || out.Videos[0].Title != "Clip A" {
				t.Errorf("response = %+v", out)
			}
		})
	}
}
