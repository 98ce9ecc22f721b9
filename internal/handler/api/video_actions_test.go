package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/mock"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/usecase/video"
	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

func TestGetVideoStatusHandler(t *testing.T) {
	id := uuid.NewUUID()
	job := model.NewProcessingJob(uuid.NewUUID(), id)

	tests := []struct {
		name       string
		ctxID      *uuid.UUID
		svcErr     error
		wantStatus int
		wantError  string
	}{
		{name: "ok", ctxID: &id, wantStatus: http.StatusOK},
		{name: "missing id", wantStatus: http.StatusBadRequest, wantError: "ID is required"},
		{name: "video not found", ctxID: &id, svcErr: video.ErrVideoNotFound, wantStatus: http.StatusNotFound, wantError: "Video not found"},
		{name: "job not found", ctxID: &id, svcErr: video.ErrJobNotFound, wantStatus: http.StatusNotFound, wantError: "Processing job not found"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mock.VideoStatusGetter{Out: job, Err: tc.svcErr}
			rec := httptest.NewRecorder()

			GetVideoStatusHandler(svc).ServeHTTP(rec, requestWithID(http.MethodGet, "/videos/x/status", tc.ctxID))

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if tc.wantError != "" {
				var er ErrorResponse
				if err := json.NewDecoder(rec.Body).Decode(&er); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if er.Error != tc.wantError {
					t.Errorf("error = %q; want %q", er.Error, tc.wantError)
				}
				return
			}
			var got model.ProcessingJob
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.ID != job.ID || got.Status != model.JobStatusPending {
				t.Errorf("job = %+v", got)
			}
		})
	}
}

func TestDeleteVideoHandler(t *testing.T) {
	id := uuid.NewUUID()

	tests := []struct {
		name       string
		ctxID      *uuid.UUID
		svcErr     error
		wantStatus int
	}{
		{name: "deleted", ctxID: &id, wantStatus: http.StatusNoContent},
		{name: "missing id", wantStatus: http.StatusBadRequest},
		{name: "not found", ctxID: &id, svcErr: video.ErrVideoNotFound, wantStatus: http.StatusNotFound},
		{name: "repository down", ctxID: &id, svcErr: fmt.Errorf("%w: boom", video.ErrPersistence), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mock.VideoDeleter{Err: tc.svcErr}
			rec := httptest.NewRecorder()

			DeleteVideoHandler(svc).ServeHTTP(rec, requestWithID(http.MethodDelete, "/videos/x", tc.ctxID))

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if tc.ctxID != nil && svc.GotID != id {
				t.Errorf("deleted id = %s; want %s", svc.GotID, id)
			}
			if tc.wantStatus == http.StatusNoContent && rec.Body.Len() != 0 {
				t.Errorf("204 must not carry a body")
			}
		})
	}
}

func TestReprocessVideoHandler(t *testing.T) {
	id := uuid.NewUUID()

	tests := []struct {
		name       string
		ctxID      *uuid.UUID
		svcErr     error
		wantStatus int
	}{
		{name: "accepted", ctxID: &id, wantStatus: http.StatusAccepted},
		{name: "missing id", wantStatus: http.StatusBadRequest},
		{name: "not found", ctxID: &id, svcErr: video.ErrVideoNotFound, wantStatus: http.StatusNotFound},
		{name: "job active", ctxID: &id, svcErr: video.ErrJobActive, wantStatus: http.StatusConflict},
		{name: "pool closed", ctxID: &id, svcErr: video.ErrPoolClosed, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mock.VideoReprocessor{Out: port.CreatedVideoOutput{ID: id, Title: "Clip A"}, Err: tc.svcErr}
			rec := httptest.NewRecorder()

			ReprocessVideoHandler(svc).ServeHTTP(rec, requestWithID(http.MethodPost, "/videos/x/reprocess", tc.ctxID))

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if tc.wantStatus != http.StatusAccepted {
				return
			}
			var out port.CreatedVideoOutput
			if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if out.ID != id || out.Title != "Clip A" {
				t.Errorf("response = %+v", out)
			}
		})
	}
}

type stubChecker bool

func (s stubChecker) Healthy(ctx context.Context) bool { return bool(s) }

func TestHealthHandler(t *testing.T) {
	started := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	now := started.Add(90 * time.Second)

	tests := []struct {
		name       string
		db         HealthChecker
		wantStatus string
	}{
		{"no checker", nil, "ok"},
		{"db answers", stubChecker(true), "ok"},
		{"db down", stubChecker(false), "degraded"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h := HealthHandler(started, func() time.Time { return now }, tc.db)
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d; want 200", rec.Code)
			}
			var got HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Status != tc.wantStatus || got.Uptime != 90 || got.Timestamp != now.UnixMilli() {
				t.Errorf("health = %+v", got)
			}
		})
	}
}

func TestFallbackHandlers(t *testing.T) {
	tests := []struct {
		name       string
		h          http.HandlerFunc
		wantStatus int
	}{
		{"not found", NotFoundHandler(), http.StatusNotFound},
		{"method not allowed", MethodNotAllowedHandler(), http.StatusMethodNotAllowed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tc.h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
		})
	}
}
