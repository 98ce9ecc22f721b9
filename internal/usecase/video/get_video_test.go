package video

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/fhuszti/videos-ms-go/internal/mock"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

func TestGetVideo(t *testing.T) {
	video, _ := processingVideo(1)
	tests := []struct {
		name   string
		getErr error
		want   error
	}{
		{name: "found"},
		{name: "not found", getErr: sql.ErrNoRows, want: ErrVideoNotFound},
		{name: "db error", getErr: errors.New("boom"), want: ErrPersistence},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mock.VideoRepository{VideoOut: video, GetErr: tc.getErr}
			got, err := NewVideoGetter(repo).GetVideo(context.Background(), video.ID)
			if tc.want != nil {
				if !errors.Is(err, tc.want) {
					t.Fatalf("err = %v; want %v", err, tc.want)
				}
				return
			}
			if err != nil || got != video {
				t.Fatalf("got %v, %v", got, err)
			}
		})
	}
}

func TestGetVideoStatus(t *testing.T) {
	video, job := processingVideo(1)
	orphan := model.NewVideo(uuid.NewUUID(), "t", "u", "video/mp4", 1)

	tests := []struct {
		name  string
		repo  *mock.VideoRepository
		want  error
		wantJ *model.ProcessingJob
	}{
		{name: "current job", repo: &mock.VideoRepository{VideoOut: video, JobOut: job}, wantJ: job},
		{name: "video missing", repo: &mock.VideoRepository{GetErr: sql.ErrNoRows}, want: ErrVideoNotFound},
		{name: "no job pointer", repo: &mock.VideoRepository{VideoOut: orphan}, want: ErrJobNotFound},
		{name: "job row missing", repo: &mock.VideoRepository{VideoOut: video, GetJobErr: sql.ErrNoRows}, want: ErrJobNotFound},
		{name: "job lookup fails", repo: &mock.VideoRepository{VideoOut: video, GetJobErr: errors.New("x")}, want: ErrPersistence},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewVideoStatusGetter(tc.repo).GetVideoStatus(context.Background(), video.ID)
			if tc.want != nil {
				if !errors.Is(err, tc.want) {
					t.Fatalf("err = %v; want %v", err, tc.want)
				}
				return
			}
			if err != nil || got != tc.wantJ {
				t.Fatalf("got %v, %v", got, err)
			}
		})
	}
}
