package video

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/mock"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

func finishedVideo() (*model.Video, *model.ProcessingJob) {
	video, job := processingVideo(1)
	_ = job.Start(fixedNow)
	_ = job.Succeed(fixedNow.Add(time.Second))
	video.MarkReady(mock.StoreBaseURL+"/thumbnails/old.webp", 7)
	return video, job
}

func newReprocessor(repo *mock.VideoRepository, store *mock.ObjectStore, sub *mock.JobSubmitter, cache *mock.Cache, id uuid.UUID) *videoReprocessorSrv {
	s := NewVideoReprocessor(repo, store, sub, cache, idSeq(id)).(*videoReprocessorSrv)
	s.now = clock
	return s
}

func TestReprocessVideo_Success(t *testing.T) {
	video, job := finishedVideo()
	previous := *video.CurrentJobID
	newJobID := uuid.NewUUID()
	repo := &mock.VideoRepository{VideoOut: video, JobOut: job}
	store, sub, cache := &mock.ObjectStore{}, &mock.JobSubmitter{}, &mock.Cache{}

	out, err := newReprocessor(repo, store, sub, cache, newJobID).ReprocessVideo(context.Background(), video.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ID != video.ID {
		t.Errorf("out = %+v", out)
	}
	if repo.GotPreviousJobID == nil || *repo.GotPreviousJobID != previous {
		t.Errorf("previous job guard = %v; want %s", repo.GotPreviousJobID, previous)
	}
	v := repo.StartedVideo
	if v.Status != model.VideoStatusProcessing || v.ProcessingCompleted || v.ThumbnailURL != nil || v.DurationSeconds != nil {
		t.Errorf("video not reset: %+v", v)
	}
	if *v.CurrentJobID != newJobID || repo.StartedJob.Status != model.JobStatusPending {
		t.Errorf("new job not current: %+v", repo.StartedJob)
	}
	if len(store.DeletedURLs) != 1 || store.DeletedURLs[0] != mock.StoreBaseURL+"/thumbnails/old.webp" {
		t.Errorf("old thumbnail should be removed, got %v", store.DeletedURLs)
	}
	if !cache.DelVideoCalled || !sub.Called || sub.GotJobID != newJobID {
		t.Error("cache should be dropped and new job submitted")
	}
}

func TestReprocessVideo_Refused(t *testing.T) {
	video, job := processingVideo(1)
	tests := []struct {
		name string
		repo *mock.VideoRepository
		want error
	}{
		{"pending job", &mock.VideoRepository{VideoOut: video, JobOut: job}, ErrJobActive},
		{"lost race", &mock.VideoRepository{VideoOut: video, GetJobErr: sql.ErrNoRows, StartJobErr: ErrJobActive}, ErrJobActive},
		{"video missing", &mock.VideoRepository{GetErr: sql.ErrNoRows}, ErrVideoNotFound},
		{"job lookup fails", &mock.VideoRepository{VideoOut: video, GetJobErr: errors.New("x")}, ErrPersistence},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := *video
			if tc.repo.VideoOut != nil {
				tc.repo.VideoOut = &v
			}
			sub := &mock.JobSubmitter{}
			_, err := newReprocessor(tc.repo, &mock.ObjectStore{}, sub, &mock.Cache{}, uuid.NewUUID()).ReprocessVideo(context.Background(), video.ID)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v; want %v", err, tc.want)
			}
			if sub.Called {
				t.Error("nothing may be submitted")
			}
		})
	}
}
